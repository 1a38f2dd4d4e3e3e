package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// intList is a flag.Value accepting several integers, space or comma
// separated. The first Set replaces the default value.
type intList struct {
	vals *[]int
	set  bool
}

func (l *intList) String() string {
	if l.vals == nil {
		return ""
	}
	parts := make([]string, len(*l.vals))
	for i, v := range *l.vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(s string) error {
	if !l.set {
		*l.vals = nil
		l.set = true
	}
	for _, f := range splitList(s) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("invalid integer %q", f)
		}
		*l.vals = append(*l.vals, v)
	}
	return nil
}

// strList is the string counterpart of intList.
type strList struct {
	vals *[]string
	set  bool
}

func (l *strList) String() string {
	if l.vals == nil {
		return ""
	}
	return strings.Join(*l.vals, ",")
}

func (l *strList) Set(s string) error {
	if !l.set {
		*l.vals = nil
		l.set = true
	}
	*l.vals = append(*l.vals, splitList(s)...)
	return nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
}

// parseFlags builds the run configuration from the command line. The single
// positional argument is the input video. When no output directory is given,
// it defaults to the input basename without its extension.
func parseFlags(args []string) (*runOptions, error) {
	opts := &runOptions{
		hlsType:            "mpegts",
		hlsTime:            6,
		hlsSegments:        "{resolution}p_{index}",
		hlsMasterPlaylist:  "index.m3u8",
		hlsAddCodecs:       true,
		videoWidths:        []int{3840, 2560, 1920, 1280, 854, 640, 428},
		videoBitrates:      []int{14000, 6500, 4500, 2500, 1300, 800, 400},
		videoCodecs:        []string{"h264"},
		videoProfiles:      []string{"high@5.1", "high@5.1", "main@3.2", "main@3.1"},
		videoBitrateFactor: 1.0,
		audio:              true,
		audioBitrate:       96,
		audioCodec:         "aac",
		audioProfile:       "aac_low",
		mp4:                true,
		mp4MaxWidth:        1280,
		mp4BitrateFactor:   0.8,
		mp4Codec:           "h264",
		mp4Profile:         "main@3.1",
		mp4Filename:        "progressive.mp4",
		poster:             true,
		posterQuality:      10,
		posterFilename:     "poster.jpg",
		posterSeek:         "5%",
		posterMaxWidth:     1280,
		ffmpeg:             "ffmpeg",
		ffprobe:            "ffprobe",
		mp4file:            "mp4file",
		ratio:              "16:9",
	}

	fs := flag.NewFlagSet("video2hls", flag.ContinueOnError)

	fs.BoolVar(&opts.debug, "debug", false, "enable debugging")
	fs.BoolVar(&opts.silent, "silent", false, "don't log to console")

	// hls options
	fs.StringVar(&opts.hlsType, "hls-type", opts.hlsType, "HLS segment type (mpegts or fmp4)")
	fs.IntVar(&opts.hlsTime, "hls-time", opts.hlsTime, "HLS segment duration (in seconds)")
	fs.StringVar(&opts.hlsSegments, "hls-segments", opts.hlsSegments, "pattern to use for HLS segment files")
	fs.StringVar(&opts.hlsSegmentPrefix, "hls-segment-prefix", "", "prefix to use for segments in media playlists")
	fs.Var(&strList{vals: &opts.hlsPlaylistPrefix}, "hls-playlist-prefix", "prefix to use for playlists in master playlist")
	fs.StringVar(&opts.hlsMasterPlaylist, "hls-master-playlist", opts.hlsMasterPlaylist, "master playlist name")
	hlsNoCodecs := fs.Bool("hls-no-codecs", false, "do not compute codecs for master playlist")

	// video options
	fs.Var(&intList{vals: &opts.videoWidths}, "video-widths", "video resolutions (width in pixels)")
	fs.Var(&intList{vals: &opts.videoBitrates}, "video-bitrates", "video bitrates (in kbits/s)")
	fs.Var(&strList{vals: &opts.videoCodecs}, "video-codecs", "video codecs")
	fs.Var(&strList{vals: &opts.videoProfiles}, "video-profiles", "video profile (name@level)")
	fs.Var(&strList{vals: &opts.videoNames}, "video-names", "video name (used in playlists)")
	fs.Var(&strList{vals: &opts.videoPresets}, "video-presets", "video presets")
	fs.StringVar(&opts.videoOverlay, "video-overlay", "", "add an overlay with technical info about the video")
	fs.Float64Var(&opts.videoBitrateFactor, "video-bitrate-factor", opts.videoBitrateFactor, "factor to apply to provided bitrates")

	// audio options
	noAudio := fs.Bool("no-audio", false, "remove audio track")
	fs.IntVar(&opts.audioSampling, "audio-sampling", 0, "audio sampling rate")
	fs.IntVar(&opts.audioBitrate, "audio-bitrate", opts.audioBitrate, "audio bitrate (in kbits)")
	fs.StringVar(&opts.audioCodec, "audio-codec", opts.audioCodec, "audio codec")
	fs.StringVar(&opts.audioProfile, "audio-profile", opts.audioProfile, "audio profile")
	fs.BoolVar(&opts.audioOnly, "audio-only", false, "also generate an audio-only variant")
	fs.BoolVar(&opts.audioSeparate, "audio-separate", false, "keep audio track in separate media playlist")

	// progressive MP4 options
	noMP4 := fs.Bool("no-mp4", false, "disable progressive MP4 version")
	fs.IntVar(&opts.mp4Width, "mp4-width", 0, "progressive MP4 width (in pixels)")
	fs.IntVar(&opts.mp4MaxWidth, "mp4-max-width", opts.mp4MaxWidth, "progressive MP4 maximum width (in pixels)")
	fs.Float64Var(&opts.mp4BitrateFactor, "mp4-bitrate-factor", opts.mp4BitrateFactor, "progressive MP4 bitrate factor")
	fs.IntVar(&opts.mp4Bitrate, "mp4-bitrate", 0, "progressive MP4 bitrate (in kbits/s)")
	fs.StringVar(&opts.mp4Codec, "mp4-codec", opts.mp4Codec, "progressive MP4 codec")
	fs.StringVar(&opts.mp4Profile, "mp4-profile", opts.mp4Profile, "progressive MP4 profile (name@level)")
	fs.StringVar(&opts.mp4Overlay, "mp4-overlay", "", "add an overlay with technical info about the video")
	fs.StringVar(&opts.mp4Filename, "mp4-filename", opts.mp4Filename, "filename for progressive MP4")
	fs.StringVar(&opts.mp4Preset, "mp4-preset", "", "progressive MP4 preset")

	// poster options
	noPoster := fs.Bool("no-poster", false, "disable poster image")
	fs.IntVar(&opts.posterQuality, "poster-quality", opts.posterQuality, "poster quality (from 0 to 100)")
	fs.BoolVar(&opts.posterGrayscale, "poster-grayscale", false, "convert poster to grayscale")
	fs.StringVar(&opts.posterFilename, "poster-filename", opts.posterFilename, "poster filename")
	fs.StringVar(&opts.posterSeek, "poster-seek", opts.posterSeek, "seek to the given position (5% or 15s)")
	fs.IntVar(&opts.posterWidth, "poster-width", 0, "poster width (in pixels)")
	fs.IntVar(&opts.posterMaxWidth, "poster-max-width", opts.posterMaxWidth, "poster maximum width (in pixels)")

	// program options
	fs.StringVar(&opts.ffmpeg, "ffmpeg", opts.ffmpeg, "ffmpeg executable name")
	fs.StringVar(&opts.ffprobe, "ffprobe", opts.ffprobe, "ffprobe executable name")
	fs.StringVar(&opts.mp4file, "mp4file", opts.mp4file, "mp4file executable name")

	fs.StringVar(&opts.ratio, "ratio", opts.ratio, "video ratio (not enforced)")
	fs.StringVar(&opts.output, "output", "", "output directory")
	fs.BoolVar(&opts.outputOverwrite, "output-overwrite", false, "overwrite output directory if it exists")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected a single input video, got %d arguments", fs.NArg())
	}
	if opts.debug && opts.silent {
		return nil, fmt.Errorf("-debug and -silent are mutually exclusive")
	}
	// the ladder lists can be replaced but never emptied
	if len(opts.videoWidths) == 0 || len(opts.videoBitrates) == 0 ||
		len(opts.videoCodecs) == 0 || len(opts.videoProfiles) == 0 {
		return nil, fmt.Errorf("video-widths, video-bitrates, video-codecs and video-profiles need at least one value")
	}

	opts.hlsAddCodecs = !*hlsNoCodecs
	opts.audio = !*noAudio
	opts.mp4 = !*noMP4
	opts.poster = !*noPoster

	input, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	opts.input = input

	// default output directory is the input basename
	if opts.output == "" {
		opts.output = strings.TrimSuffix(opts.input, filepath.Ext(opts.input))
		if opts.output == opts.input {
			opts.output += "_output"
		}
	}
	if opts.output, err = filepath.Abs(opts.output); err != nil {
		return nil, err
	}
	return opts, nil
}
