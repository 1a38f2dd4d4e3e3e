package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// runOptions holds the full configuration of a run. It is built once from the
// command line and then refined in place by fixOptions until it is fully
// consistent with the probed source. All fields are declared up front,
// including the ones only fixOptions computes (ratioValue).
type runOptions struct {
	input           string // rebased to be relative to output by prepareWorkspace
	output          string
	outputOverwrite bool

	// hls options
	hlsType           string // "mpegts" or "fmp4"
	hlsTime           int
	hlsSegments       string // pattern for segment filenames
	hlsSegmentPrefix  string
	hlsPlaylistPrefix []string
	hlsMasterPlaylist string
	hlsAddCodecs      bool

	// video options
	videoWidths        []int
	videoBitrates      []int // kbits/s
	videoCodecs        []string
	videoProfiles      []string // name@level
	videoNames         []string
	videoPresets       []string
	videoOverlay       string
	videoBitrateFactor float64

	// audio options
	audio         bool
	audioSampling int
	audioBitrate  int // kbits/s
	audioCodec    string
	audioProfile  string
	audioOnly     bool
	audioSeparate bool

	// progressive MP4 options
	mp4              bool
	mp4Width         int
	mp4MaxWidth      int
	mp4Bitrate       int
	mp4BitrateFactor float64
	mp4Codec         string
	mp4Profile       string
	mp4Overlay       string
	mp4Filename      string
	mp4Preset        string

	// poster options
	poster          bool
	posterQuality   int
	posterGrayscale bool
	posterFilename  string
	posterSeek      string
	posterWidth     int
	posterMaxWidth  int

	// program options
	ffmpeg  string
	ffprobe string
	mp4file string

	ratio      string  // requested aspect ratio, eg "16:9"
	ratioValue float64 // computed by fixOptions

	debug  bool
	silent bool
}

// fixOptions reconciles the requested configuration with the probed source:
// ladder lists are normalized to the same length, rungs wider than the source
// are dropped, and poster/MP4 widths and bitrates get their defaults. After it
// returns, opts is fully resolved and no downstream step re-derives anything.
func fixOptions(opts *runOptions, tech *techInfo) error {
	// no playlist prefix means a single empty one
	if len(opts.hlsPlaylistPrefix) == 0 {
		opts.hlsPlaylistPrefix = []string{""}
	}

	// audio only is like an extra rung of width 0
	if opts.audioOnly || opts.audioSeparate {
		opts.videoWidths = append(opts.videoWidths, 0)
	}

	// extend/truncate all per-rung lists to the length of videoWidths
	length := len(opts.videoWidths)
	opts.videoBitrates = stretchInts(opts.videoBitrates, length)
	opts.videoCodecs = stretchStrings(opts.videoCodecs, length)
	opts.videoProfiles = stretchStrings(opts.videoProfiles, length)
	if len(opts.videoNames) > length {
		opts.videoNames = opts.videoNames[:length]
	}
	if len(opts.videoPresets) > length {
		opts.videoPresets = opts.videoPresets[:length]
	}
	if len(opts.videoPresets) > 0 {
		opts.videoPresets = stretchStrings(opts.videoPresets, length)
	}

	// a rung without video has no video bitrate
	for idx, w := range opts.videoWidths {
		if w == 0 {
			opts.videoBitrates[idx] = 0
		}
	}

	ratio, err := parseRatio(opts.ratio)
	if err != nil {
		return err
	}
	opts.ratioValue = ratio

	// synthesize missing rung names from their resolution
	if diff := length - len(opts.videoNames); diff > 0 {
		more := make([]string, 0, length)
		for idx, w := range opts.videoWidths {
			if opts.videoBitrates[idx] > 0 {
				more = append(more, fmt.Sprintf("%dp", int(float64(w)/ratio)))
			} else {
				more = append(more, "Audio only")
			}
		}
		opts.videoNames = append(opts.videoNames, more[len(more)-diff:]...)
	}

	// apply bitrate factor
	for idx, r := range opts.videoBitrates {
		opts.videoBitrates[idx] = int(float64(r) * opts.videoBitrateFactor)
	}
	if opts.mp4Bitrate != 0 {
		opts.mp4Bitrate = int(float64(opts.mp4Bitrate) * opts.videoBitrateFactor)
	}

	// drop rungs meaningfully larger than the source
	width := tech.video.Width
	height := tech.video.Height
	logger.Warn().Msgf("video is %d x %d", width, height)

	for idx := len(opts.videoWidths) - 1; idx >= 0; idx-- {
		w := float64(opts.videoWidths[idx])
		if w > float64(width)*1.1 && w*float64(height)/float64(width) > float64(height)*1.1 {
			logger.Warn().Msgf("skip %d width", opts.videoWidths[idx])
			opts.videoWidths = cut(opts.videoWidths, idx)
			opts.videoBitrates = cut(opts.videoBitrates, idx)
			opts.videoCodecs = cut(opts.videoCodecs, idx)
			opts.videoProfiles = cut(opts.videoProfiles, idx)
			opts.videoNames = cut(opts.videoNames, idx)
			if idx < len(opts.videoPresets) {
				opts.videoPresets = cut(opts.videoPresets, idx)
			}
		}
	}

	if opts.posterWidth == 0 {
		opts.posterWidth = widestUnder(opts.videoWidths, opts.posterMaxWidth, width)
	}
	if opts.mp4Width == 0 {
		opts.mp4Width = widestUnder(opts.videoWidths, opts.mp4MaxWidth, width)
	}
	if opts.mp4Bitrate == 0 {
		opts.mp4Bitrate = int(float64(bitrateFor(opts, opts.mp4Width)) * opts.mp4BitrateFactor)
	}
	return nil
}

// logResolved emits one debug line per resolved configuration field, so a run
// can be reproduced from its logs.
func (opts *runOptions) logResolved() {
	fields := []struct {
		name  string
		value any
	}{
		{"input", opts.input},
		{"output", opts.output},
		{"output-overwrite", opts.outputOverwrite},
		{"hls-type", opts.hlsType},
		{"hls-time", opts.hlsTime},
		{"hls-segments", opts.hlsSegments},
		{"hls-segment-prefix", opts.hlsSegmentPrefix},
		{"hls-playlist-prefix", opts.hlsPlaylistPrefix},
		{"hls-master-playlist", opts.hlsMasterPlaylist},
		{"hls-add-codecs", opts.hlsAddCodecs},
		{"video-widths", opts.videoWidths},
		{"video-bitrates", opts.videoBitrates},
		{"video-codecs", opts.videoCodecs},
		{"video-profiles", opts.videoProfiles},
		{"video-names", opts.videoNames},
		{"video-presets", opts.videoPresets},
		{"video-overlay", opts.videoOverlay},
		{"video-bitrate-factor", opts.videoBitrateFactor},
		{"audio", opts.audio},
		{"audio-sampling", opts.audioSampling},
		{"audio-bitrate", opts.audioBitrate},
		{"audio-codec", opts.audioCodec},
		{"audio-profile", opts.audioProfile},
		{"audio-only", opts.audioOnly},
		{"audio-separate", opts.audioSeparate},
		{"mp4", opts.mp4},
		{"mp4-width", opts.mp4Width},
		{"mp4-max-width", opts.mp4MaxWidth},
		{"mp4-bitrate", opts.mp4Bitrate},
		{"mp4-bitrate-factor", opts.mp4BitrateFactor},
		{"mp4-codec", opts.mp4Codec},
		{"mp4-profile", opts.mp4Profile},
		{"mp4-overlay", opts.mp4Overlay},
		{"mp4-filename", opts.mp4Filename},
		{"mp4-preset", opts.mp4Preset},
		{"poster", opts.poster},
		{"poster-quality", opts.posterQuality},
		{"poster-grayscale", opts.posterGrayscale},
		{"poster-filename", opts.posterFilename},
		{"poster-seek", opts.posterSeek},
		{"poster-width", opts.posterWidth},
		{"poster-max-width", opts.posterMaxWidth},
		{"ffmpeg", opts.ffmpeg},
		{"ffprobe", opts.ffprobe},
		{"mp4file", opts.mp4file},
		{"ratio", opts.ratio},
		{"debug", opts.debug},
		{"silent", opts.silent},
	}
	for _, f := range fields {
		logger.Debug().Msgf("  %s: %v", f.name, f.value)
	}
}

// path resolves a workspace-relative name against the output directory.
func (opts *runOptions) path(name string) string {
	return filepath.Join(opts.output, name)
}

func parseRatio(s string) (float64, error) {
	w, h, ok := strings.Cut(s, ":")
	if ok {
		wv, err1 := strconv.Atoi(w)
		hv, err2 := strconv.Atoi(h)
		if err1 == nil && err2 == nil && wv > 0 && hv > 0 {
			return float64(wv) / float64(hv), nil
		}
	}
	return 0, fmt.Errorf("invalid ratio %q", s)
}

// stretchInts truncates or extends l to the given length, repeating the last
// value when extending.
func stretchInts(l []int, length int) []int {
	if len(l) > length {
		return l[:length]
	}
	for len(l) < length && len(l) > 0 {
		l = append(l, l[len(l)-1])
	}
	return l
}

func stretchStrings(l []string, length int) []string {
	if len(l) > length {
		return l[:length]
	}
	for len(l) < length && len(l) > 0 {
		l = append(l, l[len(l)-1])
	}
	return l
}

func cut[T any](l []T, idx int) []T {
	return append(l[:idx], l[idx+1:]...)
}

// widestUnder returns the widest ladder rung not exceeding max, or fallback
// when no rung qualifies.
func widestUnder(widths []int, max, fallback int) int {
	best := 0
	for _, w := range widths {
		if w <= max && w > best {
			best = w
		}
	}
	if best == 0 {
		return fallback
	}
	return best
}

// bitrateFor returns the bitrate of the rung with the given width, or the
// first rung's bitrate when no rung matches.
func bitrateFor(opts *runOptions, width int) int {
	for idx, w := range opts.videoWidths {
		if w == width {
			return opts.videoBitrates[idx]
		}
	}
	return opts.videoBitrates[0]
}
