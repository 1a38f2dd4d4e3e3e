package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KarpelesLab/runutil"
)

var (
	// errNoVideoTrack is returned when the source has no video stream; no
	// output variant can be produced from it.
	errNoVideoTrack = errors.New("no video track")

	// errNoAudioTrack is returned when a requested variant needs an audio
	// track but the source has none.
	errNoAudioTrack = errors.New("no audio track")
)

type probeInfo struct {
	Streams []*probeStream `json:"streams"`
	Format  *probeFormat   `json:"format"`
}

func (info *probeInfo) video() *probeStream {
	for _, s := range info.Streams {
		if s.CodecType == "video" {
			return s
		}
	}
	return nil
}

func (info *probeInfo) audios() []*probeStream {
	var res []*probeStream
	for _, s := range info.Streams {
		if s.CodecType == "audio" {
			res = append(res, s)
		}
	}
	return res
}

type probeStream struct {
	Index      int     `json:"index"`
	CodecName  string  `json:"codec_name"`
	CodecType  string  `json:"codec_type"` // video, audio, subtitle
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Duration   float64 `json:"duration,string,omitempty"`
	RFrameRate string  `json:"r_frame_rate"` // eg "30000/1001"
	Channels   int     `json:"channels,omitempty"`
	SampleRate int     `json:"sample_rate,string,omitempty"`

	Tags map[string]string `json:"tags"`
}

// fps returns the stream frame rate as a float, or an error when the
// "num/den" fraction reported by ffprobe cannot be parsed.
func (s *probeStream) fps() (float64, error) {
	num, den, ok := strings.Cut(s.RFrameRate, "/")
	if !ok {
		return 0, fmt.Errorf("invalid frame rate %q", s.RFrameRate)
	}
	n, err1 := strconv.Atoi(num)
	d, err2 := strconv.Atoi(den)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q", s.RFrameRate)
	}
	return float64(n) / float64(d), nil
}

type probeFormat struct {
	Filename string            `json:"filename"`
	Duration float64           `json:"duration,string"`
	Size     int64             `json:"size,string"`
	BitRate  int               `json:"bit_rate,string"`
	Tags     map[string]string `json:"tags"`
}

// techInfo is the immutable snapshot of the source media, produced once per
// run and shared read-only by every downstream step. Only the first video
// stream and the first audio streams are considered; they may not be the
// "best" streams ffmpeg would select.
type techInfo struct {
	video    *probeStream
	audio    []*probeStream
	duration float64
}

// firstAudio returns the audio track used for encoding, or nil.
func (tech *techInfo) firstAudio() *probeStream {
	if len(tech.audio) == 0 {
		return nil
	}
	return tech.audio[0]
}

// probe inspects the input file with ffprobe and extracts the technical
// snapshot the rest of the run depends on.
func probe(opts *runOptions) (*techInfo, error) {
	logger.Info().Msgf("probe %s", opts.input)

	var info *probeInfo
	err := runutil.RunJson(&info, lookupExe(opts.ffprobe),
		"-v", "quiet",
		"-print_format", "json",
		"-show_entries", "format=duration:streams",
		opts.path(opts.input))
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	tech := &techInfo{video: info.video()}
	if opts.audio {
		tech.audio = info.audios()
	}
	if tech.video != nil {
		tech.duration = tech.video.Duration
	}
	if tech.duration == 0 && info.Format != nil {
		tech.duration = info.Format.Duration
	}
	return tech, nil
}

// checkTechnical gates the run on the probed stream composition. All checks
// run before any downstream step consumes the snapshot.
func checkTechnical(opts *runOptions, tech *techInfo) error {
	if tech.video == nil {
		return errNoVideoTrack
	}
	if len(tech.audio) == 0 && opts.audioOnly {
		return fmt.Errorf("%w: audio-only variant requested", errNoAudioTrack)
	}
	if len(tech.audio) == 0 && opts.audioSeparate {
		return fmt.Errorf("%w: separate audio track requested", errNoAudioTrack)
	}
	return nil
}
