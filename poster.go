package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var posterSeekRe = regexp.MustCompile(`^(?:(\d+)%|(\d+)s)$`)

// posterSeekSeconds resolves a "5%" or "15s" seek specification against the
// source duration.
func posterSeekSeconds(spec string, duration float64) (int, error) {
	mo := posterSeekRe.FindStringSubmatch(spec)
	if mo == nil {
		return 0, fmt.Errorf("invalid value for poster seek: %s", spec)
	}
	if mo[1] != "" {
		percent, _ := strconv.Atoi(mo[1])
		return int(duration * float64(percent) / 100), nil
	}
	seconds, _ := strconv.Atoi(mo[2])
	return seconds, nil
}

// poster extracts a still image from the source: seek to the requested
// position, pick an I-frame, scale it to the poster width and save it as
// JPEG.
func poster(opts *runOptions, tech *techInfo) error {
	if !opts.poster {
		logger.Debug().Msg("skip poster creation")
		return nil
	}
	logger.Debug().Msg("create poster")

	seek, err := posterSeekSeconds(opts.posterSeek, tech.duration)
	if err != nil {
		return err
	}
	logger.Debug().Msgf("seek position for poster is %ds", seek)

	vfilter := []string{`select=eq(pict_type\,I)`}
	resolution := int(float64(opts.posterWidth) / opts.ratioValue)
	size := vsize{w: tech.video.Width, h: tech.video.Height}.
		containedIn(vsize{w: opts.posterWidth, h: resolution})
	vfilter = append(vfilter, size.Scale())
	logger.Info().Msgf("poster is %s", size)
	if opts.posterGrayscale {
		vfilter = append(vfilter, "format=gray")
	}

	// map the 0-100 quality scale to ffmpeg's qscale (1 best, 31 worst)
	quality := opts.posterQuality * 30 / 100
	quality = 30 - quality + 1

	_, err = runCmd(opts, opts.ffmpeg,
		"# only log errors",
		"-loglevel", "error",
		"-hide_banner",
		fmt.Sprintf("# seek to the given position (%s)", opts.posterSeek),
		"-ss", strconv.Itoa(seek),
		"# load input file",
		"-i", opts.input,
		"# only keep first video stream",
		"-map", fmt.Sprintf("0:%d", tech.video.Index),
		"# take only one frame",
		"-frames:v", "1",
		"# filter to select an I-frame and scale",
		"-vf", strings.Join(vfilter, ","),
		fmt.Sprintf("# request a JPEG quality ~ %d", opts.posterQuality),
		"-qscale:v", strconv.Itoa(quality),
		"# output file",
		opts.posterFilename,
	)
	return err
}
