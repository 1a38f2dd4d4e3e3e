// Command video2hls converts a video into a set of files to play it using
// HLS. The video is converted to different resolutions using different
// bitrates, and a master playlist is generated to be processed by an HLS
// client. A progressive MP4 version is also produced as a fallback, as well
// as a poster image.
package main

import (
	"fmt"
	"os"
)

// pipeline holds the collaborators the orchestrator sequences. They are
// function fields so tests can substitute fakes for the media steps.
type pipeline struct {
	probe      func(*runOptions) (*techInfo, error)
	fixOptions func(*runOptions, *techInfo) error
	poster     func(*runOptions, *techInfo) error
	transcode  func(*runOptions, *techInfo) error
}

func defaultPipeline() *pipeline {
	return &pipeline{
		probe:      probe,
		fixOptions: fixOptions,
		poster:     poster,
		transcode:  transcode,
	}
}

// run drives a whole conversion: establish the workspace, probe the source,
// gate on its stream composition, normalize the options, generate the poster
// and the renditions, then sweep transient files. Any failure aborts the
// remaining steps and propagates unchanged to main.
func (p *pipeline) run(opts *runOptions) error {
	if err := prepareWorkspace(opts); err != nil {
		return err
	}

	tech, err := p.probe(opts)
	if err != nil {
		return err
	}
	if err := checkTechnical(opts, tech); err != nil {
		return err
	}

	if err := p.fixOptions(opts, tech); err != nil {
		return err
	}
	opts.logResolved()

	if err := p.poster(opts, tech); err != nil {
		return fmt.Errorf("poster generation failed: %w", err)
	}
	if err := p.transcode(opts, tech); err != nil {
		return fmt.Errorf("transcoding failed: %w", err)
	}

	// transient files are only removed on success, failed runs keep them
	// around for debugging
	return sweep(opts.output)
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "video2hls: %v\n", err)
		os.Exit(1)
	}
	setupLogging(opts.debug, opts.silent)

	if err := defaultPipeline().run(opts); err != nil {
		logger.Error().Err(err).Msgf("%s", err)
		os.Exit(1)
	}
}
