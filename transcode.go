package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// rungVars holds the substitution variables available in segment name
// patterns and overlay texts for one ladder rung.
type rungVars struct {
	width      int
	resolution int
	bitrate    int
	codec      string
	name       string
	profile    string
}

// expand replaces the {variable} placeholders in a pattern. index is only
// meaningful for segment name patterns.
func (r rungVars) expand(pattern, index string) string {
	return strings.NewReplacer(
		"{width}", strconv.Itoa(r.width),
		"{resolution}", strconv.Itoa(r.resolution),
		"{bitrate}", strconv.Itoa(r.bitrate),
		"{codec}", r.codec,
		"{name}", r.name,
		"{profile}", r.profile,
		"{index}", index,
	).Replace(pattern)
}

// playlistEntry records, for one rung, the media playlist name and encoded
// resolution needed later for the master playlist.
type playlistEntry struct {
	name       string
	resolution string
}

const overlayFilter = "drawtext=x=10: y=10: textfile=%s: fontsize=48: " +
	"fontcolor=white@0.5: borderw=3: bordercolor=black@0.5"

func splitProfile(p string) (name, level string, err error) {
	name, level, ok := strings.Cut(p, "@")
	if !ok {
		return "", "", fmt.Errorf("invalid profile %q, expected name@level", p)
	}
	return name, level, nil
}

// transcode produces every rendition in a single ffmpeg invocation: the
// optional progressive MP4, one HLS media playlist per ladder rung, and the
// one-frame MP4 samples used to compute codec strings. It then assembles the
// master playlist and the video-tag snippet.
func transcode(opts *runOptions, tech *techInfo) error {
	logger.Debug().Msg("create transcoded files")
	video := tech.video
	audio := tech.firstAudio()

	width, height := video.Width, video.Height
	fps, err := video.fps()
	if err != nil {
		return err
	}
	// an I-frame must start each segment
	keyf := int(math.Ceil(fps * float64(opts.hlsTime)))
	logger.Info().Msgf("input video is %dx%d at %.2ffps", width, height, fps)
	if audio != nil {
		logger.Info().Msgf("input audio is %d channels at %dHz", audio.Channels, audio.SampleRate)
	}

	args := []string{"# input video", "-i", opts.input}

	var aargs []string
	if audio != nil {
		aargs = append(aargs,
			"# keep the first audio track",
			"-map", fmt.Sprintf("0:%d", audio.Index),
			"# select audio codec",
			"-c:a", opts.audioCodec,
		)
		if opts.audioSampling != 0 {
			aargs = append(aargs, "# set specified sampling rate",
				"-ar", strconv.Itoa(opts.audioSampling))
		} else {
			aargs = append(aargs, "# copy original sampling rate",
				"-ar", strconv.Itoa(audio.SampleRate))
		}
		aargs = append(aargs,
			"# select audio profile",
			"-profile:a", opts.audioProfile,
			"# set audio bitrate",
			"-b:a", fmt.Sprintf("%dk", opts.audioBitrate),
		)
	}

	// progressive MP4
	if opts.mp4 {
		mp4args, err := mp4Args(opts, tech, aargs)
		if err != nil {
			return err
		}
		args = append(args, mp4args...)
	}

	// HLS renditions
	playlists := make([]playlistEntry, len(opts.videoWidths))
	for idx := range opts.videoWidths {
		logger.Debug().Msgf("setup HLS for %s", opts.videoNames[idx])
		resolution := int(float64(opts.videoWidths[idx]) / opts.ratioValue)
		rv := rungVars{
			width:      opts.videoWidths[idx],
			resolution: resolution,
			bitrate:    opts.videoBitrates[idx],
			codec:      opts.videoCodecs[idx],
			name:       opts.videoNames[idx],
			profile:    opts.videoProfiles[idx],
		}
		size := vsize{w: width, h: height}.
			containedIn(vsize{w: opts.videoWidths[idx], h: resolution})

		vfilters := []string{size.Scale(), "format=yuv420p"}
		cfilter := "apply filters: scale"
		if opts.videoOverlay != "" {
			overlay := fmt.Sprintf("_%d.txt", idx)
			if err := os.WriteFile(opts.path(overlay), []byte(rv.expand(opts.videoOverlay, "")), 0o644); err != nil {
				return fmt.Errorf("write overlay text: %w", err)
			}
			vfilters = append([]string{fmt.Sprintf(overlayFilter, overlay)}, vfilters...)
			cfilter = "apply filters: add overlay and scale"
		}

		var vargs []string
		if opts.videoBitrates[idx] > 0 {
			profile, level, err := splitProfile(opts.videoProfiles[idx])
			if err != nil {
				return err
			}
			br := opts.videoBitrates[idx]
			vargs = append(vargs,
				"# keep the first video track",
				"-map", fmt.Sprintf("0:%d", video.Index),
				"# "+cfilter,
				"-vf", strings.Join(vfilters, ","),
				"# select video codec",
				"-c:v", opts.videoCodecs[idx],
				"# select video profile and level",
				"-profile:v", profile,
				"-level:v", level,
				"# set maximum video bitrate",
				"-b:v", fmt.Sprintf("%dk", br),
				"-maxrate:v", fmt.Sprintf("%dk", br),
				"-bufsize:v", fmt.Sprintf("%dk", br*3/2),
			)
			if len(opts.videoPresets) > 0 {
				vargs = append(vargs, "# set the video preset",
					"-preset", opts.videoPresets[idx])
			}
		} else {
			vargs = append(vargs, "# no video")
		}

		args = append(args,
			fmt.Sprintf("# start producing HLS segments for %dp (%d)", resolution, idx),
			"-f", "hls")
		args = append(args, vargs...)
		if !opts.audioSeparate || opts.videoBitrates[idx] == 0 {
			args = append(args, aargs...)
		}
		segmentExt := "ts"
		segmentComment := "# use MPEG2-TS (compatible with any iOS)"
		if opts.hlsType == "fmp4" {
			segmentExt = "mp4"
			segmentComment = "# use fMP4 (iOS > 10)"
		}
		args = append(args,
			"# duration of an HLS segment",
			"-hls_time", strconv.Itoa(opts.hlsTime),
			"# this is fairly important:",
			fmt.Sprintf("# set I-frame at the beginning of each segment (fps=%.3f)", fps),
			"-g", strconv.Itoa(keyf),
			"-keyint_min", strconv.Itoa(keyf),
			"# set HLS playlist type",
			"-hls_playlist_type", "vod",
			"# do not limit playlist size",
			"-hls_list_size", "0",
			segmentComment,
			"-hls_segment_type", opts.hlsType,
			"# append a base URL to each segment name",
			"-hls_base_url", opts.hlsSegmentPrefix,
			"# set pattern for segment filenames",
			"-hls_segment_filename",
			rv.expand(opts.hlsSegments, fmt.Sprintf("%d_%%03d", idx))+"."+segmentExt,
		)
		if opts.hlsType == "fmp4" {
			args = append(args,
				"# filename for initial fMP4 segment",
				"-hls_fmp4_init_filename",
				rv.expand(opts.hlsSegments, fmt.Sprintf("%d_init", idx))+".mp4",
			)
		}
		playlistName := rv.expand(opts.hlsSegments, strconv.Itoa(idx)) + ".m3u8"
		args = append(args, playlistName)
		playlists[idx] = playlistEntry{name: playlistName, resolution: size.String()}

		// small MP4 used later to extract the codec string
		if opts.hlsAddCodecs {
			args = append(args,
				"# also generate a small MP4 to extract codec later",
				"-f", "mp4",
				"# use same encoding arguments as the normal video:")
			args = append(args, vargs...)
			args = append(args, aargs...)
			args = append(args,
				"# but keep only one frame",
				"-frames:v", "1",
				"# put the result into a temporary file",
				fmt.Sprintf("_%d.mp4", idx),
			)
		}
	}

	logger.Info().Msg("start transcoding")
	ffargs := append([]string{
		"# only log errors",
		"-loglevel", "error",
		"-hide_banner",
	}, args...)
	if _, err := runCmd(opts, opts.ffmpeg, ffargs...); err != nil {
		return err
	}

	logger.Info().Msg("write master playlist")
	noCodecs, err := writeMaster(opts, tech, playlists, fps)
	if err != nil {
		return err
	}
	return writeVideoTag(opts, noCodecs)
}

// mp4Args assembles the progressive MP4 part of the ffmpeg command line.
func mp4Args(opts *runOptions, tech *techInfo, aargs []string) ([]string, error) {
	resolution := int(float64(opts.mp4Width) / opts.ratioValue)
	size := vsize{w: tech.video.Width, h: tech.video.Height}.
		containedIn(vsize{w: opts.mp4Width, h: resolution})
	logger.Info().Msgf("progressive MP4 is %s at %dkbps", size, opts.mp4Bitrate)

	vfilters := []string{size.Scale(), "format=yuv420p"}
	cfilter := "apply filters: scale"
	if opts.mp4Overlay != "" {
		rv := rungVars{
			width:      opts.mp4Width,
			resolution: resolution,
			bitrate:    opts.mp4Bitrate,
			codec:      opts.mp4Codec,
			profile:    opts.mp4Profile,
		}
		if err := os.WriteFile(opts.path("_mp4.txt"), []byte(rv.expand(opts.mp4Overlay, "")), 0o644); err != nil {
			return nil, fmt.Errorf("write overlay text: %w", err)
		}
		vfilters = append([]string{fmt.Sprintf(overlayFilter, "_mp4.txt")}, vfilters...)
		cfilter = "apply filters: add overlay and scale"
	}

	profile, level, err := splitProfile(opts.mp4Profile)
	if err != nil {
		return nil, err
	}

	args := []string{
		"# start producing a progressive MP4",
		"-f", "mp4",
		"# keep the first video track",
		"-map", fmt.Sprintf("0:%d", tech.video.Index),
		"# " + cfilter,
		"-vf", strings.Join(vfilters, ","),
		"# select video codec",
		"-c:v", opts.mp4Codec,
		"# select video profile and level",
		"-profile:v", profile,
		"-level:v", level,
		"# set maximum video bitrate",
		"-b:v", fmt.Sprintf("%dk", opts.mp4Bitrate),
		"-maxrate:v", fmt.Sprintf("%dk", opts.mp4Bitrate),
		"-bufsize:v", fmt.Sprintf("%dk", opts.mp4Bitrate*3/2),
	}
	if opts.mp4Preset != "" {
		args = append(args, "# set the video preset", "-preset", opts.mp4Preset)
	}
	args = append(args, aargs...)
	args = append(args,
		"# move index at the beginning",
		"-movflags", "+faststart",
		"# output filename",
		opts.mp4Filename,
	)
	return args, nil
}
