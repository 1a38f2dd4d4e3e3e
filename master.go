package main

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// writeMaster assembles the master playlist referencing every rendition and
// writes it atomically into the workspace. It returns whether codec string
// extraction had to be abandoned, so the video tag can skip it too.
func writeMaster(opts *runOptions, tech *techInfo, playlists []playlistEntry, fps float64) (noCodecs bool, err error) {
	master := &m3u8{headers: []string{"#EXTM3U"}}

	if opts.audioSeparate {
		// the audio-only rendition doubles as the shared audio group
		master.headers = append(master.headers, "#EXT-X-VERSION:4")
		for _, prefix := range opts.hlsPlaylistPrefix {
			master.headers = append(master.headers, fmt.Sprintf(
				`#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="audio",DEFAULT=yes,AUTOSELECT=yes,URI="%s%s"`,
				prefix, playlists[len(playlists)-1].name))
		}
	} else {
		master.headers = append(master.headers, "#EXT-X-VERSION:3")
	}

	for idx, pl := range playlists {
		if !opts.audioOnly && opts.videoBitrates[idx] == 0 {
			// we didn't ask for an audio only track but we have one, skip it
			continue
		}
		var codecs string
		if !noCodecs && opts.hlsAddCodecs {
			codecs, err = extractCodecs(opts, fmt.Sprintf("_%d.mp4", idx))
			if err != nil {
				logger.Warn().Msgf("cannot extract codec due to mp4file missing: %s", err)
				noCodecs = true
				codecs = ""
			}
		}
		bandwidth := opts.videoBitrates[idx]
		if tech.firstAudio() != nil {
			bandwidth += opts.audioBitrate
		}
		for _, prefix := range opts.hlsPlaylistPrefix {
			inf := fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d000,", bandwidth)
			if opts.videoBitrates[idx] > 0 {
				inf += fmt.Sprintf("RESOLUTION=%s,FRAME-RATE=%.3f,", pl.resolution, fps)
			}
			if codecs != "" {
				inf += fmt.Sprintf("CODECS=%q,", codecs)
			}
			if opts.audioSeparate {
				inf += `AUDIO="audio",`
			}
			inf += fmt.Sprintf("NAME=%q", opts.videoNames[idx])
			master.files = append(master.files, &m3u8file{
				headers:  []string{inf},
				filename: prefix + pl.name,
			})
		}
	}

	f, err := renameio.NewPendingFile(opts.path(opts.hlsMasterPlaylist))
	if err != nil {
		return noCodecs, fmt.Errorf("create master playlist: %w", err)
	}
	defer f.Cleanup()
	if _, err := master.WriteTo(f); err != nil {
		return noCodecs, fmt.Errorf("write master playlist: %w", err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return noCodecs, fmt.Errorf("write master playlist: %w", err)
	}
	return noCodecs, nil
}

// writeVideoTag writes a ready-to-paste HTML video element referencing the
// master playlist, the progressive MP4 fallback and the poster.
func writeVideoTag(opts *runOptions, noCodecs bool) error {
	var codecs string
	if !noCodecs && opts.hlsAddCodecs && opts.mp4 {
		// best effort only
		if c, err := extractCodecs(opts, opts.mp4Filename); err == nil {
			codecs = fmt.Sprintf("; codecs=%q", c)
		}
	}

	vt := "<video"
	if opts.poster {
		vt += fmt.Sprintf(" poster=%q", opts.posterFilename)
	}
	vt += " controls>\n"
	vt += fmt.Sprintf("    <source src=%q type=\"application/vnd.apple.mpegurl\">\n", opts.hlsMasterPlaylist)
	if opts.mp4 {
		// the codecs parameter carries double quotes, keep single quotes here
		vt += fmt.Sprintf("    <source src=%q type='video/mp4%s'>\n", opts.mp4Filename, codecs)
	}
	vt += "</video>\n"

	if err := renameio.WriteFile(opts.path("video-tag.html"), []byte(vt), 0o644); err != nil {
		return fmt.Errorf("write video tag: %w", err)
	}
	return nil
}
