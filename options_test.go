package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *runOptions {
	opts, err := parseFlags([]string{"/videos/input.mp4"})
	if err != nil {
		panic(err)
	}
	return opts
}

func testTech(w, h int) *techInfo {
	return &techInfo{
		video: &probeStream{CodecType: "video", Width: w, Height: h, RFrameRate: "25/1"},
		audio: []*probeStream{
			{CodecType: "audio", Index: 1, Channels: 2, SampleRate: 44100},
		},
		duration: 120,
	}
}

func TestFixOptions_DropsOversizedRungs(t *testing.T) {
	opts := testOptions()
	require.NoError(t, fixOptions(opts, testTech(1280, 720)))

	assert.Equal(t, []int{1280, 854, 640, 428}, opts.videoWidths)
	assert.Equal(t, []int{2500, 1300, 800, 400}, opts.videoBitrates)
	assert.Equal(t, []string{"720p", "480p", "360p", "240p"}, opts.videoNames)
	assert.Len(t, opts.videoCodecs, 4)
	assert.Len(t, opts.videoProfiles, 4)
}

func TestFixOptions_KeepsFullLadderFor4K(t *testing.T) {
	opts := testOptions()
	require.NoError(t, fixOptions(opts, testTech(3840, 2160)))

	assert.Equal(t, []int{3840, 2560, 1920, 1280, 854, 640, 428}, opts.videoWidths)
	// profiles are extended by repeating the last value
	assert.Equal(t, []string{"high@5.1", "high@5.1", "main@3.2", "main@3.1",
		"main@3.1", "main@3.1", "main@3.1"}, opts.videoProfiles)
}

func TestFixOptions_AudioOnlyAppendsSilentRung(t *testing.T) {
	opts := testOptions()
	opts.audioOnly = true
	require.NoError(t, fixOptions(opts, testTech(1920, 1080)))

	last := len(opts.videoWidths) - 1
	assert.Equal(t, 0, opts.videoWidths[last])
	assert.Equal(t, 0, opts.videoBitrates[last])
	assert.Equal(t, "Audio only", opts.videoNames[last])
}

func TestFixOptions_BitrateFactor(t *testing.T) {
	opts := testOptions()
	opts.videoBitrateFactor = 0.5
	require.NoError(t, fixOptions(opts, testTech(1280, 720)))

	assert.Equal(t, []int{1250, 650, 400, 200}, opts.videoBitrates)
	// MP4 bitrate derives from the scaled ladder
	assert.Equal(t, 1000, opts.mp4Bitrate)
}

func TestFixOptions_PosterAndMP4Defaults(t *testing.T) {
	opts := testOptions()
	require.NoError(t, fixOptions(opts, testTech(3840, 2160)))

	assert.Equal(t, 1280, opts.posterWidth)
	assert.Equal(t, 1280, opts.mp4Width)
	assert.Equal(t, 2000, opts.mp4Bitrate) // 2500 kbps rung * 0.8
}

func TestFixOptions_PosterFallsBackToSourceWidth(t *testing.T) {
	opts := testOptions()
	opts.videoWidths = []int{3840}
	opts.videoBitrates = []int{14000}
	require.NoError(t, fixOptions(opts, testTech(3840, 2160)))

	// no rung fits under the poster max width
	assert.Equal(t, 3840, opts.posterWidth)
}

func TestFixOptions_ExplicitValuesKept(t *testing.T) {
	opts := testOptions()
	opts.posterWidth = 640
	opts.mp4Width = 854
	opts.mp4Bitrate = 1000
	require.NoError(t, fixOptions(opts, testTech(1920, 1080)))

	assert.Equal(t, 640, opts.posterWidth)
	assert.Equal(t, 854, opts.mp4Width)
	assert.Equal(t, 1000, opts.mp4Bitrate)
}

func TestFixOptions_EmptyPlaylistPrefix(t *testing.T) {
	opts := testOptions()
	require.NoError(t, fixOptions(opts, testTech(1920, 1080)))
	assert.Equal(t, []string{""}, opts.hlsPlaylistPrefix)

	opts = testOptions()
	opts.hlsPlaylistPrefix = []string{"https://cdn.example.com/"}
	require.NoError(t, fixOptions(opts, testTech(1920, 1080)))
	assert.Equal(t, []string{"https://cdn.example.com/"}, opts.hlsPlaylistPrefix)
}

func TestFixOptions_InvalidRatio(t *testing.T) {
	opts := testOptions()
	opts.ratio = "sixteen-nine"
	assert.Error(t, fixOptions(opts, testTech(1920, 1080)))
}

func TestParseRatio(t *testing.T) {
	v, err := parseRatio("16:9")
	require.NoError(t, err)
	assert.InDelta(t, 1.7778, v, 0.001)

	_, err = parseRatio("16/9")
	assert.Error(t, err)
	_, err = parseRatio("16:0")
	assert.Error(t, err)
	_, err = parseRatio("0:9")
	assert.Error(t, err)
	_, err = parseRatio("-16:9")
	assert.Error(t, err)
}
