package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXTINF:6.000000,
1080p_0_000.ts
#EXTINF:4.200000,
1080p_0_001.ts
#EXT-X-ENDLIST
`

func TestM3U8Roundtrip(t *testing.T) {
	m := &m3u8{}
	require.NoError(t, m.parse(strings.NewReader(mediaPlaylist)))

	assert.Equal(t, []string{"#EXTM3U", "#EXT-X-VERSION:3", "#EXT-X-TARGETDURATION:6"}, m.headers)
	require.Len(t, m.files, 2)
	assert.Equal(t, "1080p_0_000.ts", m.files[0].filename)
	assert.Equal(t, []string{"#EXTINF:6.000000,"}, m.files[0].headers)
	assert.Equal(t, []string{"#EXT-X-ENDLIST"}, m.footer)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, mediaPlaylist, buf.String())
	assert.Equal(t, int64(buf.Len()), n)
}

func TestM3U8Parse_TruncatedEntry(t *testing.T) {
	m := &m3u8{}
	err := m.parse(strings.NewReader("#EXTM3U\n#EXTINF:6.000000,\n"))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestM3U8Parse_FilenameWithoutEntry(t *testing.T) {
	m := &m3u8{}
	err := m.parse(strings.NewReader("#EXTM3U\nstream.ts\n"))
	assert.Error(t, err)
}
