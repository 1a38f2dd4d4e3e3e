package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// abridged mp4file --dump atom listing for an h264+aac sample
const dumpSample = ` mp4a: type stsd (moov.trak.mdia.minf.stbl.stsd)
 stsd: type avc1 (moov.trak.mdia.minf.stbl.stsd.avc1)
  avc1: type avcC (moov.trak.mdia.minf.stbl.stsd.avc1.avcC)
   avcC: configurationVersion = 1 (0x01)
   avcC: AVCProfileIndication = 100 (0x64)
   avcC: profile_compatibility = 0 (0x00)
   avcC: AVCLevelIndication = 30 (0x1e)
   avcC: lengthSizeMinusOne = 3 (0x03)
 stsd: type mp4a (moov.trak.mdia.minf.stbl.stsd.mp4a)
  mp4a: type esds (moov.trak.mdia.minf.stbl.stsd.mp4a.esds)
   esds: version = 0 (0x00)
   esds: objectTypeId = 64 (0x40)
   esds: streamType = 5 (0x05)
   esds: decSpecificInfo
    esds: info = <2 bytes>  12 10  |..|
`

func TestParseCodecs(t *testing.T) {
	codecs, err := parseCodecs(dumpSample)
	require.NoError(t, err)
	assert.Equal(t, "avc1.64001e,mp4a.40.2", codecs)
}

func TestParseCodecs_NoKnownCodec(t *testing.T) {
	codecs, err := parseCodecs(" stsd: type hvc1 (moov.trak.mdia.minf.stbl.stsd.hvc1)\n")
	require.NoError(t, err)
	assert.Empty(t, codecs)
}

func TestParseCodecs_TruncatedAVC1(t *testing.T) {
	dump := ` stsd: type avc1 (moov.trak.mdia.minf.stbl.stsd.avc1)
  avc1: type avcC (moov.trak.mdia.minf.stbl.stsd.avc1.avcC)
   avcC: AVCProfileIndication = 100 (0x64)
`
	_, err := parseCodecs(dump)
	assert.Error(t, err)
}

func TestParseCodecs_BrokenSpecificInfo(t *testing.T) {
	dump := ` stsd: type mp4a (moov.trak.mdia.minf.stbl.stsd.mp4a)
  mp4a: type esds (moov.trak.mdia.minf.stbl.stsd.mp4a.esds)
   esds: objectTypeId = 64 (0x40)
   esds: decSpecificInfo
   esds: somethingElse = 1 (0x01)
`
	_, err := parseCodecs(dump)
	assert.Error(t, err)
}
