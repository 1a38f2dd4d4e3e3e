package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extracting RFC 6381 codec strings from an MP4 sample is quite involved, so
// we lean on mp4file's atom dump. This is not complete as all codecs are a
// bit different; see RFC 6381 section 3.3.

var (
	codecTypeRe = regexp.MustCompile(`: type (\S+) \(moov\.trak\.mdia\.minf\.stbl\.stsd\.(\S+)\)`)
	attributeRe = regexp.MustCompile(`: (\S+) = (\d+)`)
	infoByteRe  = regexp.MustCompile(`: info = <\d+ bytes>\s+([0-9a-fA-F]{2}) `)
)

// extractCodecs runs mp4file on the given workspace sample and derives the
// codec strings of the streams it contains.
func extractCodecs(opts *runOptions, sample string) (string, error) {
	out, err := runCmd(opts, opts.mp4file, "--dump", sample)
	if err != nil {
		return "", err
	}
	return parseCodecs(out)
}

// parseCodecs reads an `mp4file --dump` atom listing. The codecs are the
// entries under /moov/trak/mdia/minf/stbl/stsd.
func parseCodecs(dump string) (string, error) {
	lines := strings.Split(dump, "\n")

	found := map[string]bool{}
	for _, ln := range lines {
		if mo := codecTypeRe.FindStringSubmatch(ln); mo != nil && mo[1] == mo[2] {
			found[mo[1]] = true
		}
	}

	var results []string
	if found["avc1"] {
		codec, err := parseAVC1(lines)
		if err != nil {
			return "", err
		}
		results = append(results, codec)
	}
	if found["mp4a"] {
		codec, err := parseMP4A(lines)
		if err != nil {
			return "", err
		}
		results = append(results, codec)
	}
	return strings.Join(results, ","), nil
}

// parseAVC1 derives "avc1.PPCCLL" from the avcC atom: profile indication,
// profile compatibility (constraints) and level indication.
func parseAVC1(lines []string) (string, error) {
	for idx, ln := range lines {
		if !strings.Contains(ln, "(moov.trak.mdia.minf.stbl.stsd.avc1.avcC)") {
			continue
		}
		indent := strings.Repeat(" ", countIndent(ln)+1)
		profile, constraints, level := -1, -1, -1
		for _, sub := range lines[idx+1:] {
			if !strings.HasPrefix(sub, indent) {
				break
			}
			mo := attributeRe.FindStringSubmatch(sub)
			if mo == nil {
				continue
			}
			v, _ := strconv.Atoi(mo[2])
			switch mo[1] {
			case "AVCProfileIndication":
				profile = v
			case "profile_compatibility":
				constraints = v
			case "AVCLevelIndication":
				level = v
			}
		}
		if profile >= 0 && constraints >= 0 && level >= 0 {
			codec := fmt.Sprintf("avc1.%02x%02x%02x", profile, constraints, level)
			logger.Debug().Msgf("found codec %s", codec)
			return codec, nil
		}
	}
	return "", errors.New("unable to decode AVC1 codec")
}

// parseMP4A derives "mp4a.OO.T" from the esds atom: object type id plus the
// audio object type carried in the first byte of the decoder specific info.
func parseMP4A(lines []string) (string, error) {
	for idx, ln := range lines {
		if !strings.Contains(ln, "(moov.trak.mdia.minf.stbl.stsd.mp4a.esds)") {
			continue
		}
		indent := strings.Repeat(" ", countIndent(ln)+1)
		oti, osti := -1, -1
		pending := false
		for _, sub := range lines[idx+1:] {
			if !strings.HasPrefix(sub, indent) {
				break
			}
			if mo := attributeRe.FindStringSubmatch(sub); mo != nil && mo[1] == "objectTypeId" {
				oti, _ = strconv.Atoi(mo[2])
				continue
			}
			if strings.Contains(sub, "decSpecificInfo") {
				pending = true // the object type is in the next info line
				continue
			}
			if pending {
				mo := infoByteRe.FindStringSubmatch(sub)
				if mo == nil {
					return "", errors.New("cannot decode specific info")
				}
				b, _ := strconv.ParseUint(mo[1], 16, 8)
				osti = int(b&0xf8) >> 3
				pending = false
			}
		}
		if oti >= 0 && osti >= 0 {
			codec := fmt.Sprintf("mp4a.%02x.%d", oti, osti)
			logger.Debug().Msgf("found codec %s", codec)
			return codec, nil
		}
	}
	return "", errors.New("unable to decode MP4A codec")
}

func countIndent(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}
