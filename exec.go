package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// lookupExe returns the full path of a bundled ffmpeg-suite binary when one
// exists, and otherwise the bare name so exec performs the usual PATH lookup.
func lookupExe(n string) string {
	if strings.ContainsRune(n, os.PathSeparator) {
		return n
	}
	p := filepath.Join("/pkg/main/media-video.ffmpeg.core/bin", n)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return n
}

// runCmd executes one of the media binaries inside the workspace directory.
// Arguments starting with "# " are comments: they are kept when logging the
// command but stripped before execution. Stdout is returned; on failure the
// full argument list, stdout and stderr are logged once.
func runCmd(opts *runOptions, what string, args ...string) (string, error) {
	cmdline := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.HasPrefix(arg, "# ") {
			cmdline = append(cmdline, arg)
		}
	}

	logger.Debug().Msgf("execute %s %s", what, formatArgs(args))

	c := exec.Command(lookupExe(what), cmdline...)
	c.Dir = opts.output // run in the workspace, relative outputs land there
	c.Stdin = nil

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		logger.Error().Msgf("%s error:\n A: %s\n%s\n%s", what, formatArgs(args),
			prefixLines(" O: ", stdout.String()),
			prefixLines(" E: ", stderr.String()))
		return "", fmt.Errorf("unable to execute %s: %w\nstderr: %s", what, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// formatArgs renders an annotated argument list for logs, one comment per
// line with its arguments under it.
func formatArgs(args []string) string {
	var lines []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "# ") {
			lines = append(lines, "`"+arg+"`")
			continue
		}
		if len(lines) == 0 || strings.HasPrefix(lines[len(lines)-1], "`") {
			lines = append(lines, " "+arg)
		} else {
			lines[len(lines)-1] += " " + arg
		}
	}
	return strings.Join(lines, " \\\n   ")
}

func prefixLines(prefix, s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
