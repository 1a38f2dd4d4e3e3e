package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// m3u8 is a minimal model of an HLS playlist: global header lines, a list of
// referenced files each with their own header lines, and footer lines.
type m3u8 struct {
	headers []string
	files   []*m3u8file
	footer  []string
}

type m3u8file struct {
	headers  []string
	filename string
}

func m3u8Parse(fn string) (*m3u8, error) {
	logger.Debug().Msgf("m3u8: parsing %s", fn)

	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &m3u8{}
	return res, res.parse(f)
}

func (m *m3u8) parse(in io.Reader) error {
	r := bufio.NewReader(in)
	var f *m3u8file

	for {
		ln, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return err
			}
			if strings.TrimSpace(ln) != "" || f != nil {
				return io.ErrUnexpectedEOF
			}
			return nil
		}
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}

		switch {
		case strings.HasPrefix(ln, "#EXT-X-STREAM-INF:") || strings.HasPrefix(ln, "#EXTINF:"):
			// a file entry starts here
			if f != nil {
				return fmt.Errorf("unexpected %s", ln)
			}
			f = &m3u8file{headers: []string{ln}}
		case ln == "#EXT-X-ENDLIST":
			m.footer = append(m.footer, ln)
		case ln[0] != '#':
			// filename closing the current entry
			if f == nil {
				return fmt.Errorf("unexpected %s", ln)
			}
			f.filename = ln
			m.files = append(m.files, f)
			f = nil
		case f != nil:
			f.headers = append(f.headers, ln)
		default:
			if len(m.files) != 0 {
				return fmt.Errorf("unexpected %s", ln)
			}
			m.headers = append(m.headers, ln)
		}
	}
}

func (m *m3u8) WriteTo(w io.Writer) (n int64, err error) {
	var n2 int
	var n3 int64
	for _, h := range m.headers {
		n2, err = w.Write([]byte(h + "\n"))
		n += int64(n2)
		if err != nil {
			return
		}
	}
	for _, f := range m.files {
		n3, err = f.WriteTo(w)
		n += n3
		if err != nil {
			return
		}
	}
	for _, ln := range m.footer {
		n2, err = w.Write([]byte(ln + "\n"))
		n += int64(n2)
		if err != nil {
			return
		}
	}
	return
}

func (f *m3u8file) WriteTo(w io.Writer) (n int64, err error) {
	var n2 int
	for _, h := range f.headers {
		n2, err = w.Write([]byte(h + "\n"))
		n += int64(n2)
		if err != nil {
			return
		}
	}
	n2, err = w.Write([]byte(f.filename + "\n"))
	n += int64(n2)
	return
}
