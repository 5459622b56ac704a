/*
Package jasc implements the JASC-PAL plain-text palette format.

The file is a three line header; a fixed "JASC-PAL" literal, a fixed "0100"
version literal and a color count, followed by one "R G B" line per color.
Lines are CRLF terminated on write.
*/
package jasc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bodgit/nitro/graphic"
)

const (
	// Extension is the conventional file extension.
	Extension = "pal"

	header  = "JASC-PAL"
	version = "0100"
)

var (
	errHeader    = errors.New("jasc: missing JASC-PAL header")
	errVersion   = errors.New("jasc: unsupported version")
	errTrailing  = errors.New("jasc: trailing data after colors")
	errTruncated = errors.New("jasc: unexpected end of palette")
)

// Decode reads a JASC-PAL palette from r.
func Decode(r io.Reader) (graphic.Palette, error) {
	s := bufio.NewScanner(r)

	line, err := nextLine(s)
	if err != nil {
		return nil, err
	}
	if line != header {
		return nil, errHeader
	}

	if line, err = nextLine(s); err != nil {
		return nil, err
	}
	if line != version {
		return nil, errVersion
	}

	if line, err = nextLine(s); err != nil {
		return nil, err
	}
	numColors, err := strconv.Atoi(line)
	if err != nil || numColors < 0 {
		return nil, fmt.Errorf("jasc: bad color count %q", line)
	}

	palette := make(graphic.Palette, 0, numColors)
	for i := 0; i < numColors; i++ {
		if line, err = nextLine(s); err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("jasc: bad color line %q", line)
		}
		var channels [3]uint8
		for j, field := range fields {
			v, err := strconv.ParseUint(field, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("jasc: bad color line %q", line)
			}
			channels[j] = uint8(v)
		}
		palette = append(palette, graphic.Color{
			Red:   channels[0],
			Green: channels[1],
			Blue:  channels[2],
		})
	}

	if s.Scan() {
		return nil, errTrailing
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return palette, nil
}

func nextLine(s *bufio.Scanner) (string, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", errTruncated
	}
	return s.Text(), nil
}

// Encode writes the palette to w in JASC-PAL format with CRLF line endings.
func Encode(w io.Writer, palette graphic.Palette) error {
	lines := make([]string, 0, len(palette)+4)
	lines = append(lines, header, version, strconv.Itoa(len(palette)))
	for _, c := range palette {
		lines = append(lines, fmt.Sprintf("%d %d %d", c.Red, c.Green, c.Blue))
	}
	lines = append(lines, "")

	_, err := io.WriteString(w, strings.Join(lines, "\r\n"))
	return err
}
