package ocr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// pdfContentText reads each page's content stream with pdfcpu and rebuilds its
// text lines from the text-showing operators.
func (e *Extractor) pdfContentText(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	n := ctx.PageCount
	if e.cfg.MaxPages > 0 && n > e.cfg.MaxPages {
		n = e.cfg.MaxPages
	}
	pages := make([]string, 0, n)
	for pageNr := 1; pageNr <= n; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			e.logger.Debug("page has no readable content", "page", pageNr, "error", err)
			pages = append(pages, "")
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", pageNr, err)
		}
		pages = append(pages, strings.ToValidUTF8(contentStreamText(data), "\uFFFD"))
	}
	if !hasText(pages) {
		return nil, fmt.Errorf("no text content found in PDF")
	}
	return pages, nil
}

var (
	// (text) literals; escaped parentheses are allowed inside
	rePDFString = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	reTd        = regexp.MustCompile(`(-?[0-9.]+)\s+(-?[0-9.]+)\s+T[dD]$`)
)

// contentStreamText turns the text operators of one content stream into lines.
// Tj/TJ append to the current line; T*, ' and a vertical Td/TD start a new one.
func contentStreamText(data []byte) string {
	var lines []string
	var cur strings.Builder
	newline := func() {
		lines = append(lines, strings.TrimRight(cur.String(), " "))
		cur.Reset()
	}

	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := bytes.TrimSpace(raw)
		switch {
		case len(line) == 0:
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range rePDFString.FindAllSubmatch(line, -1) {
				cur.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			newline()
			for _, m := range rePDFString.FindAllSubmatch(line, -1) {
				cur.WriteString(decodePDFString(m[1]))
			}
		case bytes.Equal(line, []byte("T*")):
			newline()
		case reTd.Match(line):
			m := reTd.FindSubmatch(line)
			if ty := string(m[2]); ty != "0" && ty != "-0" && ty != "0.0" {
				newline()
			} else if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
		}
	}
	if cur.Len() > 0 {
		newline()
	}
	// a leading Td usually positions the first line; drop the empty line it opened
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

// decodePDFString handles the escape sequences of a PDF literal string. Bytes that
// do not form valid UTF-8 are read as Windows-1252, the encoding of the standard fonts.
func decodePDFString(raw []byte) string {
	var buf bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			buf.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case '\\', '(', ')':
			buf.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				buf.WriteByte(raw[i])
				continue
			}
			// octal, up to three digits
			val := int(raw[i] - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			buf.WriteByte(byte(val))
		}
	}
	if utf8.Valid(buf.Bytes()) {
		return buf.String()
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(buf.Bytes())
	if err != nil {
		return strings.ToValidUTF8(buf.String(), "\uFFFD")
	}
	return string(out)
}
