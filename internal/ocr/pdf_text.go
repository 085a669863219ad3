package ocr

import (
	"context"
	"strconv"
	"strings"
)

// pdfToText runs pdftotext and splits its output into pages.
func (e *Extractor) pdfToText(ctx context.Context, path string) (pages []string, warnings []string, err error) {
	// pdftotext [-layout] -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-enc", "UTF-8", "-eol", "unix"}
	if e.cfg.Layout {
		args = append([]string{"-layout"}, args...)
	}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, path, "-")

	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		if s := strings.TrimSpace(string(errb)); s != "" {
			warnings = append(warnings, s)
		}
		return nil, warnings, err
	}
	return splitPages(string(out), e.cfg.MaxPages), warnings, nil
}

// splitPages splits pdftotext output on form-feeds. pdftotext ends every page with
// \f, so the empty remainder after the last one is dropped.
func splitPages(out string, maxPages int) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, "\f")
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	for i, p := range pages {
		// pdftotext already terminates each page's last line
		pages[i] = strings.TrimSuffix(p, "\n")
	}
	if maxPages > 0 && len(pages) > maxPages {
		pages = pages[:maxPages]
	}
	return pages
}
