// Package document turns exam files into the plain text the extraction pipeline reads.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Options configures external tools used to read documents.
type Options struct {
	// PDFToTextPath is the pdftotext executable. Empty means "pdftotext" on PATH.
	PDFToTextPath string
}

// ReadFile returns the text of the document at path, one visual line per text line.
// The format is chosen by the file extension.
func ReadFile(ctx context.Context, path string, opts Options) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".text":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("os.ReadFile(%s) > %w", path, err)
		}
		return normalizeNewlines(string(content)), nil
	case ".html", ".htm", ".xhtml":
		text, err := readHTMLFile(path)
		if err != nil {
			return "", fmt.Errorf("readHTMLFile(%s) > %w", path, err)
		}
		return text, nil
	case ".pdf":
		text, err := readPDFFile(ctx, path, opts.PDFToTextPath)
		if err != nil {
			return "", fmt.Errorf("readPDFFile(%s) > %w", path, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
}

func readPDFFile(ctx context.Context, path string, executable string) (string, error) {
	if executable == "" {
		executable = "pdftotext"
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("os.Stat() > %w", err)
	}

	// "-" writes the text to stdout
	cmd := exec.CommandContext(ctx, executable, path, "-")
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s failed: %s: %w", executable, strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("%s failed: %w", executable, err)
	}

	// pdftotext separates pages with a form feed
	text := strings.ReplaceAll(string(output), "\f", "\n")
	return normalizeNewlines(text), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
