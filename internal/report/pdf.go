package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// ConvertMarkdownToPDF writes a PDF next to the markdown file and returns its absolute path.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	// Explanations are rendered as blockquotes, which mdtopdf prints in italic
	// and cannot mix with inline bold.
	content = stripBoldInBlockquotes(content)

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	renderer.UpdateBlockquoteStyler()
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

func stripBoldInBlockquotes(content []byte) []byte {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "> ") {
			lines[i] = boldPattern.ReplaceAllString(line, "$1")
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
