package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LocalExtractor reads the text layer of a PDF in process. Scanned pages
// without a text layer yield nothing and images are not described.
type LocalExtractor struct{}

func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

func (e *LocalExtractor) Name() string {
	return "local"
}

func (e *LocalExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(PageMarker(i))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(content))
	}

	return stripEmptyPages(sb.String()), nil
}

// stripEmptyPages returns "" when the text holds nothing but page markers.
func stripEmptyPages(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (strings.HasPrefix(line, "--- Page ") && strings.HasSuffix(line, " ---")) {
			continue
		}
		return text
	}
	return ""
}
