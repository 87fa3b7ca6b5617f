// internal/workers/resume/parse-resume/text.go
package parseresume

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

// ExtractText returns the plain text of a PDF or DOCX document. A document
// that cannot be read, or holds no text, is DOCUMENT_UNREADABLE.
func ExtractText(data []byte, fileType string) (string, error) {
	var (
		text string
		err  error
	)
	switch fileType {
	case models.FileTypePDF:
		text, err = extractPDFText(data)
	case models.FileTypeDOCX:
		text, err = extractDocxText(data)
	default:
		return "", errors.NewUnsupportedMediaTypeError(fileType)
	}
	if err != nil {
		return "", errors.NewDocumentUnreadableError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.NewDocumentUnreadableError(fmt.Errorf("no text found in document"))
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripXML(doc.Editable().GetContent()), nil
}

// stripXML drops the WordprocessingML markup GetContent returns, keeping
// paragraph breaks.
func stripXML(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}
