package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Content types accepted for analysis
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

var (
	// ErrUnsupportedFormat is returned when the declared content type is not supported
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailed wraps the underlying cause when a supported document cannot be read
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Extractor converts an uploaded document into plain text
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the document at path and returns its plain text. The declared
// content type selects the extraction method; anything outside the supported
// set fails with ErrUnsupportedFormat.
func (e *Extractor) Extract(path, declaredType string) (string, error) {
	var (
		text string
		err  error
	)

	switch declaredType {
	case ContentTypePDF:
		text, err = extractPDF(path)
	case ContentTypeDocx:
		text, err = extractDocx(path)
	case ContentTypeText:
		text, err = extractTxt(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, declaredType)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return text, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// extractDocx pulls paragraph text out of word/document.xml. A DOCX file is a
// ZIP archive wrapping WordprocessingML.
func extractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		text, err := parseDocumentXML(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("no word/document.xml in archive")
}

func extractTxt(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}

	return strings.TrimSpace(string(raw)), nil
}

var (
	extraWhitespace = regexp.MustCompile(`\s+`)
	disallowedChars = regexp.MustCompile(`[^\w\s.,;:()"'-]`)
)

// CleanText collapses whitespace and strips unusual characters. Segmentation
// runs on the raw extracted text; this is an opt-in utility and is not part of
// the analysis path.
func CleanText(text string) string {
	text = extraWhitespace.ReplaceAllString(text, " ")
	text = disallowedChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// parseDocumentXML walks the WordprocessingML token stream collecting text
// runs (w:t), with a newline per paragraph (w:p).
func parseDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inTextRun = false
			}
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
