// Package extract turns uploaded resume documents into plain text.
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"careernav/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor converts document bytes to text
type Extractor struct {
	logger *errors.Logger
}

func NewExtractor(logger *errors.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the text content of data. Malformed documents fail with
// EXTRACTION_FAILED and unknown formats with UNSUPPORTED_FORMAT.
func (e *Extractor) Extract(ctx context.Context, data []byte, format Format) (string, error) {
	tracer := otel.Tracer("careernav.extract")
	_, span := tracer.Start(ctx, "extract."+string(format))
	defer span.End()

	span.SetAttributes(
		attribute.String("document.format", string(format)),
		attribute.Int("document.size", len(data)),
	)

	var (
		text string
		err  error
	)
	switch format {
	case FormatText:
		text, err = extractPlainText(data)
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	case FormatHTML:
		text, err = extractHTMLText(data)
	default:
		return "", errors.NewExtractionError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported file format: %s", format), nil)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if e.logger != nil {
			e.logger.Debug("Text extraction failed", "format", string(format), "error", err.Error())
		}
		if _, ok := errors.AsAppError(err); ok {
			return "", err
		}
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Error extracting text: %v", err), err).
			WithContext("format", string(format))
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("document.text_length", len(text)),
	)
	return text, nil
}

// ExtractFile detects the format from filename and contentType, then extracts.
func (e *Extractor) ExtractFile(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		return "", err
	}
	return e.Extract(ctx, data, format)
}

func extractPlainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// extractPDFText joins the plain text of every page with newlines. The pdf
// reader panics on some malformed inputs, so panics become errors.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return paragraphText(doc.Editable().GetContent())
}

// paragraphText walks WordprocessingML and returns run text, one line per
// paragraph. Tabs and breaks inside a paragraph become whitespace.
func paragraphText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx content: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}

// Elements whose text should end on its own line
const blockSelectors = "p, div, li, tr, br, h1, h2, h3, h4, h5, h6, section, article, header, footer"

func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	lines := strings.Split(doc.Find("body").Text(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}
