package extract

import (
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"careernav/internal/errors"
)

// Format identifies how document bytes are turned into text
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// MIME types accepted for upload
const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeHTML = "text/html"
)

var extensionFormats = map[string]Format{
	".txt":  FormatText,
	".text": FormatText,
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".html": FormatHTML,
	".htm":  FormatHTML,
}

var contentTypeFormats = map[string]Format{
	ContentTypeText: FormatText,
	ContentTypePDF:  FormatPDF,
	ContentTypeDOCX: FormatDOCX,
	ContentTypeHTML: FormatHTML,
}

// SupportedExtensions lists the file extensions that can be analyzed
func SupportedExtensions() []string {
	return []string{".txt", ".pdf", ".docx", ".html"}
}

// SupportedContentTypes lists the MIME types that can be analyzed
func SupportedContentTypes() []string {
	return []string{ContentTypeText, ContentTypePDF, ContentTypeDOCX, ContentTypeHTML}
}

// normalizeContentType drops parameters such as charset.
func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// IsSupportedContentType reports whether a declared upload type is accepted.
func IsSupportedContentType(contentType string) bool {
	return slices.Contains(SupportedContentTypes(), normalizeContentType(contentType))
}

// IsSupportedFile reports whether filename has a supported extension.
func IsSupportedFile(filename string) bool {
	_, ok := extensionFormats[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// DetectFormat picks a format from the file extension, falling back to the
// declared content type when the name carries no known extension.
func DetectFormat(filename, contentType string) (Format, error) {
	if format, ok := extensionFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return format, nil
	}
	if format, ok := contentTypeFormats[normalizeContentType(contentType)]; ok {
		return format, nil
	}
	return "", errors.NewExtractionError(errors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("Unsupported file format: %s", describe(filename, contentType)), nil).
		WithContext("filename", filename).
		WithContext("content_type", contentType)
}

func describe(filename, contentType string) string {
	switch {
	case filename != "" && contentType != "":
		return fmt.Sprintf("%s (%s)", filename, contentType)
	case filename != "":
		return filename
	case contentType != "":
		return contentType
	default:
		return "unknown"
	}
}
