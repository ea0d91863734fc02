package server

import (
	stdErrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"careernav/internal/analysis"
	"careernav/internal/errors"
	"careernav/internal/extract"
	"careernav/internal/observability"
)

const (
	uploadField = "file"

	// Multipart parts beyond this are spooled to disk by net/http
	multipartMemory = 8 << 20

	msgUnsupportedFileType = "Unsupported file type. Please upload a .txt, .pdf, or .docx file"
	msgNoTextContent       = "No text content found in the file"
)

type upload struct {
	data        []byte
	filename    string
	contentType string
}

// createAnalyzeHandler wraps the resume analysis handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careernav.api")
		ctx, span := tracer.Start(ctx, "api.analyze_resume")
		defer span.End()

		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		span.SetAttributes(attribute.String("request.id", requestID))

		file, err := readUpload(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.writeAppError(w, err)
			return
		}

		if !extract.IsSupportedContentType(file.contentType) {
			err := errors.NewValidationError(errors.ErrCodeUnsupportedFormat, msgUnsupportedFileType, nil).
				WithContext("content_type", file.contentType)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", file.filename),
			attribute.String("request.content_type", file.contentType),
			attribute.Int("request.size_bytes", len(file.data)),
		)

		report, err := s.Service.AnalyzeDocument(ctx, analysis.SourceHTTP, file.data, file.filename, file.contentType)
		if err != nil {
			recordSpanError(span, err)
			s.Logger.LogError(err, "Resume analysis failed",
				"request_id", requestID,
				"filename", file.filename)
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("report.score", report.Score),
			attribute.String("report.grade", report.Grade),
			attribute.Int("report.skills", len(report.Skills)),
		)

		s.Logger.Info("Resume analyzed",
			"request_id", requestID,
			"filename", file.filename,
			"score", report.Score,
			"grade", report.Grade)

		writeJSON(w, http.StatusOK, report)
	}
}

// readUpload pulls the "file" part out of a multipart request
func readUpload(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, uploadError(err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	f, header, err := r.FormFile(uploadField)
	if err != nil {
		if stdErrors.Is(err, http.ErrMissingFile) {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("Missing form field: %s", uploadField), err)
		}
		return nil, uploadError(err)
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, uploadError(err)
	}

	return &upload{
		data:        data,
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
	}, nil
}

func uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if stdErrors.As(err, &maxBytesErr) {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("Request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
	}
	return errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("Invalid multipart upload: %v", err), err)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	errorType := "internal"
	if appErr, ok := errors.AsAppError(err); ok {
		errorType = string(appErr.Type)
	}
	span.SetAttributes(attribute.String("error.type", errorType))
}

// writeAppError maps an error onto a status code and client-facing message
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status, detail, code := describeError(err)
	writeErrorResponse(w, status, detail, code)
}

func describeError(err error) (int, string, string) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError, "Internal server error: " + err.Error(), errors.ErrCodeInternal
	}

	switch appErr.Code {
	case errors.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest, msgUnsupportedFileType, appErr.Code
	case errors.ErrCodeEmptyInput:
		return http.StatusBadRequest, msgNoTextContent, appErr.Code
	case errors.ErrCodeExtractionFailed, errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest, appErr.Message, appErr.Code
	case errors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge, appErr.Message, appErr.Code
	default:
		return http.StatusInternalServerError, "Internal server error: " + appErr.Message, appErr.Code
	}
}
