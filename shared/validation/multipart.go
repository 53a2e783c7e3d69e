package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ValidateAndParseMultipart caps the request body at maxSize and parses the
// multipart form. Exceeding the cap resets the connection in browsers; the
// client script checks sizes before upload so only bypassed requests hit it.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
// It adds a buffer (typically 1 MiB) for form fields and multipart overhead.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// ReadFormFile reads the single file part named field. The size reported by
// the header is returned as is; callers enforce their own ceiling on it.
func ReadFormFile(r *http.Request, field string) (*multipart.FileHeader, []byte, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil, ErrNoFile
	}
	header := r.MultipartForm.File[field][0]

	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return header, data, nil
}

// FormatSize renders a byte ceiling the way upload messages show it: whole
// megabytes when it divides evenly, kilobytes otherwise.
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	if bytes >= mb && bytes%mb == 0 {
		return fmt.Sprintf("%dMB", bytes/mb)
	}
	if bytes%kb == 0 {
		return fmt.Sprintf("%dKB", bytes/kb)
	}
	return fmt.Sprintf("%.0fKB", float64(bytes)/kb)
}
