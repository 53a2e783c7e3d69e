package validation

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// AllowedImageMimes are the only types accepted by the upload flows.
var AllowedImageMimes = map[string]bool{
	MimeJPEG: true,
	MimePNG:  true,
}

// AcceptImageTypes is the value for the accept attribute of image inputs.
func AcceptImageTypes() string {
	types := make([]string, 0, len(AllowedImageMimes))
	for t := range AllowedImageMimes {
		types = append(types, t)
	}
	sort.Strings(types)
	return strings.Join(types, ",")
}

// CheckImageMime rejects every type outside AllowedImageMimes with
// ErrInvalidMimeType.
func CheckImageMime(mimeType string) error {
	if !AllowedImageMimes[mimeType] {
		return fmt.Errorf("%w: %q", ErrInvalidMimeType, mimeType)
	}
	return nil
}

// DetectMimeType returns the declared type of an uploaded part, falling back
// to the filename extension when the browser sent nothing useful.
func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	return DeclaredMimeType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
}

func DeclaredMimeType(contentType, filename string) (string, error) {
	mimeType := contentType
	if mimeType != "" {
		if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
			mimeType = parsed
		}
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(filename))
		if detected := mime.TypeByExtension(ext); detected != "" {
			mimeType, _, _ = mime.ParseMediaType(detected)
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("%w: could not detect type of %s", ErrInvalidMimeType, filename)
	}
	return strings.ToLower(mimeType), nil
}
