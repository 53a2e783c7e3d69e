package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/validation"
)

const (
	MsgUnsupportedType = "Only JPEG and PNG images are supported"
	MsgNoImage         = "Please select an image"
)

// Candidate is a file the user picked but that has not been accepted yet.
// Open is only called once the declared type and size pass.
type Candidate struct {
	Filename string
	MimeType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

func CandidateFromFileHeader(fh *multipart.FileHeader) Candidate {
	mimeType, _ := validation.DetectMimeType(fh)
	return Candidate{
		Filename: fh.Filename,
		MimeType: mimeType,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func CandidateFromBytes(filename, mimeType string, data []byte) Candidate {
	return Candidate{
		Filename: filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// SizeMessage is the rejection shown for a file over the policy ceiling.
func SizeMessage(p Policy) string {
	return fmt.Sprintf("Image must be less than %s", validation.FormatSize(p.MaxSizeBytes))
}

// ValidateSelection accepts a candidate on its declared type and size alone.
// Nothing is decoded here.
func ValidateSelection(file Candidate, policy Policy) (*domain.SelectedImage, error) {
	if err := validation.CheckImageMime(file.MimeType); err != nil {
		return nil, &errors.ValidationError{Field: "image", Message: MsgUnsupportedType, Err: err}
	}
	if file.Size > policy.MaxSizeBytes {
		return nil, &errors.ValidationError{Field: "image", Message: SizeMessage(policy)}
	}
	if file.Open == nil {
		return nil, fmt.Errorf("candidate %q has no content", file.Filename)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open selected file: %w", err)
	}
	defer rc.Close()

	// The declared size may lie; never buffer more than the ceiling allows.
	data, err := io.ReadAll(io.LimitReader(rc, policy.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read selected file: %w", err)
	}
	if int64(len(data)) > policy.MaxSizeBytes {
		return nil, &errors.ValidationError{Field: "image", Message: SizeMessage(policy)}
	}

	return &domain.SelectedImage{
		Filename: file.Filename,
		MimeType: file.MimeType,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

// Preview returns a data URL of the selection as picked, for display only.
func Preview(img *domain.SelectedImage) string {
	if img == nil {
		return ""
	}
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
