package imaging

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"unicode/utf8"

	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/errors"
)

const imageField = "image"

// Field is a text part sent alongside the image.
type Field struct {
	Name   string
	Label  string
	Value  string
	MaxLen int
}

// Caption is the post caption field, limited to maxLen characters.
func Caption(text string, maxLen int) Field {
	return Field{Name: "caption", Label: "Caption", Value: text, MaxLen: maxLen}
}

func (f Field) Validate() error {
	if f.MaxLen > 0 && utf8.RuneCountInString(f.Value) > f.MaxLen {
		return &errors.ValidationError{
			Field:   f.Name,
			Message: fmt.Sprintf("%s must be %d characters or less", f.Label, f.MaxLen),
		}
	}
	return nil
}

func ValidateFields(fields []Field) error {
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UploadBody is a normalized image plus its text fields, ready to be written
// as a multipart form.
type UploadBody struct {
	Filename string
	Image    []byte
	Fields   []Field
}

// BuildUploadRequest packages payload under the "image" part.
func BuildUploadRequest(payload *domain.NormalizedImage, filename string, fields ...Field) (*UploadBody, error) {
	if payload == nil || len(payload.Data) == 0 {
		return nil, fmt.Errorf("no normalized image to upload")
	}
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	return &UploadBody{Filename: filename, Image: payload.Data, Fields: fields}, nil
}

// WriteMultipart writes the image part first, then the text fields in order.
func (b *UploadBody) WriteMultipart(w *multipart.Writer) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, imageField, b.Filename))
	h.Set("Content-Type", "image/jpeg")

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(b.Image); err != nil {
		return fmt.Errorf("failed to write image part: %w", err)
	}

	for _, f := range b.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}
	return nil
}
