package domain

// SelectedImage is a validated user file before upload.
type SelectedImage struct {
	Filename string
	MimeType string
	Size     int64
	Data     []byte
}

// CropRect is the centered square taken from the source image.
type CropRect struct {
	X, Y, Side int
}

// NormalizedImage is always a square JPEG.
type NormalizedImage struct {
	Data    []byte
	Width   int
	Height  int
	Quality int
	Crop    CropRect
}
