package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/middleware/metrics"
	"golang.org/x/image/draw"
)

// maxSourcePixels rejects sources whose header claims an absurd raster before
// any pixel memory is allocated.
const maxSourcePixels = 50_000_000

// CenterCrop is the largest square centered in a w×h image.
func CenterCrop(w, h int) domain.CropRect {
	side := min(w, h)
	return domain.CropRect{X: (w - side) / 2, Y: (h - side) / 2, Side: side}
}

type normalizeResult struct {
	img *domain.NormalizedImage
	err error
}

// Normalize decodes img, crops its centered square and scales it to a
// target.Side square in one draw, then encodes JPEG at target.Quality.
// The work runs off the caller's goroutine so ctx cancellation returns at once.
func Normalize(ctx context.Context, img *domain.SelectedImage, target Target) (*domain.NormalizedImage, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, &errors.ImageDecodeError{Err: fmt.Errorf("empty selection")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	done := make(chan normalizeResult, 1)
	go func() {
		out, err := normalize(ctx, img.Data, target)
		done <- normalizeResult{out, err}
	}()

	select {
	case <-ctx.Done():
		metrics.ObserveNormalize(target.Side, time.Since(start), ctx.Err())
		logger.Log.Warn("image normalization abandoned", "target", target.Side, "error", ctx.Err())
		return nil, ctx.Err()
	case res := <-done:
		metrics.ObserveNormalize(target.Side, time.Since(start), res.err)
		return res.img, res.err
	}
}

func normalize(ctx context.Context, data []byte, target Target) (*domain.NormalizedImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ImageDecodeError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxSourcePixels {
		return nil, &errors.ImageDecodeError{Err: fmt.Errorf("unsupported dimensions %dx%d", cfg.Width, cfg.Height)}
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ImageDecodeError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := src.Bounds()
	crop := CenterCrop(b.Dx(), b.Dy())
	srcRect := image.Rect(
		b.Min.X+crop.X,
		b.Min.Y+crop.Y,
		b.Min.X+crop.X+crop.Side,
		b.Min.Y+crop.Y+crop.Side,
	)

	dst := image.NewRGBA(image.Rect(0, 0, target.Side, target.Side))
	// JPEG has no alpha; transparent PNG pixels land on white.
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, draw.Over, nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: target.Quality}); err != nil {
		return nil, &errors.ImageEncodeError{Err: err}
	}

	return &domain.NormalizedImage{
		Data:    buf.Bytes(),
		Width:   target.Side,
		Height:  target.Side,
		Quality: target.Quality,
		Crop:    crop,
	}, nil
}
