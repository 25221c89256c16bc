package pkg

import (
	"bytes"
	"errors"
	"image"
	"io"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	BannerWidth    = 1280
	MaxBannerBytes = 5 << 20
	// MaxBannerPixels bounds the decoded size independently of the upload size.
	MaxBannerPixels = 40_000_000
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image dimensions too large")
)

// ProcessBanner decodes a jpeg or png, applies the EXIF orientation, scales
// it to BannerWidth and re-encodes it as JPEG.
func ProcessBanner(data []byte, contentType string) (*bytes.Buffer, error) {
	var (
		decodeConfig func(io.Reader) (image.Config, error)
		decode       func(io.Reader) (image.Image, error)
	)
	switch contentType {
	case "image/jpeg", "image/jpg":
		decodeConfig, decode = jpeg.DecodeConfig, jpeg.Decode
	case "image/png":
		decodeConfig, decode = png.DecodeConfig, png.Decode
	default:
		return nil, ErrUnsupportedImage
	}

	cfg, err := decodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxBannerPixels {
		return nil, ErrImageTooLarge
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	switch orientation(data) {
	case 3:
		img = imaging.Rotate180(img)
	case 6:
		img = imaging.Rotate270(img)
	case 8:
		img = imaging.Rotate90(img)
	}

	if img.Bounds().Dx() > BannerWidth {
		img = imaging.Resize(img, BannerWidth, 0, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return out, nil
}

func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}
