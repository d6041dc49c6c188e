// Package imaging implements image decoding, EXIF orientation extraction
// and thumbnail generation for the catalog.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register gif decoding
	"image/jpeg"
	"image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"

	"pixcat/internal/catalog"
)

// Processor decodes jpeg, png and gif images. Thumbnails for gif sources
// are re-encoded as png to avoid palette quantization.
type Processor struct {
	jpegQuality int
}

func NewProcessor() *Processor {
	return &Processor{jpegQuality: 85}
}

// Properties reads dimensions, format and EXIF rotation without decoding
// the full pixel data.
func (p *Processor) Properties(data []byte) (catalog.ImageProperties, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return catalog.ImageProperties{}, fmt.Errorf("decoding image header: %w", err)
	}

	props := catalog.ImageProperties{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}
	if format == "jpeg" {
		props.Rotation = exifRotation(data)
	}
	return props, nil
}

// exifRotation maps the EXIF orientation tag to a clockwise rotation in
// degrees. Images without usable EXIF data report 0.
func exifRotation(data []byte) int {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 0
	}

	switch orientation {
	case 3:
		return 180
	case 6:
		return 90
	case 8:
		return 270
	default:
		return 0
	}
}

// Thumbnail scales the image to fit the given bounds: landscape sources
// are bound by maxWidth, portrait sources by maxHeight, aspect ratio
// preserved. Returns the encoded thumbnail and its pixel dimensions.
func (p *Processor) Thumbnail(data []byte, props catalog.ImageProperties, maxWidth, maxHeight int) ([]byte, int, int, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding image: %w", err)
	}

	width, height := fitDimensions(props.Width, props.Height, maxWidth, maxHeight)
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	switch props.Format {
	case "jpeg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: p.jpegQuality})
	case "png", "gif":
		err = png.Encode(&buf, scaled)
	default:
		return nil, 0, 0, fmt.Errorf("unsupported image format: %s", props.Format)
	}
	if err != nil {
		return nil, 0, 0, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), width, height, nil
}

// fitDimensions picks the thumbnail size: landscape images fill the
// width, portrait images fill the height.
func fitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return maxWidth, maxHeight
	}

	if width >= height {
		scaled := height * maxWidth / width
		return maxWidth, max(scaled, 1)
	}
	scaled := width * maxHeight / height
	return max(scaled, 1), maxHeight
}

// Compile-time check
var _ catalog.ImageProcessor = (*Processor)(nil)
