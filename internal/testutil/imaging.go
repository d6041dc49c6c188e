package testutil

import (
	"pixcat/internal/catalog"
)

// StubImageProcessor reports fixed dimensions and produces a thumbnail
// by prefixing the source bytes, so tests can assert thumbnail content
// without real image fixtures.
type StubImageProcessor struct {
	Width  int
	Height int
}

// NewStubImageProcessor creates a processor reporting 800x600 jpeg
// sources.
func NewStubImageProcessor() *StubImageProcessor {
	return &StubImageProcessor{Width: 800, Height: 600}
}

func (p *StubImageProcessor) Properties(data []byte) (catalog.ImageProperties, error) {
	return catalog.ImageProperties{
		Width:  p.Width,
		Height: p.Height,
		Format: "jpeg",
	}, nil
}

func (p *StubImageProcessor) Thumbnail(data []byte, props catalog.ImageProperties, maxWidth, maxHeight int) ([]byte, int, int, error) {
	thumb := append([]byte("thumb:"), data...)
	if props.Width >= props.Height {
		return thumb, maxWidth, maxWidth * props.Height / max(props.Width, 1), nil
	}
	return thumb, maxHeight * props.Width / max(props.Height, 1), maxHeight, nil
}

// Compile-time check
var _ catalog.ImageProcessor = (*StubImageProcessor)(nil)
