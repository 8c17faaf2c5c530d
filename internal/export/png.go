// Package export writes the flattened raster out as PNG or PDF.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
)

// PNG encodes the raster losslessly at full resolution.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG saves the raster to path.
func WritePNG(path string, img image.Image) error {
	data, err := PNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
