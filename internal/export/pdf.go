package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF embeds the flattened raster in a single-page PDF sized to the
// image, one pixel per point.
func WritePDF(path string, img image.Image) error {
	data, err := PNG(img)
	if err != nil {
		return err
	}
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("annotated", opts, bytes.NewReader(data))
	pdf.ImageOptions("annotated", 0, 0, w, h, false, opts, 0, "")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
