package locations

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// renderBatchLabelsPDF prints one A6 label per batch with a Code128 barcode
// of the batch number.
func renderBatchLabelsPDF(batches []BatchData, printedAt time.Time) ([]byte, error) {
	if len(batches) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetTitle("Batch Labels", false)
	pdf.SetAutoPageBreak(false, 0)
	for i, b := range batches {
		if err := addBatchLabelPage(pdf, b, printedAt, i); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func addBatchLabelPage(pdf *gofpdf.Fpdf, b BatchData, printedAt time.Time, pageIndex int) error {
	product := strings.TrimSpace(b.ProductName)
	if product == "" {
		product = "Unnamed Product"
	}
	productNumber := strings.TrimSpace(b.ProductNumber)
	if productNumber == "" {
		productNumber = "-"
	}
	batch := strings.TrimSpace(b.BatchNumber)
	if batch == "" {
		batch = "-"
	}
	shelf, bin := "-", "-"
	if b.Shelf != nil {
		shelf = *b.Shelf
	}
	if b.Bin != nil {
		bin = *b.Bin
	}
	expiry := "-"
	if b.ExpirationDate.Valid() {
		expiry = b.ExpirationDate.Format("02/01/2006")
	}

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	margin := 6.0
	x0, y0 := margin, margin
	w0, h0 := pageW-2*margin, pageH-2*margin

	pdf.SetLineWidth(0.35)
	pdf.Rect(x0, y0, w0, h0, "")

	productFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 18, 9, product, w0-6)
	pdf.SetFont("Helvetica", "B", productFont)
	pdf.SetXY(x0+3, y0+3)
	pdf.CellFormat(w0-6, 9, product, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(x0 + 3)
	pdf.CellFormat(w0-6, 6, "Product No: "+productNumber, "", 1, "L", false, 0, "")

	yLoc := y0 + 22
	pdf.Line(x0, yLoc, x0+w0, yLoc)
	half := w0 / 2
	pdf.Line(x0+half, yLoc, x0+half, yLoc+30)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x0+2.5, yLoc+2)
	pdf.CellFormat(half-5, 5, "Shelf:", "", 0, "L", false, 0, "")
	pdf.SetXY(x0+half+2.5, yLoc+2)
	pdf.CellFormat(half-5, 5, "Bin:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", fitFontSizeForWidth(pdf, "Helvetica", "B", 36, 14, shelf, half-6))
	pdf.SetXY(x0+3, yLoc+9)
	pdf.CellFormat(half-6, 18, shelf, "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", fitFontSizeForWidth(pdf, "Helvetica", "B", 36, 14, bin, half-6))
	pdf.SetXY(x0+half+3, yLoc+9)
	pdf.CellFormat(half-6, 18, bin, "", 0, "C", false, 0, "")

	yExp := yLoc + 30
	pdf.Line(x0, yExp, x0+w0, yExp)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x0+2.5, yExp+2)
	pdf.CellFormat(w0-5, 5, "Expiry:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(x0+3, yExp+8)
	pdf.CellFormat(w0-6, 10, expiry, "", 0, "L", false, 0, "")

	yBar := yExp + 22
	pdf.Line(x0, yBar, x0+w0, yBar)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x0+2.5, yBar+2)
	pdf.CellFormat(w0-5, 5, "Batch No:", "", 0, "L", false, 0, "")

	if batch != "-" {
		barcodePNG, err := renderCode128PNG(batch, 1000, 240)
		if err != nil {
			return err
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("batch-barcode-%d", pageIndex)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		pdf.ImageOptions(imageName, x0+5, yBar+9, w0-10, 24, false, opt, 0, "")
	}
	pdf.SetFont("Helvetica", "B", fitFontSizeForWidth(pdf, "Helvetica", "B", 16, 9, batch, w0-6))
	pdf.SetXY(x0+3, yBar+35)
	pdf.CellFormat(w0-6, 8, batch, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x0+3, y0+h0-7)
	pdf.CellFormat(w0-6, 5, "Printed: "+printedAt.Format("02/01/2006"), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
