// Package pdf renders a draft to a one-page A4 invoice. It is a pure
// function of the draft: same input, same bytes (modulo the library's
// creation timestamp metadata).
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"fattura/internal/core"
)

// paperFills maps the palette to light page fills.
var paperFills = map[core.PaperColor][3]int{
	core.Bianco: {255, 255, 255},
	core.Avorio: {253, 246, 227},
	core.Menta:  {230, 247, 238},
	core.Cielo:  {229, 241, 251},
	core.Rosa:   {251, 233, 237},
}

// Render produces the invoice PDF for the given draft.
func Render(d core.Draft) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	fill := paperFills[d.PaperColor.Normalize()]
	pdf.SetFillColor(fill[0], fill[1], fill[2])
	pdf.Rect(0, 0, w, h, "F")

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(15, 18)
	pdf.CellFormat(0, 10, "FATTURA", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(15)
	pdf.CellFormat(60, 6, "N. "+d.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Data: "+d.Date.String(), "", 1, "L", false, 0, "")

	// From / To blocks
	pdf.SetY(42)
	blockW := (w - 40) / 2
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(15)
	pdf.CellFormat(blockW, 5, "Da", "", 0, "L", false, 0, "")
	pdf.SetX(15 + blockW + 10)
	pdf.CellFormat(blockW, 5, "A", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	y := pdf.GetY()
	pdf.SetXY(15, y)
	pdf.MultiCell(blockW, 5, d.FromName+"\n"+d.FromAddress, "", "L", false)
	fromEnd := pdf.GetY()
	pdf.SetXY(15+blockW+10, y)
	pdf.MultiCell(blockW, 5, d.ToName+"\n"+d.ToAddress, "", "L", false)
	if pdf.GetY() < fromEnd {
		pdf.SetY(fromEnd)
	}

	// Items table
	pdf.SetY(pdf.GetY() + 8)
	colDesc, colQty, colPrice, colTotal := w-30-70, 18.0, 26.0, 26.0
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(15)
	pdf.CellFormat(colDesc, 7, "Descrizione", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 7, "Qta", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colPrice, 7, "Prezzo", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 7, "Totale", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, li := range d.Items {
		pdf.SetX(15)
		pdf.CellFormat(colDesc, 7, li.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 7, fmt.Sprintf("%d", li.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, 7, li.Price.Format(), "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 7, li.Total().Format(), "", 1, "R", false, 0, "")
	}

	// Totals, always recomputed from the items
	sum := core.Totals(d.Items)
	pdf.SetY(pdf.GetY() + 4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(15)
	pdf.CellFormat(colDesc+colQty+colPrice, 7, "Subtotale", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 7, sum.Subtotal.Format(), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetX(15)
	pdf.CellFormat(colDesc+colQty+colPrice, 8, "Totale", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 8, sum.GrandTotal.Format(), "", 1, "R", false, 0, "")

	// Note
	if strings.TrimSpace(d.Note) != "" {
		pdf.SetY(pdf.GetY() + 8)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetX(15)
		pdf.CellFormat(0, 5, "Note", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetX(15)
		pdf.MultiCell(w-30, 5, d.Note, "", "L", false)
	}

	// Signature image, bottom right
	if d.Signature != "" {
		if err := placeSignature(pdf, d.Signature, w, h); err != nil {
			// A broken signature must not block the export. The library
			// error is sticky, so clear it before drawing the fallback.
			pdf.ClearError()
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetXY(w-75, h-30)
			pdf.CellFormat(60, 5, "(firma non disponibile)", "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// placeSignature decodes a data URL and draws the image above the bottom
// margin.
func placeSignature(pdf *gofpdf.Fpdf, dataURL string, pageW, pageH float64) error {
	imgType, raw, err := decodeDataURL(dataURL)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(raw))
	if pdf.Err() {
		return fmt.Errorf("register signature image: %s", pdf.Error())
	}
	imgW := 50.0
	imgH := imgW * info.Height() / info.Width()
	pdf.ImageOptions("signature", pageW-15-imgW, pageH-25-imgH, imgW, imgH, false, opts, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageW-15-imgW, pageH-23)
	pdf.CellFormat(imgW, 4, "Firma", "T", 1, "C", false, 0, "")
	return nil
}

// decodeDataURL splits a data:image/...;base64 URI into the gofpdf image
// type and the raw bytes.
func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URL encoding")
	}
	var imgType string
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/png":
		imgType = "PNG"
	case "image/jpeg", "image/jpg":
		imgType = "JPG"
	case "image/gif":
		imgType = "GIF"
	default:
		return "", nil, fmt.Errorf("unsupported image type %q", meta)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return imgType, raw, nil
}
