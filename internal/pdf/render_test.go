package pdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"fattura/internal/core"
)

func testDraft() core.Draft {
	d := core.NewDraft()
	d.SetInvoiceNumber("2026-001")
	d.SetFromName("Studio Rossi")
	d.SetFromAddress("Via Garibaldi 12\nTorino")
	d.SetToName("ACME srl")
	d.SetToAddress("Corso Italia 3\nGenova")
	d.SetNote("Pagamento entro 30 giorni")
	id := d.Items[0].ID
	d.SetItemDescription(id, "Consulenza")
	d.SetItemQuantity(id, 3)
	d.SetItemPrice(id, core.Money{Cents: 1050})
	return d
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(testDraft())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", out[:8])
	}
}

func TestRenderWithSignature(t *testing.T) {
	d := testDraft()
	d.SetSignature(pngDataURL(t))
	out, err := Render(d)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF")
	}
}

func TestRenderBrokenSignatureFallsBack(t *testing.T) {
	cases := []struct {
		name string
		sig  string
	}{
		{"not a data url", "http://example.com/firma.png"},
		{"bad base64", "data:image/png;base64,!!!"},
		{"unsupported type", "data:image/tiff;base64,aGVsbG8="},
		{"garbage image bytes", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not png"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := testDraft()
			d.SetSignature(tc.sig)
			out, err := Render(d)
			if err != nil {
				t.Fatalf("broken signature must not fail the export: %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF")) {
				t.Fatalf("output does not start with %%PDF")
			}
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	imgType, raw, err := decodeDataURL("data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if imgType != "JPG" || string(raw) != "hello" {
		t.Fatalf("imgType=%q raw=%q", imgType, raw)
	}
	if _, _, err := decodeDataURL("data:image/png,plain"); err == nil {
		t.Fatalf("non-base64 data URL should fail")
	}
}
