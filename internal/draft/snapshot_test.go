package draft

import (
	"reflect"
	"strings"
	"testing"

	"fattura/internal/core"
)

func sampleDraft() core.Draft {
	d := core.NewDraft()
	d.SetPaperColor(core.Menta)
	d.SetInvoiceNumber("2026-007")
	date, _ := core.ParseDate("2026-08-30")
	d.SetDate(date)
	d.SetFromName("Studio Rossi")
	d.SetFromAddress("Via Garibaldi 12\nTorino")
	d.SetToName("ACME srl")
	d.SetToAddress("Corso Italia 3\nGenova")
	d.SetNote("Pagamento entro 30 giorni")
	d.SetSignature("data:image/png;base64,aGVsbG8=")
	id := d.Items[0].ID
	d.SetItemDescription(id, "Consulenza")
	d.SetItemQuantity(id, 3)
	d.SetItemPrice(id, core.Money{Cents: 1050})
	li := d.AddItem()
	d.SetItemDescription(li.ID, "Trasferta")
	d.SetItemPrice(li.ID, core.Money{Cents: 25})
	return d
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := sampleDraft()
	payload, err := EncodeSnapshot(d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, d)
	}
}

func TestSnapshotFieldNames(t *testing.T) {
	payload, err := EncodeSnapshot(sampleDraft())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(payload)
	for _, field := range []string{
		`"schemaVersion":1`, `"paperColor"`, `"signature"`, `"invoiceNumber"`,
		`"date"`, `"fromName"`, `"fromAddress"`, `"toName"`, `"toAddress"`,
		`"items"`, `"note"`, `"id"`, `"description"`, `"quantity"`, `"price":10.50`,
	} {
		if !strings.Contains(s, field) {
			t.Fatalf("snapshot missing %s: %s", field, s)
		}
	}
}

func TestDecodeSnapshotErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"garbage", `{not json`},
		{"bad date", `{"schemaVersion":1,"date":"30/08/2026","items":[]}`},
		{"bad price", `{"schemaVersion":1,"items":[{"id":"a","quantity":1,"price":"abc"}]}`},
		{"future schema", `{"schemaVersion":99,"items":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeSnapshot([]byte(tc.payload)); err == nil {
				t.Fatalf("expected decode error for %s", tc.payload)
			}
		})
	}
}

func TestDecodeSnapshotWithoutVersionField(t *testing.T) {
	// Records persisted before versioning carry no schemaVersion; they
	// are read as version 1.
	payload := `{"paperColor":"menta","signature":"","invoiceNumber":"7","date":"2026-01-02",` +
		`"fromName":"","fromAddress":"","toName":"","toAddress":"",` +
		`"items":[{"id":"a","description":"x","quantity":2,"price":1.25}],"note":""}`
	d, err := DecodeSnapshot([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.PaperColor != core.Menta || d.Items[0].Price.Cents != 125 || d.Items[0].Quantity != 2 {
		t.Fatalf("unexpected draft: %+v", d)
	}
}

func TestDecodeSnapshotNormalizes(t *testing.T) {
	payload := `{"schemaVersion":1,"paperColor":"plaid","items":[],"date":"2026-01-02"}`
	d, err := DecodeSnapshot([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.PaperColor != core.Palette[0] {
		t.Fatalf("paper color = %q, expected default", d.PaperColor)
	}
	if len(d.Items) != 1 {
		t.Fatalf("expected one repaired item, got %d", len(d.Items))
	}
}
