package core

import (
	"testing"
)

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()
	if d.PaperColor != Palette[0] {
		t.Fatalf("default paper color = %q, expected %q", d.PaperColor, Palette[0])
	}
	if len(d.Items) != 1 {
		t.Fatalf("default draft has %d items, expected 1", len(d.Items))
	}
	li := d.Items[0]
	if li.ID == "" || li.Description != "" || li.Quantity != 1 || li.Price.Cents != 0 {
		t.Fatalf("unexpected default item: %+v", li)
	}
	if d.Date.IsZero() {
		t.Fatal("default draft has zero date")
	}
	if d.Signature != "" || d.Note != "" {
		t.Fatalf("default draft not empty: sig=%q note=%q", d.Signature, d.Note)
	}
}

func TestPaperColorNormalize(t *testing.T) {
	for _, c := range Palette {
		if c.Normalize() != c {
			t.Fatalf("palette color %q did not survive Normalize", c)
		}
	}
	if got := PaperColor("fuchsia").Normalize(); got != Palette[0] {
		t.Fatalf("unknown color normalized to %q, expected %q", got, Palette[0])
	}
	if got := PaperColor("").Normalize(); got != Palette[0] {
		t.Fatalf("empty color normalized to %q, expected %q", got, Palette[0])
	}
}

func TestAddRemoveItemInvariant(t *testing.T) {
	d := NewDraft()
	first := d.Items[0].ID

	// Removing the only item is a no-op, whatever the id.
	if err := d.RemoveItem(first); err != ErrLastItem {
		t.Fatalf("remove last item: err = %v, expected ErrLastItem", err)
	}
	if len(d.Items) != 1 || d.Items[0].ID != first {
		t.Fatalf("last item changed: %+v", d.Items)
	}

	// Any add/remove sequence keeps the list at >= 1.
	for i := 0; i < 5; i++ {
		d.AddItem()
	}
	if len(d.Items) != 6 {
		t.Fatalf("item count = %d, expected 6", len(d.Items))
	}
	ids := make([]string, 0, len(d.Items))
	seen := map[string]bool{}
	for _, li := range d.Items {
		if seen[li.ID] {
			t.Fatalf("duplicate item id %q", li.ID)
		}
		seen[li.ID] = true
		ids = append(ids, li.ID)
	}
	for _, id := range ids {
		_ = d.RemoveItem(id)
		if len(d.Items) < 1 {
			t.Fatalf("item list dropped below 1")
		}
	}
	if len(d.Items) != 1 {
		t.Fatalf("item count after removing all = %d, expected 1", len(d.Items))
	}

	if err := d.RemoveItem("no-such-id"); err != ErrLastItem {
		t.Fatalf("unexpected err for unknown id at one item: %v", err)
	}
	d.AddItem()
	if err := d.RemoveItem("no-such-id"); err != ErrUnknownItem {
		t.Fatalf("unexpected err for unknown id: %v", err)
	}
}

func TestItemSetters(t *testing.T) {
	d := NewDraft()
	id := d.Items[0].ID

	if !d.SetItemDescription(id, "consulenza") {
		t.Fatal("SetItemDescription did not find the item")
	}
	if !d.SetItemQuantity(id, 3) {
		t.Fatal("SetItemQuantity did not find the item")
	}
	if !d.SetItemPrice(id, Money{Cents: 1050}) {
		t.Fatal("SetItemPrice did not find the item")
	}
	li := d.Items[0]
	if li.Description != "consulenza" || li.Quantity != 3 || li.Price.Cents != 1050 {
		t.Fatalf("unexpected item after setters: %+v", li)
	}
	if li.Total().Cents != 3150 {
		t.Fatalf("line total = %d, expected 3150", li.Total().Cents)
	}

	if d.SetItemDescription("missing", "x") || d.SetItemQuantity("missing", 1) || d.SetItemPrice("missing", Money{}) {
		t.Fatal("setters reported success for unknown id")
	}
}

func TestScenarioThreeItems(t *testing.T) {
	d := NewDraft()
	item1 := d.Items[0].ID
	item2 := d.AddItem().ID
	d.AddItem()
	if len(d.Items) != 3 {
		t.Fatalf("item count = %d, expected 3", len(d.Items))
	}

	d.SetItemQuantity(item2, 3)
	d.SetItemPrice(item2, CoercePrice("10.50"))

	sum := d.Totals()
	if sum.Subtotal.Cents != 3150 {
		t.Fatalf("subtotal = %d, expected 3150", sum.Subtotal.Cents)
	}

	if err := d.RemoveItem(item1); err != nil {
		t.Fatalf("remove item1: %v", err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("item count after removal = %d, expected 2", len(d.Items))
	}
	if got := d.Totals().Subtotal.Cents; got != 3150 {
		t.Fatalf("subtotal after removal = %d, expected 3150", got)
	}
}

func TestHeaderSetters(t *testing.T) {
	d := NewDraft()
	d.SetPaperColor("menta")
	d.SetPaperColor("not-a-color")
	if d.PaperColor != Palette[0] {
		t.Fatalf("paper color = %q, expected default after invalid set", d.PaperColor)
	}
	d.SetPaperColor(Cielo)
	d.SetInvoiceNumber("2026-042")
	date, err := ParseDate("2026-08-30")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	d.SetDate(date)
	d.SetFromName("Studio Rossi")
	d.SetToAddress("Via Roma 1\nMilano")
	d.SetNote("pagamento a 30gg")

	if d.PaperColor != Cielo || d.InvoiceNumber != "2026-042" || d.Date.String() != "2026-08-30" {
		t.Fatalf("unexpected header: %+v", d)
	}
	if d.FromName != "Studio Rossi" || d.ToAddress != "Via Roma 1\nMilano" || d.Note != "pagamento a 30gg" {
		t.Fatalf("unexpected texts: %+v", d)
	}
}

func TestSignature(t *testing.T) {
	d := NewDraft()
	d.SetSignature("data:image/png;base64,AAAA")
	if d.Signature == "" {
		t.Fatal("signature not set")
	}
	d.SetSignature("data:image/png;base64,BBBB")
	if d.Signature != "data:image/png;base64,BBBB" {
		t.Fatal("new signature did not supersede the old one")
	}
	d.RemoveSignature()
	if d.Signature != "" {
		t.Fatal("signature not removed")
	}
}

func TestDraftNormalize(t *testing.T) {
	d := Draft{
		PaperColor: "plaid",
		Items: []LineItem{
			{ID: "", Quantity: -4, Price: Money{Cents: -100}},
			{ID: "keep", Quantity: 2, Price: Money{Cents: 500}},
		},
	}
	d.Normalize()
	if d.PaperColor != Palette[0] {
		t.Fatalf("paper color = %q after normalize", d.PaperColor)
	}
	if d.Items[0].ID == "" {
		t.Fatal("missing item id not regenerated")
	}
	if d.Items[0].Quantity != 1 || d.Items[0].Price.Cents != 0 {
		t.Fatalf("negative quantity/price not clamped: %+v", d.Items[0])
	}
	if d.Items[1].Quantity != 2 || d.Items[1].Price.Cents != 500 {
		t.Fatalf("valid item altered: %+v", d.Items[1])
	}
	if d.Date.IsZero() {
		t.Fatal("zero date not defaulted")
	}

	empty := Draft{}
	empty.Normalize()
	if len(empty.Items) != 1 {
		t.Fatalf("empty item list not repaired: %d items", len(empty.Items))
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("30/08/2026"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatal("expected error for empty date")
	}
	d, err := ParseDate("2026-02-28")
	if err != nil || d.String() != "2026-02-28" {
		t.Fatalf("round trip failed: %v %q", err, d.String())
	}
}
