package memory

import (
	"context"
	"testing"

	"fattura/internal/core"
)

func TestLoadAbsent(t *testing.T) {
	s := New("k")
	_, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected no draft in a fresh store")
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := New("k")
	d := core.NewDraft()
	d.SetInvoiceNumber("2026-001")
	d.SetItemPrice(d.Items[0].ID, core.Money{Cents: 999})

	if err := s.Save(context.Background(), d); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.InvoiceNumber != "2026-001" || got.Items[0].Price.Cents != 999 {
		t.Fatalf("unexpected draft: %+v", got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := New("k")
	ctx := context.Background()

	d := core.NewDraft()
	d.SetNote("prima")
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}
	d.SetNote("seconda")
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, _ := s.Load(ctx)
	if !ok || got.Note != "seconda" {
		t.Fatalf("expected the later snapshot, got %+v", got)
	}
}

func TestCorruptPayloadReadsAsAbsent(t *testing.T) {
	s := New("k")
	if err := s.Save(context.Background(), core.NewDraft()); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Corrupt()
	_, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("corrupt payload should read as absent")
	}
}
