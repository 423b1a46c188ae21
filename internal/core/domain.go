package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	Bianco PaperColor = "bianco"
	Avorio PaperColor = "avorio"
	Menta  PaperColor = "menta"
	Cielo  PaperColor = "cielo"
	Rosa   PaperColor = "rosa"

	// SchemaVersion is stamped into every persisted snapshot. Records
	// without the field are treated as version 1.
	SchemaVersion = 1
)

type (
	PaperColor string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// LineItem is one row of the invoice. IDs are opaque tokens, unique
	// within a draft.
	LineItem struct {
		ID          string
		Description string
		Quantity    int64
		Price       Money
	}

	// Draft is the single in-progress invoice document. It is mutated
	// field by field and persisted as a whole snapshot after every change.
	Draft struct {
		PaperColor    PaperColor
		Signature     string // data URL, empty when absent
		InvoiceNumber string
		Date          Date
		FromName      string
		FromAddress   string
		ToName        string
		ToAddress     string
		Items         []LineItem
		Note          string
	}
)

var (
	ErrUnknownItem   = errors.New("unknown line item")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrLastItem      = errors.New("cannot remove the last line item")
	ErrInvalidDate   = errors.New("invalid date")
)

// Palette is the fixed set of paper colors, in display order. The first
// entry is the default.
var Palette = []PaperColor{Bianco, Avorio, Menta, Cielo, Rosa}

// Normalize maps any value outside the palette to the default color.
func (p PaperColor) Normalize() PaperColor {
	for _, c := range Palette {
		if p == c {
			return c
		}
	}
	return Palette[0]
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date, truncated to midnight UTC.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate reads the 2006-01-02 form used by HTML date inputs and the
// persisted snapshot.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// NewDraft returns the default draft: first palette color, one empty line
// item, today's date, no signature.
func NewDraft() Draft {
	return Draft{
		PaperColor: Palette[0],
		Date:       Today(),
		Items:      []LineItem{NewLineItem()},
	}
}

// NewLineItem returns an empty item with a fresh unique id, quantity 1 and
// price 0.
func NewLineItem() LineItem {
	return LineItem{ID: uuid.NewString(), Quantity: 1}
}

// Total is the derived per-row amount, quantity times unit price.
func (li LineItem) Total() Money {
	return Money{Cents: li.Quantity * li.Price.Cents}
}

// AddItem appends a fresh empty line item and returns it.
func (d *Draft) AddItem() LineItem {
	li := NewLineItem()
	d.Items = append(d.Items, li)
	return li
}

// RemoveItem deletes the item with the given id. Removing the last
// remaining item is a no-op: the list never drops below one entry.
func (d *Draft) RemoveItem(id string) error {
	if len(d.Items) <= 1 {
		return ErrLastItem
	}
	for i, li := range d.Items {
		if li.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return nil
		}
	}
	return ErrUnknownItem
}

func (d *Draft) item(id string) *LineItem {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return &d.Items[i]
		}
	}
	return nil
}

// SetItemDescription replaces the description of the matching item.
// Reports whether the id was found.
func (d *Draft) SetItemDescription(id, desc string) bool {
	li := d.item(id)
	if li == nil {
		return false
	}
	li.Description = desc
	return true
}

// SetItemQuantity replaces the quantity of the matching item.
func (d *Draft) SetItemQuantity(id string, qty int64) bool {
	li := d.item(id)
	if li == nil {
		return false
	}
	li.Quantity = qty
	return true
}

// SetItemPrice replaces the unit price of the matching item.
func (d *Draft) SetItemPrice(id string, price Money) bool {
	li := d.item(id)
	if li == nil {
		return false
	}
	li.Price = price
	return true
}

// SetSignature replaces the signature slot wholesale. A new upload simply
// supersedes whatever was there.
func (d *Draft) SetSignature(dataURL string) { d.Signature = dataURL }

// RemoveSignature clears the signature slot.
func (d *Draft) RemoveSignature() { d.Signature = "" }

func (d *Draft) SetPaperColor(p PaperColor) { d.PaperColor = p.Normalize() }
func (d *Draft) SetInvoiceNumber(s string)  { d.InvoiceNumber = s }
func (d *Draft) SetDate(date Date)          { d.Date = date }
func (d *Draft) SetFromName(s string)       { d.FromName = s }
func (d *Draft) SetFromAddress(s string)    { d.FromAddress = s }
func (d *Draft) SetToName(s string)         { d.ToName = s }
func (d *Draft) SetToAddress(s string)      { d.ToAddress = s }
func (d *Draft) SetNote(s string)           { d.Note = s }

// Normalize repairs a draft after loading a snapshot: out-of-palette color
// falls back to the default, an empty item list gets one default item,
// missing item ids are regenerated, and negative quantities and prices are
// clamped to 1 and 0 respectively.
func (d *Draft) Normalize() {
	d.PaperColor = d.PaperColor.Normalize()
	if len(d.Items) == 0 {
		d.Items = []LineItem{NewLineItem()}
	}
	for i := range d.Items {
		if d.Items[i].ID == "" {
			d.Items[i].ID = uuid.NewString()
		}
		if d.Items[i].Quantity < 1 {
			d.Items[i].Quantity = 1
		}
		if d.Items[i].Price.Cents < 0 {
			d.Items[i].Price = Money{}
		}
	}
	if d.Date.IsZero() {
		d.Date = Today()
	}
}
