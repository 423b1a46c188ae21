package draft

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fattura/internal/core"
)

// The snapshot is the complete serialized draft written to storage on every
// change: one JSON object, field names fixed. Money travels as a
// two-decimal number and dates as 2006-01-02 strings, so the payload stays
// readable without losing cent precision.

type snapshot struct {
	SchemaVersion int            `json:"schemaVersion"`
	PaperColor    string         `json:"paperColor"`
	Signature     string         `json:"signature"`
	InvoiceNumber string         `json:"invoiceNumber"`
	Date          string         `json:"date"`
	FromName      string         `json:"fromName"`
	FromAddress   string         `json:"fromAddress"`
	ToName        string         `json:"toName"`
	ToAddress     string         `json:"toAddress"`
	Items         []snapshotItem `json:"items"`
	Note          string         `json:"note"`
}

type snapshotItem struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
	Price       jsonMoney `json:"price"`
}

// jsonMoney renders cents as a plain JSON number with two decimals and
// reads back both number and string forms.
type jsonMoney core.Money

func (m jsonMoney) MarshalJSON() ([]byte, error) {
	return []byte(core.Money(m).Format()), nil
}

func (m *jsonMoney) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return fmt.Errorf("price %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}

// EncodeSnapshot serializes the full draft, stamping the current schema
// version.
func EncodeSnapshot(d core.Draft) ([]byte, error) {
	s := snapshot{
		SchemaVersion: core.SchemaVersion,
		PaperColor:    string(d.PaperColor),
		Signature:     d.Signature,
		InvoiceNumber: d.InvoiceNumber,
		Date:          d.Date.String(),
		FromName:      d.FromName,
		FromAddress:   d.FromAddress,
		ToName:        d.ToName,
		ToAddress:     d.ToAddress,
		Items:         make([]snapshotItem, 0, len(d.Items)),
		Note:          d.Note,
	}
	for _, li := range d.Items {
		s.Items = append(s.Items, snapshotItem{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Price:       jsonMoney(li.Price),
		})
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses a stored payload back into a draft and normalizes
// it. Records without a schemaVersion field are treated as version 1.
func DecodeSnapshot(payload []byte) (core.Draft, error) {
	var s snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return core.Draft{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.SchemaVersion > core.SchemaVersion {
		return core.Draft{}, fmt.Errorf("snapshot schema version %d not supported", s.SchemaVersion)
	}

	d := core.Draft{
		PaperColor:    core.PaperColor(s.PaperColor),
		Signature:     s.Signature,
		InvoiceNumber: s.InvoiceNumber,
		FromName:      s.FromName,
		FromAddress:   s.FromAddress,
		ToName:        s.ToName,
		ToAddress:     s.ToAddress,
		Note:          s.Note,
	}
	if s.Date != "" {
		date, err := core.ParseDate(s.Date)
		if err != nil {
			return core.Draft{}, fmt.Errorf("snapshot date %q: %w", s.Date, err)
		}
		d.Date = date
	}
	for _, it := range s.Items {
		d.Items = append(d.Items, core.LineItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       core.Money(it.Price),
		})
	}
	d.Normalize()
	return d, nil
}
