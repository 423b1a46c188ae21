package http

import (
	"log/slog"
	"net/http"

	"fattura/internal/core"
)

// View models passed to the templates. All currency strings carry exactly
// two decimals.

type itemView struct {
	ID          string
	Description string
	Quantity    int64
	Price       string
	Total       string
}

type totalsView struct {
	Subtotal   string
	GrandTotal string
}

type itemsView struct {
	Items     []itemView
	CanRemove bool
	Totals    totalsView
}

type signatureView struct {
	Signature string
}

type pageView struct {
	PaperColor    string
	Palette       []string
	InvoiceNumber string
	Date          string
	FromName      string
	FromAddress   string
	ToName        string
	ToAddress     string
	Note          string
	Items         itemsView
	Signature     signatureView
}

func newTotalsView(d core.Draft) totalsView {
	sum := d.Totals()
	return totalsView{
		Subtotal:   sum.Subtotal.FormatEuros(),
		GrandTotal: sum.GrandTotal.FormatEuros(),
	}
}

func newItemsView(d core.Draft) itemsView {
	v := itemsView{
		Items:     make([]itemView, 0, len(d.Items)),
		CanRemove: len(d.Items) > 1,
		Totals:    newTotalsView(d),
	}
	for _, li := range d.Items {
		v.Items = append(v.Items, itemView{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Price:       li.Price.Format(),
			Total:       li.Total().FormatEuros(),
		})
	}
	return v
}

func newPageView(d core.Draft) pageView {
	palette := make([]string, 0, len(core.Palette))
	for _, c := range core.Palette {
		palette = append(palette, string(c))
	}
	return pageView{
		PaperColor:    string(d.PaperColor),
		Palette:       palette,
		InvoiceNumber: d.InvoiceNumber,
		Date:          d.Date.String(),
		FromName:      d.FromName,
		FromAddress:   d.FromAddress,
		ToName:        d.ToName,
		ToAddress:     d.ToAddress,
		Note:          d.Note,
		Items:         newItemsView(d),
		Signature:     signatureView{Signature: d.Signature},
	}
}

// renderTemplate executes a template into the response, degrading to a
// plain 500 when the template set failed to parse at startup.
func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name, "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
