package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fattura/internal/core"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d := s.svc.Current(r.Context())
	s.renderTemplate(w, r, "index.html", newPageView(d))
}

// handleSetFields applies any posted header fields to the draft. Unknown
// form keys are ignored; each recognized field is a whole-value replacement.
func (s *Server) handleSetFields(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	d := s.svc.Current(r.Context())
	if v, ok := r.PostForm["paperColor"]; ok && len(v) > 0 {
		d.SetPaperColor(core.PaperColor(strings.TrimSpace(v[0])))
	}
	if v, ok := r.PostForm["invoiceNumber"]; ok && len(v) > 0 {
		d.SetInvoiceNumber(sanitizeInput(v[0]))
	}
	if v, ok := r.PostForm["date"]; ok && len(v) > 0 {
		if date, err := core.ParseDate(strings.TrimSpace(v[0])); err == nil {
			d.SetDate(date)
		}
		// An unparseable date keeps the previous value; the input is a
		// native date picker, so this only happens to hand-crafted posts.
	}
	if v, ok := r.PostForm["fromName"]; ok && len(v) > 0 {
		d.SetFromName(sanitizeInput(v[0]))
	}
	if v, ok := r.PostForm["fromAddress"]; ok && len(v) > 0 {
		d.SetFromAddress(sanitizeInput(v[0]))
	}
	if v, ok := r.PostForm["toName"]; ok && len(v) > 0 {
		d.SetToName(sanitizeInput(v[0]))
	}
	if v, ok := r.PostForm["toAddress"]; ok && len(v) > 0 {
		d.SetToAddress(sanitizeInput(v[0]))
	}
	if v, ok := r.PostForm["note"]; ok && len(v) > 0 {
		d.SetNote(sanitizeInput(v[0]))
	}

	s.svc.Save(r.Context(), d)
	s.renderTemplate(w, r, "totals.html", newTotalsView(d))
}

// handleAddItem appends a fresh empty row and re-renders the items table.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	d := s.svc.Current(r.Context())
	li := d.AddItem()
	s.svc.Save(r.Context(), d)

	slog.InfoContext(r.Context(), "Line item added", "item_id", li.ID, "item_count", len(d.Items))
	s.renderTemplate(w, r, "items.html", newItemsView(d))
}

// handleUpdateItem replaces one field of one row. Quantity and price go
// through the coercion rules: empty or invalid entry becomes 1 and 0
// respectively, never an error.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	id := strings.TrimSpace(r.PostForm.Get("id"))
	d := s.svc.Current(r.Context())

	found := false
	if v, ok := r.PostForm["description"]; ok && len(v) > 0 {
		found = d.SetItemDescription(id, sanitizeInput(v[0])) || found
	}
	if v, ok := r.PostForm["quantity"]; ok && len(v) > 0 {
		found = d.SetItemQuantity(id, core.CoerceQuantity(v[0])) || found
	}
	if v, ok := r.PostForm["price"]; ok && len(v) > 0 {
		found = d.SetItemPrice(id, core.CoercePrice(v[0])) || found
	}
	if !found {
		slog.WarnContext(r.Context(), "Update for unknown line item", "item_id", id)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Riga non trovata</div>`))
		return
	}

	s.svc.Save(r.Context(), d)
	s.renderTemplate(w, r, "items.html", newItemsView(d))
}

// handleRemoveItem deletes a row, except the last one: the invoice always
// keeps at least one line and the removal quietly leaves it in place.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	id := strings.TrimSpace(r.PostForm.Get("id"))
	d := s.svc.Current(r.Context())
	switch err := d.RemoveItem(id); err {
	case nil:
		s.svc.Save(r.Context(), d)
		slog.InfoContext(r.Context(), "Line item removed", "item_id", id, "item_count", len(d.Items))
	case core.ErrLastItem:
		// No-op: render the unchanged table.
		slog.DebugContext(r.Context(), "Removal of last line item ignored", "item_id", id)
	case core.ErrUnknownItem:
		slog.WarnContext(r.Context(), "Removal of unknown line item", "item_id", id)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Riga non trovata</div>`))
		return
	}
	s.renderTemplate(w, r, "items.html", newItemsView(d))
}

// handleTotals re-renders the totals partial from the current draft.
func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	d := s.svc.Current(r.Context())
	s.renderTemplate(w, r, "totals.html", newTotalsView(d))
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(`<div class="error">Formato richiesta non valido</div>`))
}

// sanitizeInput removes control characters except tab, newline, carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
