package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"fattura/internal/draft"
	"fattura/internal/pdf"
)

// handleExportJSON downloads the current snapshot as a JSON file.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	d := s.svc.Current(r.Context())
	payload, err := draft.EncodeSnapshot(d)
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot encode failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="fattura.json"`)
	_, _ = w.Write(payload)
}

// handleExportPDF renders the draft to a one-page PDF. Bytes are cached
// per save revision so repeated downloads of an unchanged draft skip the
// render.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	key := strconv.FormatInt(s.svc.Revision(), 10)
	bytes, ok := s.pdfCache.Get(key)
	if !ok {
		d := s.svc.Current(r.Context())
		var err error
		bytes, err = pdf.Render(d)
		if err != nil {
			slog.ErrorContext(r.Context(), "PDF render failed", "error", err)
			http.Error(w, "pdf rendering failed", http.StatusInternalServerError)
			return
		}
		s.pdfCache.Set(key, bytes)
		slog.DebugContext(r.Context(), "PDF rendered", "revision", key, "bytes", len(bytes))
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="fattura.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(bytes)))
	_, _ = w.Write(bytes)
}
