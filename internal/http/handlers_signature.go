package http

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Accepted signature image types, keyed by the sniffed content type.
var signatureTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// handleSignatureUpload reads an uploaded image file and embeds it into
// the draft as a data URL, replacing any previous signature. A new upload
// simply supersedes the old one.
func (s *Server) handleSignatureUpload(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxSignatureBytes+4096)
	if err := r.ParseMultipartForm(s.maxSignatureBytes); err != nil {
		slog.WarnContext(r.Context(), "Signature upload rejected", "error", err, "max_bytes", s.maxSignatureBytes)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">File troppo grande</div>`))
		return
	}

	file, header, err := r.FormFile("signature")
	if err != nil {
		slog.WarnContext(r.Context(), "Signature upload missing file", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Nessun file ricevuto</div>`))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, s.maxSignatureBytes+1))
	if err != nil {
		slog.ErrorContext(r.Context(), "Signature read failed", "error", err, "filename", header.Filename)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Lettura file fallita</div>`))
		return
	}
	if int64(len(raw)) > s.maxSignatureBytes {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">File troppo grande</div>`))
		return
	}

	contentType := http.DetectContentType(raw)
	if !signatureTypes[contentType] {
		slog.WarnContext(r.Context(), "Signature upload not an image", "content_type", contentType, "filename", header.Filename)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Il file non è un'immagine</div>`))
		return
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(raw))

	d := s.svc.Current(r.Context())
	d.SetSignature(dataURL)
	s.svc.Save(r.Context(), d)

	slog.InfoContext(r.Context(), "Signature attached",
		"content_type", contentType,
		"bytes", len(raw),
		"filename", header.Filename)
	s.renderTemplate(w, r, "signature.html", signatureView{Signature: d.Signature})
}

// handleSignatureRemove clears the signature slot.
func (s *Server) handleSignatureRemove(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	d := s.svc.Current(r.Context())
	d.RemoveSignature()
	s.svc.Save(r.Context(), d)

	slog.InfoContext(r.Context(), "Signature removed")
	s.renderTemplate(w, r, "signature.html", signatureView{})
}
