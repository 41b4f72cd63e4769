// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/middleware"
	"reelprompt/internal/storage"
)

// maxReferenceSize caps style-reference image uploads at 10 MB.
const maxReferenceSize = 10 << 20

// allowedReferenceTypes are the image content types accepted for style
// references.
var allowedReferenceTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Uploads handles style-reference image uploads to object storage. The
// returned URL goes into the wizard draft's style_reference field.
type Uploads struct {
	storage *storage.Client // nil when storage is not configured
}

// NewUploads creates a new Uploads handler.
func NewUploads(storageClient *storage.Client) *Uploads {
	return &Uploads{storage: storageClient}
}

// StyleReference accepts a multipart image upload and returns its public URL.
func (h *Uploads) StyleReference(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	if h.storage == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Object storage is not configured."})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReferenceSize+1024)
	if err := r.ParseMultipartForm(maxReferenceSize); err != nil {
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large. Maximum size is 10 MB."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxReferenceSize {
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large. Maximum size is 10 MB."})
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, fmt.Errorf("read upload: %w", err))
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	ext, ok := allowedReferenceTypes[contentType]
	if !ok {
		respondBadRequest(w, "Unsupported image type. Use JPEG, PNG, or WebP.")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, fmt.Errorf("rewind upload: %w", err))
		return
	}

	key := fmt.Sprintf("refs/%s/%s%s", sess.UserID, uuid.New(), ext)
	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"url":      h.storage.FileURL(key),
		"filename": filepath.Base(header.Filename),
	})
}

// DeleteStyleReference removes an uploaded reference image by its URL.
// URLs outside this storage are rejected.
func (h *Uploads) DeleteStyleReference(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	if h.storage == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Object storage is not configured."})
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &req); err != nil || req.URL == "" {
		respondBadRequest(w, "url is required")
		return
	}

	key, ok := h.storage.ExtractKey(req.URL)
	if !ok || !strings.HasPrefix(key, "refs/"+sess.UserID.String()+"/") {
		respondBadRequest(w, "URL does not belong to your uploads.")
		return
	}

	if err := h.storage.Delete(r.Context(), key); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
