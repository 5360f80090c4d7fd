/*
documents.go - Document upload and retrieval handlers

PURPOSE:
  Lets the landlord attach files (lease agreements, citizenship copies,
  meter readings) to a property or a tenant. Blobs go to storage/,
  metadata to the documents table.

ENDPOINTS:
  POST   /api/documents              Upload (multipart: file, owner_kind, owner_id)
  GET    /api/documents              List for an owner (?owner_kind=&owner_id=)
  GET    /api/documents/{id}/file    Stream the blob
  DELETE /api/documents/{id}        Delete blob and metadata

UPLOAD LIMITS:
  32 MiB per request. Scanned agreements run a few MiB; anything larger
  is a mistake.

SEE ALSO:
  - storage/: Blob storage interface and local implementation
*/
package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gharbeti/rentroll/store/sqlite"
)

const maxUploadBytes = 32 << 20

// UploadDocument stores an uploaded file against a property or tenant.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	ownerKind := r.FormValue("owner_kind")
	ownerID := r.FormValue("owner_id")
	if ownerKind != "property" && ownerKind != "tenant" {
		writeError(w, http.StatusBadRequest, "owner_kind must be 'property' or 'tenant'", nil)
		return
	}
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "owner_id is required", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	id := uuid.NewString()
	key := fmt.Sprintf("%s/%s/%s%s", ownerKind, ownerID, id, filepath.Ext(header.Filename))

	url, err := h.Files.Save(ctx, key, file, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store file", err)
		return
	}

	doc := sqlite.Document{
		ID:          id,
		OwnerKind:   ownerKind,
		OwnerID:     ownerID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		StorageKey:  key,
		URL:         url,
	}
	if err := h.Store.SaveDocument(ctx, doc); err != nil {
		// Orphaned blob is harmless, the metadata row is the source of truth
		h.Files.Delete(ctx, key)
		writeError(w, http.StatusInternalServerError, "Failed to save document", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentDTO(doc))
}

// ListDocuments returns document metadata for one owner.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerKind := r.URL.Query().Get("owner_kind")
	ownerID := r.URL.Query().Get("owner_id")
	if ownerKind == "" || ownerID == "" {
		writeError(w, http.StatusBadRequest, "owner_kind and owner_id are required", nil)
		return
	}

	docs, err := h.Store.ListDocuments(r.Context(), ownerKind, ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	dtos := make([]DocumentDTO, len(docs))
	for i, d := range docs {
		dtos[i] = toDocumentDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DownloadDocument streams a stored file back to the client.
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.Store.GetDocument(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get document", err)
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "Document not found", nil)
		return
	}

	blob, err := h.Files.Open(ctx, doc.StorageKey)
	if err != nil {
		writeError(w, http.StatusNotFound, "File missing from storage", err)
		return
	}
	defer blob.Close()

	if doc.ContentType != "" {
		w.Header().Set("Content-Type", doc.ContentType)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	io.Copy(w, blob)
}

// DeleteDocument removes a document's blob and metadata.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.Store.GetDocument(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get document", err)
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "Document not found", nil)
		return
	}

	if err := h.Files.Delete(ctx, doc.StorageKey); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete file", err)
		return
	}
	if err := h.Store.DeleteDocument(ctx, doc.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
