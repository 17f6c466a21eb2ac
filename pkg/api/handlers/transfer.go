// Package handlers implements the HTTP handlers for the relay API.
//
// Handlers are the error boundary: service errors are mapped onto the
// response envelope here and never bubble further.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/transfer"
)

// maxInfoPartSize bounds the JSON info part of an upload.
const maxInfoPartSize = 4 << 10

// TransferHandler exposes the transfer state machine over HTTP.
type TransferHandler struct {
	svc *transfer.Service
}

// NewTransferHandler creates a transfer handler.
func NewTransferHandler(svc *transfer.Service) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// IssueID handles GET /id?file_name=&file_size=.
func (h *TransferHandler) IssueID(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("file_name")

	fileSize := uint64(0)
	if raw := r.URL.Query().Get("file_size"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			Fail(w, http.StatusBadRequest, "Invalid Parameter: file_size")
			return
		}
		fileSize = parsed
	}

	id, err := h.svc.IssueID(fileName, fileSize)
	if err != nil {
		writeTransferError(w, err)
		return
	}

	OK(w, map[string]string{"id": id})
}

// Status handles GET /{id}/status.
func (h *TransferHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status, err := h.svc.Status(id)
	if err != nil {
		writeTransferError(w, err)
		return
	}

	OK(w, status)
}

// Upload handles POST /{id}/upload.
//
// The body is a two-part multipart form in fixed order: an "info" part
// carrying the block metadata JSON, then a "file" part carrying the
// raw bytes.
func (h *TransferHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	mr, err := r.MultipartReader()
	if err != nil {
		Fail(w, http.StatusBadRequest, "Bad Request: expected multipart body")
		return
	}

	info, ok := h.readInfoPart(w, mr)
	if !ok {
		return
	}

	data, ok := h.readFilePart(w, mr)
	if !ok {
		return
	}

	if err := h.svc.UploadBlock(id, info, data); err != nil {
		writeTransferError(w, err)
		return
	}

	OKMessage(w, "Upload Success")
}

func (h *TransferHandler) readInfoPart(w http.ResponseWriter, mr *multipart.Reader) (transfer.BlockInfo, bool) {
	var info transfer.BlockInfo

	part, err := mr.NextPart()
	if err == io.EOF {
		Fail(w, http.StatusBadRequest, "Bad Request: Missing info part")
		return info, false
	}
	if err != nil {
		Fail(w, http.StatusInternalServerError, "Internal Server Error")
		return info, false
	}
	if part.FormName() != "info" {
		Fail(w, http.StatusBadRequest, "First part must be info")
		return info, false
	}

	raw, err := io.ReadAll(io.LimitReader(part, maxInfoPartSize))
	if err != nil {
		Fail(w, http.StatusInternalServerError, "Failed to read info data")
		return info, false
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		Fail(w, http.StatusBadRequest, "Failed to parse info json")
		return info, false
	}
	return info, true
}

func (h *TransferHandler) readFilePart(w http.ResponseWriter, mr *multipart.Reader) ([]byte, bool) {
	part, err := mr.NextPart()
	if err == io.EOF {
		Fail(w, http.StatusBadRequest, "Missing file part")
		return nil, false
	}
	if err != nil {
		Fail(w, http.StatusInternalServerError, "Internal Server Error")
		return nil, false
	}
	if part.FormName() != "file" {
		Fail(w, http.StatusBadRequest, "Second part must be file")
		return nil, false
	}

	// Read one byte past the cap so oversized blocks are detected
	// without buffering arbitrary input.
	limit := int64(h.svc.Config().MaxBlockSize.Uint64()) + 1
	data, err := io.ReadAll(io.LimitReader(part, limit))
	if err != nil {
		Fail(w, http.StatusInternalServerError, "Failed to read file data")
		return nil, false
	}
	return data, true
}

// Download handles GET /{id}/file?rid=&start=.
//
// Successful responses are 206 Partial Content with the block bytes
// and a Content-Range header; consumption of the block is scheduled by
// the service off the response path.
func (h *TransferHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rid := r.URL.Query().Get("rid")
	if rid == "" {
		Fail(w, http.StatusBadRequest, "Missing Parameter: rid")
		return
	}

	rawStart := r.URL.Query().Get("start")
	if rawStart == "" {
		Fail(w, http.StatusBadRequest, "Missing Parameter: start")
		return
	}
	start, err := strconv.ParseUint(rawStart, 10, 64)
	if err != nil {
		Fail(w, http.StatusBadRequest, "Invalid Parameter: start")
		return
	}

	block, err := h.svc.DownloadBlock(r.Context(), id, rid, start)
	if err != nil {
		writeTransferError(w, err)
		return
	}

	w.Header().Set("Content-Name", block.Filename)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Range",
		fmt.Sprintf("bytes %d-%d/%d", block.Start, block.End, block.Total))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := w.Write(block.Data); err != nil {
		logger.Warn("block write failed", "id", id, "start", start, "error", err)
	}
}

// Done handles PUT /{id}/done.
func (h *TransferHandler) Done(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.MarkDone(id); err != nil {
		writeTransferError(w, err)
		return
	}

	OKMessage(w, "Download completion marked successfully")
}

// writeTransferError maps service sentinels onto the envelope.
func writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transfer.ErrIDNotFound):
		Fail(w, http.StatusNotFound, "Missing Access ID")
	case errors.Is(err, transfer.ErrAlreadyInUse):
		Fail(w, http.StatusBadRequest, "File already in use")
	case errors.Is(err, transfer.ErrWrongReceiver):
		Fail(w, http.StatusBadRequest, "Wrong Receive ID")
	case errors.Is(err, transfer.ErrInvalidRange):
		Fail(w, http.StatusBadRequest, "Invalid file range")
	case errors.Is(err, transfer.ErrFileTooLarge):
		Fail(w, http.StatusBadRequest, "File exceeds maximum allowed size")
	case errors.Is(err, transfer.ErrBlockTooLarge):
		Fail(w, http.StatusBadRequest, "Block size exceeds maximum limitation")
	case errors.Is(err, transfer.ErrBlockSizeMismatch):
		Fail(w, http.StatusBadRequest, "Block size mismatch")
	case errors.Is(err, transfer.ErrTooManyBlocks):
		Fail(w, http.StatusBadRequest, "Maximum number of blocks per file reached")
	case errors.Is(err, transfer.ErrWrongStart):
		Fail(w, http.StatusBadRequest, "Wrong start position")
	case errors.Is(err, transfer.ErrBlockNotReady):
		Fail(w, http.StatusTooEarly, "Block not ready")
	default:
		logger.Error("transfer operation failed", "error", err)
		Fail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
