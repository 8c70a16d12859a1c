package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"echolab.io/audioscribe/internal/core"
	"echolab.io/audioscribe/internal/store"
	"echolab.io/audioscribe/internal/upload"
)

type APIHandler struct {
	recordings *core.RecordingService
	intake     upload.Intake
}

func NewAPIHandler(rs *core.RecordingService, intake upload.Intake) *APIHandler {
	return &APIHandler{recordings: rs, intake: intake}
}

// UploadTranscribeHandler runs the full pipeline for one upload and
// responds with the assembled recording (raw audio bytes excluded).
func (h *APIHandler) UploadTranscribeHandler(w http.ResponseWriter, r *http.Request) {
	file, err := h.intake.Receive(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() {
		if err := file.Cleanup(); err != nil {
			log.Printf("Error cleaning up upload %s: %v", file.Filename, err)
		}
	}()

	rec, err := h.recordings.ProcessUpload(file)
	if err != nil {
		log.Printf("Error processing upload %s: %v", file.Filename, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UploadAudioHandler stores the raw upload without running the pipeline.
func (h *APIHandler) UploadAudioHandler(w http.ResponseWriter, r *http.Request) {
	file, err := h.intake.Receive(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() {
		if err := file.Cleanup(); err != nil {
			log.Printf("Error cleaning up upload %s: %v", file.Filename, err)
		}
	}()

	rec, err := h.recordings.SaveUpload(file)
	if err != nil {
		log.Printf("Error saving upload %s: %v", file.Filename, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Audio uploaded successfully.",
		"id":      rec.ID,
	})
}

func (h *APIHandler) ListRecordingsHandler(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.recordings.ListRecordings()
	if err != nil {
		log.Printf("Error listing recordings: %v", err)
		writeError(w, err)
		return
	}
	if recordings == nil {
		recordings = []store.Recording{}
	}
	writeJSON(w, http.StatusOK, recordings)
}

func (h *APIHandler) GetRecordingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.recordings.GetRecording(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *APIHandler) DeleteRecordingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.recordings.DeleteRecording(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recording deleted successfully."})
}

func (h *APIHandler) UpdateRecordingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.recordings.UpdateRecording(id, fields); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recording updated successfully."})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the tagged error variants onto HTTP statuses: caller
// input problems are 400, missing resources 404, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, upload.ErrNoFile),
		errors.Is(err, core.ErrInvalidID),
		errors.Is(err, core.ErrNoUpdatableFields):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
