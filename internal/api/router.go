package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Upload pipeline routes
	r.Post("/upload-transcribe", apiHandler.UploadTranscribeHandler)
	r.Post("/upload-audio", apiHandler.UploadAudioHandler)

	// Recording routes
	r.Get("/audios", apiHandler.ListRecordingsHandler)
	r.Route("/audio-files", func(r chi.Router) {
		r.Get("/", apiHandler.ListRecordingsHandler)
		r.Get("/{id}", apiHandler.GetRecordingHandler)
		r.Delete("/{id}", apiHandler.DeleteRecordingHandler)
		r.Put("/{id}", apiHandler.UpdateRecordingHandler)
	})

	return r
}
