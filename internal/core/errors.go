package core

import "errors"

// Closed set of failure variants produced by the pipeline and store
// boundaries. Handlers match these with errors.Is to pick the HTTP status;
// anything wrapping none of them renders as a 500.
var (
	ErrInvalidID         = errors.New("invalid recording id")
	ErrNotFound          = errors.New("recording not found")
	ErrTranscription     = errors.New("transcription failed")
	ErrCompletion        = errors.New("chat completion failed")
	ErrTitleGeneration   = errors.New("title generation failed")
	ErrImageGeneration   = errors.New("image generation failed")
	ErrNoUpdatableFields = errors.New("no updatable fields in request")
)
