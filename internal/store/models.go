package store

import "time"

// Recording is the persisted document for one processed audio upload and
// its derived artifacts. AudioData is never serialized into responses.
type Recording struct {
	ID               string    `json:"id"`
	Title            *string   `json:"title,omitempty"` // Nullable
	Transcription    string    `json:"transcription,omitempty"`
	ChatResponse     string    `json:"chatResponse,omitempty"`
	ImageURL         string    `json:"image,omitempty"`
	AudioFilename    string    `json:"audioFilename,omitempty"`
	AudioContentType string    `json:"audioContentType,omitempty"`
	AudioData        []byte    `json:"-"`
	UploadDate       time.Time `json:"date"`
}
