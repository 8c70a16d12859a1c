package core

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"echolab.io/audioscribe/internal/store"
	"echolab.io/audioscribe/internal/upload"
)

// RecordingService sequences the upload pipeline and mediates all access
// to the recordings store. Any adapter failure aborts the whole request;
// nothing is persisted on a failed pipeline.
type RecordingService struct {
	dbStore   *store.SQLiteStore
	ai        AI
	keepAudio bool
}

func NewRecordingService(db *store.SQLiteStore, ai AI, keepAudio bool) *RecordingService {
	return &RecordingService{
		dbStore:   db,
		ai:        ai,
		keepAudio: keepAudio,
	}
}

// ProcessUpload runs the full pipeline for one upload: transcribe, chat
// completion, title, image, then a single insert. The stages run strictly
// in this order.
func (s *RecordingService) ProcessUpload(file *upload.File) (*store.Recording, error) {
	audio, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	transcription, err := s.ai.Transcribe(audio, file.Filename)
	if err != nil {
		return nil, err
	}

	chatResponse, err := s.ai.Complete(transcription)
	if err != nil {
		return nil, err
	}

	title, err := s.ai.TitleFor(transcription)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.ai.GenerateImage(transcription)
	if err != nil {
		return nil, err
	}

	rec := &store.Recording{
		Title:            &title,
		Transcription:    transcription,
		ChatResponse:     chatResponse,
		ImageURL:         imageURL,
		AudioFilename:    file.Filename,
		AudioContentType: file.ContentType,
	}
	if s.keepAudio {
		rec.AudioData = audio
	}

	if err := s.dbStore.InsertRecording(rec); err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}
	log.Printf("Processed upload %s into recording %s", file.Filename, rec.ID)
	return rec, nil
}

// SaveUpload persists the raw upload without running any AI calls.
func (s *RecordingService) SaveUpload(file *upload.File) (*store.Recording, error) {
	audio, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	rec := &store.Recording{
		AudioFilename:    file.Filename,
		AudioContentType: file.ContentType,
		AudioData:        audio,
	}
	if err := s.dbStore.InsertRecording(rec); err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}
	return rec, nil
}

func (s *RecordingService) ListRecordings() ([]store.Recording, error) {
	return s.dbStore.ListRecordings()
}

func (s *RecordingService) GetRecording(id string) (*store.Recording, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	rec, err := s.dbStore.GetRecordingByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *RecordingService) DeleteRecording(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	deleted, err := s.dbStore.DeleteRecording(id)
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// UpdateRecording applies a caller-supplied partial field merge. Only the
// allow-listed mutable fields are applied; a payload carrying none of them
// is a caller error, not a silent no-op.
func (s *RecordingService) UpdateRecording(id string, fields map[string]interface{}) error {
	if err := validateID(id); err != nil {
		return err
	}

	updates := make(map[string]string)
	for name, value := range fields {
		text, ok := value.(string)
		if !ok || !store.IsMutableField(name) {
			continue
		}
		updates[name] = text
	}
	if len(updates) == 0 {
		return ErrNoUpdatableFields
	}

	matched, err := s.dbStore.UpdateRecording(id, updates)
	if err != nil {
		return fmt.Errorf("failed to update recording: %w", err)
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// validateID rejects malformed ids before they ever reach the store.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
