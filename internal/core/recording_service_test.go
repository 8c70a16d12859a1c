package core

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echolab.io/audioscribe/internal/store"
	"echolab.io/audioscribe/internal/upload"
)

// fakeAI satisfies the AI contract with canned results, following the
// mock-provider pattern used for the transcription backends.
type fakeAI struct {
	transcription string
	completion    string
	title         string
	imageURL      string

	transcribeErr error
	completeErr   error
	titleErr      error
	imageErr      error
}

func (f *fakeAI) Transcribe(audio []byte, filename string) (string, error) {
	if f.transcribeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, f.transcribeErr)
	}
	return f.transcription, nil
}

func (f *fakeAI) Complete(prompt string) (string, error) {
	if f.completeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, f.completeErr)
	}
	return f.completion, nil
}

func (f *fakeAI) TitleFor(text string) (string, error) {
	if f.titleErr != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleGeneration, f.titleErr)
	}
	return f.title, nil
}

func (f *fakeAI) GenerateImage(prompt string) (string, error) {
	if f.imageErr != nil {
		return "", fmt.Errorf("%w: %v", ErrImageGeneration, f.imageErr)
	}
	return f.imageURL, nil
}

func happyAI() *fakeAI {
	return &fakeAI{
		transcription: "the transcription",
		completion:    "the chat response",
		title:         "The Title",
		imageURL:      "https://img.example/gen.png",
	}
}

func newTestService(t *testing.T, ai AI, keepAudio bool) (*RecordingService, *store.SQLiteStore) {
	t.Helper()
	dbStore, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbStore.Close() })
	return NewRecordingService(dbStore, ai, keepAudio), dbStore
}

func testUpload() *upload.File {
	return upload.NewMemoryFile("x.wav", "audio/wav", []byte("0123456789"))
}

func TestProcessUploadPersistsRecording(t *testing.T) {
	svc, dbStore := newTestService(t, happyAI(), false)

	rec, err := svc.ProcessUpload(testUpload())
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := dbStore.GetRecordingByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "the transcription", got.Transcription)
	assert.Equal(t, "the chat response", got.ChatResponse)
	assert.Equal(t, "https://img.example/gen.png", got.ImageURL)
	require.NotNil(t, got.Title)
	assert.Equal(t, "The Title", *got.Title)
	assert.Equal(t, "x.wav", got.AudioFilename)
	assert.Equal(t, "audio/wav", got.AudioContentType)
	assert.Empty(t, got.AudioData, "bytes are not kept unless configured")
}

func TestProcessUploadKeepsAudioWhenConfigured(t *testing.T) {
	svc, dbStore := newTestService(t, happyAI(), true)

	rec, err := svc.ProcessUpload(testUpload())
	require.NoError(t, err)

	got, err := dbStore.GetRecordingByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte("0123456789"), got.AudioData)
}

func TestProcessUploadTranscriptionFailureInsertsNothing(t *testing.T) {
	ai := happyAI()
	ai.transcribeErr = fmt.Errorf("provider unavailable")
	svc, dbStore := newTestService(t, ai, false)

	_, err := svc.ProcessUpload(testUpload())
	require.ErrorIs(t, err, ErrTranscription)

	recordings, err := dbStore.ListRecordings()
	require.NoError(t, err)
	assert.Empty(t, recordings)
}

func TestProcessUploadAbortsOnAnyStageFailure(t *testing.T) {
	ai := happyAI()
	ai.imageErr = fmt.Errorf("quota exceeded")
	svc, dbStore := newTestService(t, ai, false)

	_, err := svc.ProcessUpload(testUpload())
	require.ErrorIs(t, err, ErrImageGeneration)

	recordings, err := dbStore.ListRecordings()
	require.NoError(t, err)
	assert.Empty(t, recordings)
}

func TestSaveUploadStoresRawAudio(t *testing.T) {
	svc, dbStore := newTestService(t, happyAI(), false)

	rec, err := svc.SaveUpload(testUpload())
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := dbStore.GetRecordingByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x.wav", got.AudioFilename)
	assert.Equal(t, []byte("0123456789"), got.AudioData)
	assert.Empty(t, got.Transcription, "no pipeline ran, so no transcription is claimed")
}

func TestGetRecordingValidatesID(t *testing.T) {
	svc, _ := newTestService(t, happyAI(), false)

	_, err := svc.GetRecording("not-a-valid-object-id")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestGetRecordingNotFound(t *testing.T) {
	svc, _ := newTestService(t, happyAI(), false)

	_, err := svc.GetRecording("3f1f8b46-0000-4000-8000-2b4b6b6b6b6b")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecordingTwice(t *testing.T) {
	svc, _ := newTestService(t, happyAI(), false)

	rec, err := svc.SaveUpload(testUpload())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecording(rec.ID))
	require.ErrorIs(t, svc.DeleteRecording(rec.ID), ErrNotFound)
}

func TestUpdateRecordingFiltersFields(t *testing.T) {
	svc, dbStore := newTestService(t, happyAI(), false)

	rec, err := svc.SaveUpload(testUpload())
	require.NoError(t, err)

	// Allow-listed field applies; unknown and non-string fields are dropped.
	err = svc.UpdateRecording(rec.ID, map[string]interface{}{
		"title":         "New Title",
		"audioFilename": "evil.wav",
		"id":            "override-attempt",
		"size":          42,
	})
	require.NoError(t, err)

	got, err := dbStore.GetRecordingByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Title)
	assert.Equal(t, "New Title", *got.Title)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "x.wav", got.AudioFilename)
}

func TestUpdateRecordingRejectsEmptyPatch(t *testing.T) {
	svc, _ := newTestService(t, happyAI(), false)

	rec, err := svc.SaveUpload(testUpload())
	require.NoError(t, err)

	err = svc.UpdateRecording(rec.ID, map[string]interface{}{"size": 42})
	require.ErrorIs(t, err, ErrNoUpdatableFields)

	err = svc.UpdateRecording("bogus", map[string]interface{}{"title": "x"})
	require.ErrorIs(t, err, ErrInvalidID)
}
