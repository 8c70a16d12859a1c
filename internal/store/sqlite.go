package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS recordings (
        id TEXT PRIMARY KEY, -- UUID
        title TEXT,
        transcription TEXT,
        chat_response TEXT,
        image_url TEXT,
        audio_filename TEXT,
        audio_content_type TEXT,
        audio_data BLOB,
        upload_date DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// mutableColumns is the allow-list for partial updates. The caller-facing
// names are the JSON field names; values are the backing columns.
var mutableColumns = map[string]string{
	"title":         "title",
	"transcription": "transcription",
	"chatResponse":  "chat_response",
	"image":         "image_url",
}

// InsertRecording assigns the id and upload date and persists the document.
// The id is generated exactly once here and never changes.
func (s *SQLiteStore) InsertRecording(rec *Recording) error {
	rec.ID = uuid.NewString()
	rec.UploadDate = time.Now().UTC()

	stmt, err := s.db.Prepare(`INSERT INTO recordings
        (id, title, transcription, chat_response, image_url, audio_filename, audio_content_type, audio_data, upload_date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare recording insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(rec.ID, rec.Title, rec.Transcription, rec.ChatResponse, rec.ImageURL,
		rec.AudioFilename, rec.AudioContentType, rec.AudioData, rec.UploadDate)
	if err != nil {
		return fmt.Errorf("failed to execute recording insert: %w", err)
	}
	return nil
}

// GetRecordingByID returns (nil, nil) when no recording has the given id.
func (s *SQLiteStore) GetRecordingByID(id string) (*Recording, error) {
	row := s.db.QueryRow(`SELECT id, title, transcription, chat_response, image_url,
        audio_filename, audio_content_type, audio_data, upload_date
        FROM recordings WHERE id = ?`, id)

	rec, err := scanRecording(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecordings() ([]Recording, error) {
	rows, err := s.db.Query(`SELECT id, title, transcription, chat_response, image_url,
        audio_filename, audio_content_type, audio_data, upload_date
        FROM recordings ORDER BY upload_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		rec, err := scanRecording(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recording row: %w", err)
		}
		recordings = append(recordings, *rec)
	}
	return recordings, rows.Err()
}

// DeleteRecording reports whether a recording with the given id existed.
func (s *SQLiteStore) DeleteRecording(id string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM recordings WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to execute recording delete: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// UpdateRecording applies a partial field merge restricted to the
// allow-list of mutable fields. It reports whether a row matched the id.
// Fields outside the allow-list are rejected by the caller before this point.
func (s *SQLiteStore) UpdateRecording(id string, fields map[string]string) (bool, error) {
	if len(fields) == 0 {
		return false, fmt.Errorf("no fields to update")
	}

	setClauses := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for name, value := range fields {
		column, ok := mutableColumns[name]
		if !ok {
			return false, fmt.Errorf("field %q is not updatable", name)
		}
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}
	args = append(args, id)

	query := "UPDATE recordings SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to execute recording update: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// IsMutableField reports whether a caller-supplied field name is in the
// partial-update allow-list.
func IsMutableField(name string) bool {
	_, ok := mutableColumns[name]
	return ok
}

func scanRecording(scan func(dest ...interface{}) error) (*Recording, error) {
	var rec Recording
	var title, transcription, chatResponse, imageURL, filename, contentType sql.NullString
	err := scan(&rec.ID, &title, &transcription, &chatResponse, &imageURL,
		&filename, &contentType, &rec.AudioData, &rec.UploadDate)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		rec.Title = &title.String
	}
	rec.Transcription = transcription.String
	rec.ChatResponse = chatResponse.String
	rec.ImageURL = imageURL.String
	rec.AudioFilename = filename.String
	rec.AudioContentType = contentType.String
	return &rec, nil
}
