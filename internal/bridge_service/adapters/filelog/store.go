// Package filelog implements the local append-log sink and the daily
// directory layout the deployment's data directory has always used:
//
//	data/YYYY_MM_<month>/DD-MM-YYYY_<weekday>/mensajes-DD-MM-YYYY.log
//
// Month and weekday names are Spanish, matching the existing archives.
package filelog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

var months = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var weekdays = [...]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// Store manages the dated directory tree under the base data directory and
// appends message, error, and application log entries to it.
type Store struct {
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore ensures the base data directory exists.
func NewStore(baseDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", baseDir, err)
	}
	return &Store{
		baseDir: baseDir,
		logger:  logger.With("component", "filelog"),
		now:     time.Now,
	}, nil
}

// DailyDir returns the directory for t's calendar date, creating the
// year-month and day levels as needed. Creation is idempotent.
func (s *Store) DailyDir(t time.Time) (string, error) {
	monthDir := fmt.Sprintf("%d_%02d_%s", t.Year(), int(t.Month()), months[int(t.Month())-1])
	dayDir := fmt.Sprintf("%02d-%02d-%d_%s", t.Day(), int(t.Month()), t.Year(), weekdays[int(t.Weekday())])
	dir := filepath.Join(s.baseDir, monthDir, dayDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create daily log directory %s: %w", dir, err)
	}
	return dir, nil
}

// MessageLogPath returns the message log file for t's date.
func (s *Store) MessageLogPath(t time.Time) (string, error) {
	dir, err := s.DailyDir(t)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("mensajes-%02d-%02d-%d.log", t.Day(), int(t.Month()), t.Year())), nil
}

// AppLogPath returns the application log file for t's date.
func (s *Store) AppLogPath(t time.Time) (string, error) {
	dir, err := s.DailyDir(t)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("whatsapp-log-%02d-%02d-%d.log", t.Day(), int(t.Month()), t.Year())), nil
}

// AppendRaw serializes v as indented JSON and appends it, with a record
// separator, to the message log of the current date.
func (s *Store) AppendRaw(v any) error {
	path, err := s.MessageLogPath(s.now())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("[mensaje no serializable: %v]", err))
	}
	return appendTo(path, append(data, []byte("\n---\n")...))
}

// AppendProcessingError records a failed event next to the day's logs so
// the message that broke processing can be inspected later.
func (s *Store) AppendProcessingError(procErr error, v any) error {
	dir, err := s.DailyDir(s.now())
	if err != nil {
		return err
	}
	data, jsonErr := json.MarshalIndent(v, "", "  ")
	if jsonErr != nil {
		data = []byte(fmt.Sprintf("[mensaje no serializable: %v]", jsonErr))
	}
	entry := fmt.Sprintf("--- ERROR %s ---\n%v\n--- MESSAGE OBJECT ---\n%s\n\n",
		s.now().UTC().Format(time.RFC3339), procErr, data)
	return appendTo(filepath.Join(dir, "error_messages.log"), []byte(entry))
}

func appendTo(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// DailyLogWriter is an io.Writer that appends to the current date's
// application log file. It lets the slog logger mirror into the data
// directory without knowing about the layout.
type DailyLogWriter struct {
	store *Store
}

// NewDailyLogWriter wraps a Store as an io.Writer.
func NewDailyLogWriter(store *Store) *DailyLogWriter {
	return &DailyLogWriter{store: store}
}

func (w *DailyLogWriter) Write(p []byte) (int, error) {
	path, err := w.store.AppLogPath(w.store.now())
	if err != nil {
		return 0, err
	}
	if err := appendTo(path, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
