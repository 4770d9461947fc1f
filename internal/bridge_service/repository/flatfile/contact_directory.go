package flatfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// ContactDirectory is the file-backed contact table. All access goes
// through the mutex; auto-registration from concurrent events is safe.
type ContactDirectory struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries []domain.ContactEntry
}

// NewContactDirectory loads the contact file. A missing file is not an
// error: the directory starts empty and the file is created on the first
// registration.
func NewContactDirectory(path string, logger *slog.Logger) (*ContactDirectory, error) {
	d := &ContactDirectory{
		path:   path,
		logger: logger.With("component", "contact_directory"),
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	d.logger.Info("Contact directory loaded", "path", path, "contacts", d.Len())
	return d, nil
}

// Reload re-reads the backing file, replacing the in-memory table.
func (d *ContactDirectory) Reload() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reloadLocked()
}

func (d *ContactDirectory) reloadLocked() error {
	records, err := readRecords(d.path, 2)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.entries = nil
			return nil
		}
		return err
	}
	entries := make([]domain.ContactEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.ContactEntry{DisplayName: rec[0], Number: rec[1]})
	}
	d.entries = entries
	return nil
}

// FindByNumber resolves a display name for a chat id or phone number.
//
// Matching strips everything but digits from both sides and accepts either
// suffix direction, so "5215551234" matches a stored "5551234" and the
// other way around. That tolerance is load-bearing for numbers stored
// without a country code, but it also means a very short stored number can
// match unrelated contacts; the behavior is kept as-is for compatibility
// with the existing contact files.
func (d *ContactDirectory) FindByNumber(number string) domain.ResolvedName {
	incoming := digitsOf(simpleNumber(number))
	if incoming == "" {
		return domain.ResolvedName{}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.entries {
		stored := digitsOf(e.Number)
		if stored == "" {
			continue
		}
		if strings.HasSuffix(incoming, stored) || strings.HasSuffix(stored, incoming) {
			return domain.ResolvedName{Name: e.DisplayName, Known: true}
		}
	}
	return domain.ResolvedName{}
}

// Register appends a (name, number) pair and reloads the table. The number
// is stored in its simple form, without the chat-server suffix. Registering
// a number that is already stored exactly is a no-op.
func (d *ContactDirectory) Register(ctx context.Context, name, number string) error {
	name = strings.TrimSpace(name)
	num := simpleNumber(strings.TrimSpace(number))
	if name == "" || num == "" {
		return fmt.Errorf("register contact: empty name or number")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.Number == num {
			return nil
		}
	}

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open contact file for append: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s:%s\n", name, num); err != nil {
		f.Close()
		return fmt.Errorf("append contact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close contact file: %w", err)
	}

	d.logger.InfoContext(ctx, "Unregistered contact added", "name", name, "number", num)

	if err := d.reloadLocked(); err != nil {
		return fmt.Errorf("reload after register: %w", err)
	}
	d.logger.InfoContext(ctx, "Contact directory reloaded", "contacts", len(d.entries))
	return nil
}

// Len reports the number of loaded entries.
func (d *ContactDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// simpleNumber strips the chat-server suffix: "5551234@g.us" -> "5551234".
func simpleNumber(number string) string {
	if i := strings.IndexByte(number, '@'); i >= 0 {
		return number[:i]
	}
	return number
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
