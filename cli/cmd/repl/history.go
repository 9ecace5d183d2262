package repl

import (
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// baseHistory is the history database file name inside the cache dir.
const baseHistory = "history.db"

// HistoryEntry is one submitted REPL input, persisted through GORM.
type HistoryEntry struct {
	ID        uint `gorm:"primarykey"`
	Line      string
	Mode      inputMode
	CreatedAt time.Time
}

// History manages command history backed by a sqlite database. Entries are
// kept in memory for navigation and written through to the database on
// every submission.
type History struct {
	db      *gorm.DB
	entries []HistoryEntry
	mu      sync.RWMutex
}

// OpenHistory opens (creating if necessary) the history database at path
// and loads all prior entries.
func OpenHistory(path string) (*History, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&HistoryEntry{}); err != nil {
		return nil, err
	}

	h := &History{db: db}
	if err := h.Load(); err != nil {
		return nil, err
	}

	return h, nil
}

// Load replaces the in-memory entries with the database contents in
// insertion order.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	return h.db.Order("id").Find(&h.entries).Error
}

// Write appends a new eval-mode entry.
func (h *History) Write(entry string) (int, error) {
	return h.WriteWithMode(entry, modeEval)
}

// WriteWithMode appends a new entry with the specified mode. Consecutive
// duplicates are skipped and an earlier duplicate (same line and mode) is
// moved to the end.
func (h *History) WriteWithMode(entry string, mode inputMode) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) > 0 {
		last := h.entries[len(h.entries)-1]
		if last.Line == entry && last.Mode == mode {
			return len(entry), nil
		}
	}

	// Move an existing duplicate to the end rather than storing it twice.
	for i := range h.entries {
		if h.entries[i].Line == entry && h.entries[i].Mode == mode {
			err := h.db.Delete(&HistoryEntry{}, h.entries[i].ID).Error
			if err != nil {
				return 0, err
			}

			h.entries = append(h.entries[:i], h.entries[i+1:]...)

			break
		}
	}

	row := HistoryEntry{Line: entry, Mode: mode}

	if err := h.db.Create(&row).Error; err != nil {
		return 0, err
	}

	h.entries = append(h.entries, row)

	return len(entry), nil
}

// GetEntry returns the entry at index i in insertion order.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	db, err := h.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
