// Package announcement shows the station notice at most once per calendar day.
//
// The "already shown" marker is the announcementShown_<YYYY-MM-DD> key of local
// storage. It is only written after the notice text was read successfully, so a
// missing file keeps reporting the failure until it is fixed.
package announcement

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/techwave/datastation/internal/entities"
)

const (
	dateLayout = "2006-01-02"

	// LoadFailedText is shown instead of the notice when the file cannot be read.
	LoadFailedText = "Failed to load the announcement, please try again later"
)

var ErrNoSource = errors.New("announcement file is not configured")

// Storage is the subset of settings.Repository the gate needs.
type Storage interface {
	GetValue(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Notice is what the page shows. Show is false once today's notice was seen.
type Notice struct {
	Show   bool   `json:"show"`
	Text   string `json:"text,omitempty"`
	Failed bool   `json:"failed,omitempty"`
	Date   string `json:"date"`
}

type Gate struct {
	mu      sync.Mutex // serializes check-then-mark
	storage Storage
	path    string
	now     func() time.Time
}

// NewGate reads the notice from path. An empty path disables the notice.
func NewGate(storage Storage, path string) *Gate {
	return &Gate{storage: storage, path: path, now: time.Now}
}

// WithClock replaces the clock, used for day boundaries in tests.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Key is the local storage key marking the notice of the given day as shown.
func Key(day time.Time) string {
	return entities.SettingKeyAnnouncementPrefix + day.Format(dateLayout)
}

// Check returns today's notice and marks it shown. Later calls on the same day
// return Show=false.
func (g *Gate) Check() (Notice, error) {
	return g.notice(true)
}

// Peek returns today's notice without marking it shown.
func (g *Gate) Peek() (Notice, error) {
	return g.notice(false)
}

func (g *Gate) notice(mark bool) (Notice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.now()
	notice := Notice{Date: today.Format(dateLayout)}
	if g.path == "" {
		return notice, nil
	}

	key := Key(today)
	_, shown, err := g.storage.GetValue(key)
	if err != nil {
		return notice, fmt.Errorf("failed to read announcement marker: %w", err)
	}
	if shown {
		return notice, nil
	}

	text, err := g.read()
	if err != nil {
		log.Printf("[ANNOUNCEMENT] Failed to load %s: %v", g.path, err)
		notice.Show = true
		notice.Failed = true
		notice.Text = LoadFailedText
		return notice, nil
	}

	if mark {
		if err := g.storage.SetSetting(key, "true"); err != nil {
			return notice, fmt.Errorf("failed to mark announcement shown: %w", err)
		}
	}
	notice.Show = true
	notice.Text = text
	return notice, nil
}

func (g *Gate) read() (string, error) {
	if g.path == "" {
		return "", ErrNoSource
	}
	data, err := os.ReadFile(g.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
