package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"notes_e2e/domain/interfaces"
)

// BrowserState keeps an exported browser session (cookies and local storage)
// in a JSON file so later browsing contexts can start logged in.
type BrowserState struct {
	statePath string
}

// DefaultStatePath - returns ~/.notes_e2e/state.json
func DefaultStatePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".notes_e2e", "state.json")
}

// NewBrowserState - creates session storage at statePath, or at DefaultStatePath when empty
func NewBrowserState(statePath string) *BrowserState {
	if statePath == "" {
		statePath = DefaultStatePath()
	}
	return &BrowserState{statePath: statePath}
}

// Path - returns the file the state is kept in
func (s *BrowserState) Path() string {
	return s.statePath
}

// SaveState - saves an exported session to file
func (s *BrowserState) SaveState(state []byte) error {
	if !json.Valid(state) {
		return fmt.Errorf("failed to save browser state: state is not valid JSON")
	}
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Write then rename so a reader never sees a half-written session
	tmp := s.statePath + ".tmp"
	if err := os.WriteFile(tmp, state, 0o600); err != nil {
		return fmt.Errorf("failed to write browser state: %w", err)
	}
	if err := os.Rename(tmp, s.statePath); err != nil {
		return fmt.Errorf("failed to store browser state: %w", err)
	}
	return nil
}

// LoadState - loads the saved session, or nil when none was saved
func (s *BrowserState) LoadState() ([]byte, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read browser state: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("browser state %s is corrupt", s.statePath)
	}
	return data, nil
}

// Clear - forgets the saved session
func (s *BrowserState) Clear() error {
	if err := os.Remove(s.statePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear browser state: %w", err)
	}
	return nil
}

var _ interfaces.SessionStore = (*BrowserState)(nil)
