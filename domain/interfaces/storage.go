package interfaces

// SessionStore keeps an exported browser session between runs
type SessionStore interface {
	// SaveState stores an exported session
	SaveState(state []byte) error

	// LoadState returns the stored session, or nil when there is none
	LoadState() ([]byte, error)

	// Clear forgets the stored session
	Clear() error
}
