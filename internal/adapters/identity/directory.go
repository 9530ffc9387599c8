package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// Directory is an in-memory IdentityGate used when no user service is configured.
type Directory struct {
	mu    sync.RWMutex
	users map[string]secondary.UserProfile
}

// NewDirectory creates a directory holding the given users.
func NewDirectory(users ...secondary.UserProfile) *Directory {
	d := &Directory{users: make(map[string]secondary.UserProfile, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// LoadDirectory reads a JSON array of {"id","name"|"nom","email"} objects.
// Ids may be strings or numbers; a later entry replaces an earlier one with the
// same id. An empty path yields an empty directory.
func LoadDirectory(path string) (*Directory, error) {
	if path == "" {
		return NewDirectory(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var entries []userDTO
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}

	d := NewDirectory()
	for i, e := range entries {
		id := rawID(e.ID)
		if id == "" {
			return nil, fmt.Errorf("users file %s: entry %d has no id: %w", path, i, sentinel.ErrValidation)
		}
		name := e.Name
		if name == "" {
			name = e.Nom
		}
		d.Put(secondary.UserProfile{ID: id, Name: name, Email: e.Email})
	}
	return d, nil
}

// Put adds or replaces a user.
func (d *Directory) Put(u secondary.UserProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// Len returns the number of known users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// Exists reports whether userID is in the directory.
func (d *Directory) Exists(_ context.Context, userID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[userID]
	return ok, nil
}

// GetUser returns a copy of the stored profile.
func (d *Directory) GetUser(_ context.Context, userID string) (*secondary.UserProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	return &u, nil
}

// Ensure Directory implements the interface
var _ secondary.IdentityGate = (*Directory)(nil)
