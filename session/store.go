package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// State is what survives a restart.
type State struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Store is the durable side of the holder.
type Store interface {
	Load() (*State, error)
	Save(State) error
	Clear() error
}

// FileStore keeps the state as a JSON file readable only by the owner.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (*State, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	if st.Token == "" || st.Identity.ID == "" {
		return nil, errors.New("session file has no identity")
	}
	return &st, nil
}

// Save writes to a temp file and renames it, so a crash never leaves half a session behind.
func (f *FileStore) Save(st State) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
