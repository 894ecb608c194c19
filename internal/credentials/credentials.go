// Package credentials is the opaque credential capability for outbound
// accounts: a JSON file in the user's home directory, keyed by email
// address. Transport settings live in the store; only the secret lives here.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	SavedAt  string `json:"saved_at"`
}

// Source resolves credentials by account email address. Absent credentials
// are reported as (zero, false, nil), not as an error.
type Source interface {
	Load(email string) (Credentials, bool, error)
}

type FileStore struct {
	path string
}

// NewFileStore opens the credential file at path, defaulting to
// ~/.jobtrack/email_creds.json when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".jobtrack")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create credential dir: %w", err)
		}
		path = filepath.Join(dir, "email_creds.json")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) read() (map[string]Credentials, error) {
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]Credentials{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]Credentials{}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse credential file: %w", err)
	}
	return data, nil
}

func (f *FileStore) write(data map[string]Credentials) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o600)
}

func (f *FileStore) Save(email, password string) error {
	data, err := f.read()
	if err != nil {
		return err
	}
	data[email] = Credentials{
		Email:    email,
		Password: password,
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	return f.write(data)
}

func (f *FileStore) Load(email string) (Credentials, bool, error) {
	data, err := f.read()
	if err != nil {
		return Credentials{}, false, err
	}
	c, ok := data[email]
	return c, ok, nil
}

func (f *FileStore) Delete(email string) error {
	data, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := data[email]; !ok {
		return nil
	}
	delete(data, email)
	return f.write(data)
}
