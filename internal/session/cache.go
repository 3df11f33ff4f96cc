package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/stocksage/sage/pkg/sageapi"
)

// userCache is the JSON structure of the cached user snapshot.
type userCache struct {
	User    sageapi.User `json:"user"`
	SavedAt int64        `json:"saved_at"`
}

// SaveUser writes the user snapshot to path.
// Creates parent directories if needed with 0700 permissions.
// The file is written with 0600 permissions.
func SaveUser(path string, user *sageapi.User) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(userCache{User: *user, SavedAt: time.Now().Unix()})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// LoadUser reads the user snapshot from path.
func LoadUser(path string) (*sageapi.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cache userCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, &sageapi.ParseError{What: "session cache", Err: err}
	}
	return &cache.User, nil
}

// DeleteUser removes the snapshot. A missing file is not an error.
func DeleteUser(path string) error {
	err := os.Remove(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
