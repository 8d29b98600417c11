package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh item id. Version 7 UUIDs embed a millisecond timestamp
// and a monotonic counter, so ids also sort in creation order.
func (db *DB) NewID() string {
	for {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		s := id.String()
		if _, taken := db.find(s); !taken {
			return s
		}
	}
}

// CheckID rejects ids that cannot double as a file name: ids name export
// pages and must not contain path separators or be "." or "..".
func CheckID(id string) error {
	switch {
	case id == "":
		return errors.New("empty id")
	case id == "." || id == "..":
		return errors.New("reserved id")
	case strings.ContainsAny(id, `/\`):
		return errors.New("id contains a path separator")
	case strings.ContainsRune(id, 0):
		return errors.New("id contains a NUL byte")
	}
	return nil
}
