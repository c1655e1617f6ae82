//go:build !unix

package tx

import (
	"errors"
	"fmt"
	"os"
)

// fileLock falls back to an exclusively created "<store>.lock" file.
type fileLock struct {
	path string
	f    *os.File
}

func acquire(storePath string) (*fileLock, error) {
	path := storePath + ".lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	return &fileLock{path: path, f: f}, nil
}

func (l *fileLock) release() error {
	err := l.f.Close()
	if rerr := os.Remove(l.path); err == nil {
		err = rerr
	}
	return err
}
