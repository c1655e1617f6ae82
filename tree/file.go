package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuapare/treekit/pkg/types"
)

// FileFormat identifies store files written by this package.
const FileFormat = "treekit/1"

// storeFile is the on-disk layout of a store: a small header and the
// document as a nested node tree.
type storeFile struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	Seq    uint64 `json:"seq"`
	NextID int    `json:"next_id"`
	Root   Node   `json:"root"`
}

// Marshal encodes the store as indented JSON.
func (d *Data) Marshal() ([]byte, error) {
	return json.MarshalIndent(storeFile{
		Format: FileFormat,
		Name:   d.name,
		Seq:    d.seq,
		NextID: d.nextID,
		Root:   d.Snapshot(),
	}, "", "  ")
}

// Unmarshal decodes a store previously encoded with Marshal.
func Unmarshal(data []byte) (*Data, error) {
	var sf storeFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, types.Format("decode store", err)
	}
	if sf.Format != FileFormat {
		return nil, types.Format(fmt.Sprintf("unsupported store format %q", sf.Format), nil)
	}
	d, err := FromSnapshot(sf.Name, sf.Root)
	if err != nil {
		return nil, err
	}
	d.seq = sf.Seq
	if sf.NextID > d.nextID {
		d.nextID = sf.NextID
	}
	return d, nil
}

// Load reads a store file.
func Load(path string) (*Data, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}
	d, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Save writes the store to path atomically.
func (d *Data) Save(path string) error {
	buf, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return writeFileAtomic(path, buf)
}

// writeFileAtomic writes buf to path via temp file + fsync + rename, so a
// reader sees either the old or the new file, never a partial one.
func writeFileAtomic(path string, buf []byte) error {
	// Temp file in the same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".treekit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(buf); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
