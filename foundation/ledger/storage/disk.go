// Package storage handles all the lower level support for reading and
// writing the chain to disk.
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fleetchain/ledger/foundation/ledger"
)

// Disk represents the storage implementation for reading and storing the
// chain as a single human readable JSON file on disk. This implements the
// ledger.Storage interface. Writes overwrite the whole file; there is no
// locking against external writers to the same path.
type Disk struct {
	dbPath string
}

// NewDisk constructs a Disk value for use, creating the directory that will
// hold the chain file.
func NewDisk(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since the file is opened
// and closed on every read and write.
func (d *Disk) Close() error {
	return nil
}

// Save writes the full chain to disk, replacing any previous contents.
func (d *Disk) Save(blocks []ledger.Block) error {
	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(d.dbPath, data, 0600)
}

// Load reads the full chain from disk. A missing file is not an error: it
// reports an empty chain so the ledger can start fresh.
func (d *Disk) Load() ([]ledger.Block, error) {
	data, err := os.ReadFile(d.dbPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var blocks []ledger.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}
