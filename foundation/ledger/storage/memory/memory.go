// Package memory implements the ledger.Storage interface with an in-memory
// chain copy. It exists for testing.
package memory

import (
	"sync"

	"github.com/fleetchain/ledger/foundation/ledger"
)

// Memory represents the storage implementation for keeping the chain in
// memory. This implements the ledger.Storage interface.
type Memory struct {
	mu     sync.Mutex
	blocks []ledger.Block
}

// New constructs an empty Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Save replaces the stored chain with a copy of the specified blocks.
func (m *Memory) Save(blocks []ledger.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = make([]ledger.Block, len(blocks))
	copy(m.blocks, blocks)

	return nil
}

// Load returns a copy of the stored chain.
func (m *Memory) Load() ([]ledger.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blocks := make([]ledger.Block, len(m.blocks))
	copy(blocks, m.blocks)

	return blocks, nil
}
