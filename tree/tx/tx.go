// Package tx provides transactions around modifications of a file-backed
// tree store.
//
// The update engine assumes exclusive access to the store while it applies a
// batch, and a failed batch may leave the store partially updated. The
// transaction manager provides the outer guarantees the engine does not:
//
//  1. Begin() - take an exclusive lock on the store file, keep a copy of the
//     current state and bump the update sequence
//  2. [apply a batch]
//  3. Commit() - write the store atomically and release the lock
//     or Rollback() - restore the saved copy and release the lock
package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshuapare/treekit/tree"
)

// ErrLocked indicates another process holds the store lock.
var ErrLocked = errors.New("tx: store is locked by another process")

// Manager handles locking, sequence numbers and rollback copies for one store.
//
// The manager is NOT thread-safe. Only one goroutine should use it at a time.
type Manager struct {
	d      *tree.Data // store being modified
	path   string     // backing file, "" for in-memory stores
	lock   *fileLock  // held between Begin and Commit/Rollback
	backup *tree.Data // state at Begin, restored by Rollback
	seq    uint64     // sequence number of the active transaction
	inTx   bool
}

// NewManager creates a transaction manager for d. If path is empty, the
// store is treated as in-memory: no lock is taken and Commit does not write.
func NewManager(d *tree.Data, path string) *Manager {
	return &Manager{d: d, path: path}
}

// Begin starts a new transaction.
//
// This method:
//  1. Acquires an exclusive lock on the store file (fails fast with ErrLocked)
//     and re-reads the file, so the transaction starts from what the previous
//     lock holder committed. Unsaved changes to the in-memory store are lost.
//  2. Clones the store for Rollback
//  3. Increments the update sequence
//  4. Clears the dirty tracker so it records only this transaction
//
// If Begin() is called while already in a transaction, it's a no-op.
func (m *Manager) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.inTx {
		return nil
	}

	if m.path != "" {
		l, err := acquire(m.path)
		if err != nil {
			return err
		}
		current, err := tree.Load(m.path)
		if err != nil {
			_ = l.release()
			return fmt.Errorf("reload store: %w", err)
		}
		m.d.Restore(current)
		m.lock = l
	}

	m.backup = m.d.Clone()
	m.seq = m.d.BumpSeq()
	m.d.Dirty().Reset()
	m.inTx = true
	return nil
}

// Commit writes the store (file-backed stores only) and releases the lock.
// If the write fails the transaction stays open so the caller can Rollback.
//
// If Commit() is called without an active transaction, it's a no-op.
func (m *Manager) Commit(ctx context.Context) error {
	if !m.inTx {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.path != "" {
		if err := m.d.Save(m.path); err != nil {
			return fmt.Errorf("save store: %w", err)
		}
	}

	m.finish()
	return nil
}

// Rollback restores the store to its state at Begin and releases the lock.
// The restored state includes the sequence number.
func (m *Manager) Rollback() {
	if !m.inTx {
		return
	}
	m.d.Restore(m.backup)
	m.finish()
}

func (m *Manager) finish() {
	if m.lock != nil {
		_ = m.lock.release()
		m.lock = nil
	}
	m.backup = nil
	m.inTx = false
}

// InTransaction returns whether a transaction is currently active.
func (m *Manager) InTransaction() bool {
	return m.inTx
}

// CurrentSequence returns the sequence number of the last transaction begun.
func (m *Manager) CurrentSequence() uint64 {
	return m.seq
}

// Data returns the managed store.
func (m *Manager) Data() *tree.Data {
	return m.d
}
