package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ExchangeLedger/internal/model"
)

// Store owns all live group ledgers. Each group has its own mutex, so
// operations on different groups never block each other while two
// operations on the same group always serialize.
//
// Committed ledgers are replaced wholesale (clone, mutate, swap); a stored
// *GroupLedger is never mutated in place, which keeps snapshot writes and
// concurrent readers race-free.
type Store struct {
	mu        sync.Mutex // guards groups and locks
	locks     map[int64]*sync.Mutex
	groups    map[int64]*model.GroupLedger
	statePath string
	snapMu    sync.Mutex // serializes snapshot file writes only
}

// New creates a Store, restoring any previously snapshotted state from
// statePath.
func New(statePath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(statePath), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	groups, err := loadSnapshot(statePath)
	if err != nil {
		return nil, err
	}
	return &Store{
		locks:     make(map[int64]*sync.Mutex),
		groups:    groups,
		statePath: statePath,
	}, nil
}

func (s *Store) lockFor(groupID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locks[groupID]; !ok {
		s.locks[groupID] = &sync.Mutex{}
	}
	return s.locks[groupID]
}

// get returns the group's ledger, lazily creating it. Caller holds mu.
func (s *Store) get(groupID int64) *model.GroupLedger {
	if led, ok := s.groups[groupID]; ok {
		return led
	}
	led := model.NewGroupLedger()
	s.groups[groupID] = led
	return led
}

// Update runs fn against a clone of the group's ledger under that group's
// lock. The clone replaces the stored ledger only when fn returns nil, so
// an error from fn rolls the whole mutation back.
func (s *Store) Update(groupID int64, fn func(*model.GroupLedger) error) error {
	lock := s.lockFor(groupID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	work := s.get(groupID).Clone()
	s.mu.Unlock()

	if err := fn(work); err != nil {
		return err
	}

	// Marshal under the map lock, write outside it: the disk write must not
	// block mutations on other groups.
	s.mu.Lock()
	s.groups[groupID] = work
	data, err := marshalSnapshot(s.groups)
	s.mu.Unlock()
	if err == nil {
		s.snapMu.Lock()
		err = writeSnapshot(s.statePath, data)
		s.snapMu.Unlock()
	}
	if err != nil {
		// The per-day log append already made the mutation durable; a stale
		// snapshot only costs recovery fidelity, so don't fail the operation.
		log.Printf("[WARN] save state snapshot: %v", err)
	}
	return nil
}

// View runs fn against the group's current ledger under that group's lock.
// fn must not mutate the ledger.
func (s *Store) View(groupID int64, fn func(*model.GroupLedger)) {
	lock := s.lockFor(groupID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	led := s.get(groupID)
	s.mu.Unlock()

	fn(led)
}

// Groups lists every group id currently present.
func (s *Store) Groups() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	return ids
}
