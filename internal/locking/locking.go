// Package locking serialises read-modify-write cycles on warehouses and items.
//
// Every aggregate has its own mutex. A Session acquires them in one global order,
// warehouses before items and ascending by number within each kind, so two sessions
// can never wait on each other in a cycle.
package locking

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrOutOfOrder is returned when a session tries to take a key that sorts before one it already holds.
var ErrOutOfOrder = errors.New("lock acquired out of order")

// Kind is the aggregate type a key refers to.
type Kind int

const (
	KindWarehouse Kind = iota
	KindItem
)

// Key names one lockable aggregate.
type Key struct {
	Kind Kind
	No   int64
}

// WarehouseKey returns the key of a warehouse.
func WarehouseKey(wareNo int64) Key {
	return Key{Kind: KindWarehouse, No: wareNo}
}

// ItemKey returns the key of an item.
func ItemKey(itemNo int64) Key {
	return Key{Kind: KindItem, No: itemNo}
}

// WarehouseKeys maps warehouse numbers to keys.
func WarehouseKeys(wareNos ...int64) []Key {
	keys := make([]Key, len(wareNos))
	for i, no := range wareNos {
		keys[i] = WarehouseKey(no)
	}
	return keys
}

// ItemKeys maps item numbers to keys.
func ItemKeys(itemNos ...int64) []Key {
	keys := make([]Key, len(itemNos))
	for i, no := range itemNos {
		keys[i] = ItemKey(no)
	}
	return keys
}

func (k Key) less(o Key) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.No < o.No
}

func (k Key) String() string {
	if k.Kind == KindWarehouse {
		return fmt.Sprintf("warehouse:%d", k.No)
	}
	return fmt.Sprintf("item:%d", k.No)
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// Table hands out per-aggregate mutexes. Entries are dropped once no session references them.
type Table struct {
	mu    sync.Mutex
	locks map[Key]*entry
}

// NewTable creates an empty lock table.
func NewTable() *Table {
	return &Table{locks: make(map[Key]*entry)}
}

// Session begins a new set of acquisitions.
func (t *Table) Session() *Session {
	return &Session{table: t, held: make(map[Key]*entry)}
}

func (t *Table) ref(k Key) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.locks[k]
	if !ok {
		e = &entry{}
		t.locks[k] = e
	}
	e.refs++
	return e
}

func (t *Table) unref(k Key, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(t.locks, k)
	}
}

func (t *Table) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}

// Session holds the locks taken for one logical operation. It is not safe for concurrent use.
type Session struct {
	table *Table
	held  map[Key]*entry
	order []Key
}

// Acquire locks the given keys in global order. Keys already held are skipped.
// Every new key must sort after the keys the session already holds.
func (s *Session) Acquire(keys ...Key) error {
	pending := make([]Key, 0, len(keys))
	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := s.held[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		pending = append(pending, k)
	}
	if len(pending) == 0 {
		return nil
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].less(pending[j]) })
	if n := len(s.order); n > 0 && pending[0].less(s.order[n-1]) {
		return fmt.Errorf("%w: %s after %s", ErrOutOfOrder, pending[0], s.order[n-1])
	}

	for _, k := range pending {
		e := s.table.ref(k)
		e.mu.Lock()
		s.held[k] = e
		s.order = append(s.order, k)
	}
	return nil
}

// Holds reports whether the session has locked k.
func (s *Session) Holds(k Key) bool {
	_, ok := s.held[k]
	return ok
}

// Release unlocks everything in reverse acquisition order. It is safe to call more than once.
func (s *Session) Release() {
	for i := len(s.order) - 1; i >= 0; i-- {
		k := s.order[i]
		e := s.held[k]
		e.mu.Unlock()
		s.table.unref(k, e)
	}
	s.order = nil
	s.held = make(map[Key]*entry)
}
