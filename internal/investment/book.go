// Package investment tracks the last-known state of investment lots and
// checks sale allocations against it before a sale is submitted.
package investment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// Book holds the last-known state of every lot the client has seen. It is
// safe for concurrent use.
type Book struct {
	mu   sync.RWMutex
	lots map[int64]model.Lot
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{lots: make(map[int64]model.Lot)}
}

// Load records lots as fetched from the server, overwriting earlier state for
// the same ids. Lots outside the fetch are kept: a filtered listing says
// nothing about them.
func (b *Book) Load(lots []model.Lot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range lots {
		b.lots[l.LotID] = l
	}
}

// Put records a single lot.
func (b *Book) Put(l model.Lot) {
	b.mu.Lock()
	b.lots[l.LotID] = l
	b.mu.Unlock()
}

// Get returns the last-known state of a lot.
func (b *Book) Get(lotID int64) (model.Lot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l, ok := b.lots[lotID]
	return l, ok
}

// Remove forgets a lot, e.g. after its buy was deleted.
func (b *Book) Remove(lotID int64) {
	b.mu.Lock()
	delete(b.lots, lotID)
	b.mu.Unlock()
}

// Lots returns every known lot ordered by id.
func (b *Book) Lots() []model.Lot {
	b.mu.RLock()
	out := make([]model.Lot, 0, len(b.lots))
	for _, l := range b.lots {
		out = append(out, l)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LotID < out[j].LotID })
	return out
}

// Validate checks sale against the book under a read lock.
func (b *Book) Validate(sale model.Sale) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ValidateSale(sale, b.lookup)
}

// ApplySale consumes the sale's allocations from the book once the server
// has accepted it. The update is all or nothing.
func (b *Book) ApplySale(sale model.Sale) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	updated := make(map[int64]model.Lot, len(sale.Allocations))
	for _, a := range sale.Allocations {
		l, ok := updated[a.LotID]
		if !ok {
			if l, ok = b.lots[a.LotID]; !ok {
				return fmt.Errorf("apply sale: lot %d unknown", a.LotID)
			}
		}
		if err := l.Allocate(a.Quantity); err != nil {
			return fmt.Errorf("apply sale: %w", err)
		}
		updated[a.LotID] = l
	}
	for id, l := range updated {
		b.lots[id] = l
	}
	return nil
}

func (b *Book) lookup(lotID int64) (model.Lot, bool) {
	l, ok := b.lots[lotID]
	return l, ok
}
