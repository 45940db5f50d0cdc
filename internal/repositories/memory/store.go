// Package memory is an in-process implementation of the storage ports. Units of work are
// serialized and run against a private copy of the state that replaces the live state only
// when the unit succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

type invKey struct {
	businessID string
	productID  string
	locationID string
}

type docKey struct {
	businessID string
	kind       domain.DocumentKind
	number     string
}

type payRefKey struct {
	businessID string
	reference  string
}

// state holds every table. Slices stored inside values are never mutated in place,
// so a shallow copy of the maps is a safe snapshot.
type state struct {
	seq int64

	accounts     map[string]domain.Account
	postingRules map[string]map[domain.PostingRule]domain.PostingRuleBinding

	journals     map[string]domain.JournalEntry
	journalOrder map[string]int64

	inventory     map[string]domain.Inventory
	inventoryKeys map[invKey]string

	movements     map[string]domain.StockMovement
	movementOrder map[string]int64

	documents   map[string]domain.Document
	docNumbers  map[docKey]string
	payments    map[string]domain.Payment
	paymentRefs map[payRefKey]string
}

func newState() *state {
	return &state{
		accounts:      make(map[string]domain.Account),
		postingRules:  make(map[string]map[domain.PostingRule]domain.PostingRuleBinding),
		journals:      make(map[string]domain.JournalEntry),
		journalOrder:  make(map[string]int64),
		inventory:     make(map[string]domain.Inventory),
		inventoryKeys: make(map[invKey]string),
		movements:     make(map[string]domain.StockMovement),
		movementOrder: make(map[string]int64),
		documents:     make(map[string]domain.Document),
		docNumbers:    make(map[docKey]string),
		payments:      make(map[string]domain.Payment),
		paymentRefs:   make(map[payRefKey]string),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	rules := make(map[string]map[domain.PostingRule]domain.PostingRuleBinding, len(s.postingRules))
	for b, m := range s.postingRules {
		rules[b] = copyMap(m)
	}
	return &state{
		seq:           s.seq,
		accounts:      copyMap(s.accounts),
		postingRules:  rules,
		journals:      copyMap(s.journals),
		journalOrder:  copyMap(s.journalOrder),
		inventory:     copyMap(s.inventory),
		inventoryKeys: copyMap(s.inventoryKeys),
		movements:     copyMap(s.movements),
		movementOrder: copyMap(s.movementOrder),
		documents:     copyMap(s.documents),
		docNumbers:    copyMap(s.docNumbers),
		payments:      copyMap(s.payments),
		paymentRefs:   copyMap(s.paymentRefs),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store is the in-memory database.
type Store struct {
	txMu   sync.Mutex   // serializes writers
	dataMu sync.RWMutex // guards the live state pointer
	live   *state
}

// New creates an empty store.
func New() *Store {
	return &Store{live: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// Execute runs fn against a private copy of the state and publishes it only if fn succeeds.
func (s *Store) Execute(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.dataMu.RLock()
	work := s.live.clone()
	s.dataMu.RUnlock()

	if err := fn(ctx, newRepositories(scope{tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.dataMu.Lock()
	s.live = work
	s.dataMu.Unlock()
	return nil
}

// Repositories returns repositories reading the committed state. Writes through them are
// applied immediately as single-statement units.
func (s *Store) Repositories() portsrepo.Repositories {
	return newRepositories(scope{store: s})
}

// Provider bundles the store as a RepositoryProvider.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{Repos: s.Repositories(), UnitOfWork: s}
}

// scope routes repository calls either to a unit of work's private state or to the live state.
type scope struct {
	store *Store
	tx    *state
}

func (sc scope) read(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.dataMu.RLock()
	defer sc.store.dataMu.RUnlock()
	return fn(sc.store.live)
}

func (sc scope) write(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.txMu.Lock()
	defer sc.store.txMu.Unlock()
	sc.store.dataMu.Lock()
	defer sc.store.dataMu.Unlock()
	work := sc.store.live.clone()
	if err := fn(work); err != nil {
		return err
	}
	sc.store.live = work
	return nil
}

func newRepositories(sc scope) portsrepo.Repositories {
	return portsrepo.Repositories{
		Accounts:     &accountRepo{sc},
		PostingRules: &postingRuleRepo{sc},
		Journals:     &journalRepo{sc},
		Inventory:    &inventoryRepo{sc},
		Documents:    &documentRepo{sc},
		Payments:     &paymentRepo{sc},
	}
}

// activeRecord mirrors the soft-delete predicate of the SQL store.
func activeRecord(s domain.SoftDelete) bool {
	return !s.IsDeleted()
}
