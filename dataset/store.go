package dataset

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store owns the lifecycle of the two cached source tables: loaded once at
// startup, optionally reloaded on demand. Readers receive the shared slices
// and must treat rows as immutable; every recomputation works on filtered
// copies, never on the cached tables themselves.
type Store struct {
	loader   *Loader
	loanPath string
	txnPath  string

	mu       sync.RWMutex
	loans    []LoanApplication
	txns     []Transaction
	warnings []string
	loadedAt time.Time
}

// NewStore creates a Store bound to the two source file paths.
func NewStore(loader *Loader, loanPath, txnPath string) *Store {
	return &Store{
		loader:   loader,
		loanPath: loanPath,
		txnPath:  txnPath,
	}
}

// NewStoreFromTables creates a Store pre-populated with already-loaded
// tables. Reload is unavailable on such a store unless file paths are set.
func NewStoreFromTables(loans []LoanApplication, txns []Transaction, warnings []string) *Store {
	return &Store{
		loader:   NewLoader(),
		loans:    loans,
		txns:     txns,
		warnings: warnings,
		loadedAt: time.Now().UTC(),
	}
}

// Load reads both source files and swaps them into the cache atomically.
// Safe to call again to reload; readers see either the old or the new tables.
func (s *Store) Load() error {
	loans, err := s.loader.LoadLoans(s.loanPath)
	if err != nil {
		return fmt.Errorf("loading loan applications: %w", err)
	}
	txns, warnings, err := s.loader.LoadTransactions(s.txnPath)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	s.mu.Lock()
	s.loans = loans
	s.txns = txns
	s.warnings = warnings
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"loans":        len(loans),
		"transactions": len(txns),
		"warnings":     len(warnings),
	}).Info("Datasets loaded")
	return nil
}

// Reload re-reads both source files on demand. The explicit reload is the
// only cache invalidation besides process restart.
func (s *Store) Reload() error {
	log.Info("Reloading datasets on demand")
	return s.Load()
}

// Loans returns the cached loan application table.
func (s *Store) Loans() []LoanApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loans
}

// Transactions returns the cached transaction table.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txns
}

// Warnings returns the non-fatal problems recorded at load time.
func (s *Store) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warnings
}

// LoadedAt reports when the cache was last populated.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// LoanDateBounds returns the earliest and latest application dates in the
// cached loan table. ok is false when the table is empty.
func (s *Store) LoanDateBounds() (min, max time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.loans) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = s.loans[0].ApplicationDate, s.loans[0].ApplicationDate
	for _, loan := range s.loans[1:] {
		if loan.ApplicationDate.Before(min) {
			min = loan.ApplicationDate
		}
		if loan.ApplicationDate.After(max) {
			max = loan.ApplicationDate
		}
	}
	return min, max, true
}
