package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// ErrTotalsLocked is returned when reconciled totals for a closed month are
// changed.
var ErrTotalsLocked = errors.New("reconciled totals are locked")

// keyedMutex serializes work per key. Entries are removed once no caller
// holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func solveKey(siteID string, class domain.EquipmentClass, month domain.Month) string {
	return siteID + "|" + string(class) + "|" + string(month)
}

// mergeConfigs overlays overrides on stored configs. Override entries win
// per code.
func mergeConfigs(stored []domain.FactorRecord, overrides map[string]domain.GroupConfig) map[string]domain.GroupConfig {
	merged := make(map[string]domain.GroupConfig, len(stored)+len(overrides))
	for _, rec := range stored {
		merged[rec.Code] = rec.GroupConfig
	}
	for code, cfg := range overrides {
		cfg.Code = code
		merged[code] = cfg
	}
	return merged
}

func mergeAssignments(stored, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(stored)+len(overrides))
	for id, code := range stored {
		merged[id] = code
	}
	for id, code := range overrides {
		merged[id] = code
	}
	return merged
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
