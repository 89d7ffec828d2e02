package legacymigration

import (
	"fmt"

	"github.com/google/uuid"
)

// maxAllocateAttempts bounds retries when the generator repeats itself.
const maxAllocateAttempts = 3

// IdentityMapper hands out opaque ids for legacy integer keys and answers
// lookups for foreign-key translation. It lives for one run.
type IdentityMapper struct {
	tables map[string]map[int64]string
	issued map[string]struct{}
	newID  func() string
}

// NewIdentityMapper returns a mapper using gen, or random UUIDs when gen is nil.
func NewIdentityMapper(gen func() string) *IdentityMapper {
	if gen == nil {
		gen = uuid.NewString
	}
	return &IdentityMapper{
		tables: make(map[string]map[int64]string),
		issued: make(map[string]struct{}),
		newID:  gen,
	}
}

// Allocate returns the id for (table, oldID), minting one on first use.
// An id is never issued twice, even after Discard.
func (m *IdentityMapper) Allocate(table string, oldID int64) (string, error) {
	if id, ok := m.Resolve(table, oldID); ok {
		return id, nil
	}

	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		id := m.newID()
		if id == "" {
			continue
		}
		if _, taken := m.issued[id]; taken {
			continue
		}
		m.issued[id] = struct{}{}

		byOld, ok := m.tables[table]
		if !ok {
			byOld = make(map[int64]string)
			m.tables[table] = byOld
		}
		byOld[oldID] = id
		return id, nil
	}
	return "", fmt.Errorf("could not mint a unique id for %s/%d after %d attempts", table, oldID, maxAllocateAttempts)
}

// Resolve returns the id allocated for (table, oldID). ok is false when the
// legacy row was never migrated; callers treat that as a null reference.
func (m *IdentityMapper) Resolve(table string, oldID int64) (id string, ok bool) {
	id, ok = m.tables[table][oldID]
	return id, ok
}

// Discard forgets the allocation of a row that could not be written, so
// nothing can reference it.
func (m *IdentityMapper) Discard(table string, oldID int64) {
	delete(m.tables[table], oldID)
}

// Len returns the number of live allocations for table.
func (m *IdentityMapper) Len(table string) int {
	return len(m.tables[table])
}
