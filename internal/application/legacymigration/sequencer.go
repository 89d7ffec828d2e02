package legacymigration

import "fmt"

// Sequencer numbers migrated tickets 1, 2, 3... in the order they are
// committed. A candidate number is only consumed by Commit, so a ticket
// that fails to insert leaves no gap.
type Sequencer struct {
	last int64
}

// Candidate returns the number the next committed ticket will carry.
func (s *Sequencer) Candidate() int64 {
	return s.last + 1
}

// Commit consumes n, which must be the current candidate.
func (s *Sequencer) Commit(n int64) error {
	if n != s.last+1 {
		return fmt.Errorf("ticket number %d committed out of order, expected %d", n, s.last+1)
	}
	s.last = n
	return nil
}

// Last returns the highest committed number, zero when none.
func (s *Sequencer) Last() int64 {
	return s.last
}
