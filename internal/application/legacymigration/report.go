package legacymigration

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Outcome distinguishes a clean run from one that skipped rows. Fatal
// runs produce an error instead of a report.
type Outcome string

const (
	OutcomeClean    Outcome = "clean"
	OutcomeWarnings Outcome = "warnings"
)

// RowFailure is a legacy row that was not migrated.
type RowFailure struct {
	Table     string `yaml:"table"`
	LegacyID  int64  `yaml:"legacy_id,omitempty"`
	LegacyKey string `yaml:"legacy_key,omitempty"`
	Field     string `yaml:"field,omitempty"`
	Message   string `yaml:"message"`
}

func (f RowFailure) String() string {
	ref := fmt.Sprintf("%s #%d", f.Table, f.LegacyID)
	if f.LegacyKey != "" {
		ref = fmt.Sprintf("%s %q", f.Table, f.LegacyKey)
	}
	if f.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ref, f.Field, f.Message)
	}
	return fmt.Sprintf("%s: %s", ref, f.Message)
}

// RowNote is a tolerated irregularity in a migrated row, such as a
// dangling optional reference written as null.
type RowNote struct {
	Table    string `yaml:"table"`
	LegacyID int64  `yaml:"legacy_id,omitempty"`
	Field    string `yaml:"field,omitempty"`
	Message  string `yaml:"message"`
}

func (n RowNote) String() string {
	if n.Field != "" {
		return fmt.Sprintf("%s #%d: %s: %s", n.Table, n.LegacyID, n.Field, n.Message)
	}
	return fmt.Sprintf("%s #%d: %s", n.Table, n.LegacyID, n.Message)
}

// TableStats counts rows per legacy table.
type TableStats struct {
	Table    string `yaml:"table"`
	Read     int    `yaml:"read"`
	Migrated int    `yaml:"migrated"`
	Failed   int    `yaml:"failed"`
}

// Report summarizes a migration run.
type Report struct {
	Source           string       `yaml:"source"`
	Destination      string       `yaml:"destination"`
	Strategy         string       `yaml:"schema_strategy"`
	StartedAt        time.Time    `yaml:"started_at"`
	FinishedAt       time.Time    `yaml:"finished_at"`
	Tables           []TableStats `yaml:"tables"`
	LastTicketNumber int64        `yaml:"last_ticket_number"`
	Failures         []RowFailure `yaml:"failures"`
	Notes            []RowNote    `yaml:"notes"`
}

// Outcome reports whether any row was skipped.
func (r *Report) Outcome() Outcome {
	if len(r.Failures) > 0 {
		return OutcomeWarnings
	}
	return OutcomeClean
}

// Stats returns the counters for table.
func (r *Report) Stats(table string) TableStats {
	for _, s := range r.Tables {
		if s.Table == table {
			return s
		}
	}
	return TableStats{Table: table}
}

// Migrated returns how many rows of table were written.
func (r *Report) Migrated(table string) int {
	return r.Stats(table).Migrated
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// WriteYAML serializes the report.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func (r *Report) stats(table string) *TableStats {
	for i := range r.Tables {
		if r.Tables[i].Table == table {
			return &r.Tables[i]
		}
	}
	r.Tables = append(r.Tables, TableStats{Table: table})
	return &r.Tables[len(r.Tables)-1]
}
