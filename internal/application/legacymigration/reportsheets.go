package legacymigration

import "soportes/internal/infrastructure/export"

// Sheets lays the report out as workbook sheets: totals, failures, notes.
func (r *Report) Sheets() []export.Sheet {
	summary := export.Sheet{
		Name:    "Summary",
		Headers: []string{"Table", "Read", "Migrated", "Failed"},
	}
	for _, s := range r.Tables {
		summary.Rows = append(summary.Rows, []interface{}{s.Table, s.Read, s.Migrated, s.Failed})
	}
	summary.Rows = append(summary.Rows,
		[]interface{}{},
		[]interface{}{"Source", r.Source},
		[]interface{}{"Destination", r.Destination},
		[]interface{}{"Outcome", string(r.Outcome())},
		[]interface{}{"Last ticket number", r.LastTicketNumber},
		[]interface{}{"Started", r.StartedAt},
		[]interface{}{"Finished", r.FinishedAt},
	)

	failures := export.Sheet{
		Name:    "Failures",
		Headers: []string{"Table", "Legacy ID", "Legacy key", "Field", "Message"},
	}
	for _, f := range r.Failures {
		failures.Rows = append(failures.Rows, []interface{}{f.Table, f.LegacyID, f.LegacyKey, f.Field, f.Message})
	}

	notes := export.Sheet{
		Name:    "Notes",
		Headers: []string{"Table", "Legacy ID", "Field", "Message"},
	}
	for _, n := range r.Notes {
		notes.Rows = append(notes.Rows, []interface{}{n.Table, n.LegacyID, n.Field, n.Message})
	}

	return []export.Sheet{summary, failures, notes}
}
