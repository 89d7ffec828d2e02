package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type item struct {
	ID       uint
	Name     string
	Status   string
	Priority int
	Owner    *string
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&item{}))

	owner := "alice"
	rows := []item{
		{Name: "printer jam", Status: "Open", Priority: 1, Owner: &owner},
		{Name: "vpn down", Status: "Closed", Priority: 3},
		{Name: "100% cpu", Status: "Open", Priority: 2},
	}
	require.NoError(t, db.Create(&rows).Error)
	return db
}

var itemFields = Fields{
	"status":   {"status"},
	"priority": {"priority"},
	"owner":    {"owner"},
	"q":        {"name", "status"},
}

func TestPredicatesScope(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name  string
		preds Predicates
		want  []string
	}{
		{"no predicates", nil, []string{"printer jam", "vpn down", "100% cpu"}},
		{"equality", Predicates{Eq("status", "Open")}, []string{"printer jam", "100% cpu"}},
		{"conjunction", Predicates{Eq("status", "Open"), {Field: "priority", Op: OpGte, Value: 2}}, []string{"100% cpu"}},
		{"multi column search", Predicates{Contains("q", "clos")}, []string{"vpn down"}},
		{"like escapes wildcards", Predicates{Contains("q", "100%")}, []string{"100% cpu"}},
		{"in", Predicates{{Field: "priority", Op: OpIn, Value: []int{1, 3}}}, []string{"printer jam", "vpn down"}},
		{"is null", Predicates{{Field: "owner", Op: OpIsNull, Value: true}}, []string{"vpn down", "100% cpu"}},
		{"is not null", Predicates{{Field: "owner", Op: OpIsNull, Value: false}}, []string{"printer jam"}},
		{"not equal", Predicates{{Field: "status", Op: OpNe, Value: "Open"}}, []string{"vpn down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := tt.preds.Scope(itemFields)
			require.NoError(t, err)

			var got []item
			require.NoError(t, db.Scopes(scope).Order("id").Find(&got).Error)

			names := make([]string, len(got))
			for i, it := range got {
				names[i] = it.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestPredicatesScopeRejectsUnknown(t *testing.T) {
	_, err := Predicates{Eq("password_hash", "x")}.Scope(itemFields)
	assert.ErrorContains(t, err, "unknown filter field")

	_, err = Predicates{{Field: "status", Op: "regexp", Value: ".*"}}.Scope(itemFields)
	assert.ErrorContains(t, err, "unsupported operator")

	_, err = Predicates{{Field: "status", Op: OpIn, Value: []string{}}}.Scope(itemFields)
	assert.ErrorContains(t, err, "non-empty slice")
}

func TestBaseFilter(t *testing.T) {
	f := NewBaseFilter(WithPage(3, 500), WithSort("numero_ticket", "asc"))
	assert.Equal(t, 100, f.Limit())
	assert.Equal(t, 200, f.Offset())
	assert.False(t, f.IsDescending())

	d := NewBaseFilter()
	assert.Equal(t, 20, d.Limit())
	assert.Equal(t, 0, d.Offset())
	assert.True(t, d.IsDescending())
}
