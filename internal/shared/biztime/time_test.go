package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacy(t *testing.T) {
	require.NoError(t, Init("America/Bogota"))

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"naive datetime in business tz", "2023-01-01 10:00:00", time.Date(2023, 1, 1, 15, 0, 0, 0, time.UTC)},
		{"date only", "2022-06-01", time.Date(2022, 6, 1, 5, 0, 0, 0, time.UTC)},
		{"iso with T", "2023-03-04T08:30", time.Date(2023, 3, 4, 13, 30, 0, 0, time.UTC)},
		{"day first", "15/02/2021", time.Date(2021, 2, 15, 5, 0, 0, 0, time.UTC)},
		{"rfc3339 keeps offset", "2023-01-01T10:00:00Z", time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"fractional seconds", "2023-01-01 10:00:00.250", time.Date(2023, 1, 1, 15, 0, 0, 250000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLegacy(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseLegacy("ayer por la tarde")
		assert.Error(t, err)
	})

	t.Run("blank", func(t *testing.T) {
		_, err := ParseLegacy("   ")
		assert.Error(t, err)
	})
}

func TestParseLegacyDate(t *testing.T) {
	got, err := ParseLegacyDate("2024-05-20 23:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseLegacyDate("20/05/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseLegacyDate("mayo")
	assert.Error(t, err)
}
