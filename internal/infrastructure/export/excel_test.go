package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSaveAsWritesSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	when := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	name := "bob"

	err := SaveAs(path,
		Sheet{
			Name:    "Tickets",
			Headers: []string{"Number", "Technician", "Created"},
			Rows: [][]interface{}{
				{int64(1), &name, &when},
				{int64(2), (*string)(nil), (*time.Time)(nil)},
			},
		},
		Sheet{Name: "Summary", Headers: []string{"Key", "Value"}, Rows: [][]interface{}{{"total", 2}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Tickets", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Number", "Technician", "Created"}, rows[0])
	assert.Equal(t, []string{"1", "bob", "2023-01-02 03:04:05"}, rows[1])
	assert.Equal(t, "2", rows[2][0])

	v, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestWriteRejectsEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf))

	require.NoError(t, Write(&buf, Sheet{Name: "Only", Headers: []string{"A"}}))
	assert.NotZero(t, buf.Len())
}
