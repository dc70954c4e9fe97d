package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/importer"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/testhelpers"
)

func parse(t *testing.T, rows [][]string) ([]importer.EntityRow, []importer.ImportError) {
	t.Helper()
	return importer.ParseExcelFile(bytes.NewReader(testhelpers.EntitySheet(t, importer.Headers, rows)))
}

func TestParseExcelFile(t *testing.T) {
	t.Helper()

	tests := []struct {
		name           string
		rows           [][]string
		wantRowCount   int
		wantErrorCount int
		wantErrorMsg   string
	}{
		{
			name: "two valid entities",
			rows: [][]string{
				{"Defensa Civil", "Gestión del Riesgo", "Atención de desastres", "https://defensacivil.gov.co"},
				{"Cruz Roja", "Emergencias Médicas; Gestión del Riesgo", "", "", "cruzroja@example.org", "132", "", "", "sí"},
			},
			wantRowCount: 2,
		},
		{
			name:           "missing name",
			rows:           [][]string{{"", "Seguridad"}},
			wantErrorCount: 1,
			wantErrorMsg:   "name is required",
		},
		{
			name:           "missing categories",
			rows:           [][]string{{"Defensa Civil", " ; "}},
			wantErrorCount: 1,
			wantErrorMsg:   "category is required",
		},
		{
			name:           "website without scheme",
			rows:           [][]string{{"Defensa Civil", "Gestión del Riesgo", "", "defensacivil.gov.co"}},
			wantErrorCount: 1,
			wantErrorMsg:   "website must start with",
		},
		{
			name:           "unreadable active flag",
			rows:           [][]string{{"Defensa Civil", "Gestión del Riesgo", "", "", "", "", "", "", "quizás"}},
			wantErrorCount: 1,
			wantErrorMsg:   "active must be",
		},
		{
			name:         "blank rows are skipped",
			rows:         [][]string{{"", "", ""}, {"Defensa Civil", "Gestión del Riesgo"}},
			wantRowCount: 1,
		},
		{
			name: "header only",
			rows: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, errs := parse(t, tt.rows)
			assert.Len(t, rows, tt.wantRowCount)
			require.Len(t, errs, tt.wantErrorCount)
			if tt.wantErrorMsg != "" {
				assert.Contains(t, errs[0].Error, tt.wantErrorMsg)
			}
		})
	}
}

func TestParseExcelFile_RowFields(t *testing.T) {
	t.Helper()

	rows, errs := parse(t, [][]string{
		{"Cruz Roja", "Emergencias Médicas; Gestión del Riesgo", " Socorro ", "", "cruzroja@example.org", "132", "", "Calle 2", "no"},
	})
	require.Empty(t, errs)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 2, row.Row)
	assert.Equal(t, []string{"Emergencias Médicas", "Gestión del Riesgo"}, row.Categories)
	assert.Equal(t, "Socorro", row.Description)
	require.NotNil(t, row.Active)
	assert.False(t, *row.Active)

	in := row.ToInput()
	assert.Equal(t, "Cruz Roja", in.Name)
	assert.Equal(t, "132", in.Phone)
	assert.Equal(t, "Calle 2", in.Address)
	assert.Equal(t, row.Active, in.Active)
	assert.Empty(t, in.ID, "id is derived from the name on create")
}

func TestParseExcelFile_NotASpreadsheet(t *testing.T) {
	t.Helper()

	rows, errs := importer.ParseExcelFile(strings.NewReader("name,categories\nDefensa Civil,Otros\n"))
	assert.Empty(t, rows)
	require.Len(t, errs, 1)
	assert.Zero(t, errs[0].Row)
}
