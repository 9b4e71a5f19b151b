package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Sheet:  "Payroll",
		Header: []string{"EmployeeID", "Name", "Net"},
		Rows: [][]string{
			{"emp-1", "Budi, Jr.", "1000.00"},
			{"emp-2", "Sari", "2000.50"},
		},
		Totals: []string{"TOTAL", "", "3000.50"},
	}
}

func TestTable_CSV(t *testing.T) {
	out, err := sampleTable().CSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "EmployeeID,Name,Net", lines[0])
	assert.Equal(t, `emp-1,"Budi, Jr.",1000.00`, lines[1])
	assert.Equal(t, "TOTAL,,3000.50", lines[3])
}

func TestTable_CSV_WithoutTotals(t *testing.T) {
	tbl := sampleTable()
	tbl.Totals = nil

	out, err := tbl.CSV()
	require.NoError(t, err)

	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestTable_XLSX(t *testing.T) {
	data, err := sampleTable().XLSX()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payroll")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "EmployeeID", rows[0][0])
	assert.Equal(t, "Sari", rows[2][1])
	assert.Equal(t, "TOTAL", rows[3][0])
}

func TestTable_Render(t *testing.T) {
	file, err := sampleTable().Render(FormatCSV, "payroll_2024_03")
	require.NoError(t, err)
	assert.Equal(t, "payroll_2024_03.csv", file.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	_, err = sampleTable().Render(FormatPDF, "x")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPayslip_PDF(t *testing.T) {
	p := Payslip{
		EmployeeID:   "emp-1",
		EmployeeName: "Budi",
		Role:         "personal_trainer",
		Period:       "2024-03",
		Status:       "APPROVED",
		Earnings:     []PayslipLine{{Label: "Base salary", Amount: "10000000.00"}},
		Deductions:   []PayslipLine{{Label: "Tax", Amount: "500000.00"}},
		Gross:        "10000000.00",
		Net:          "9500000.00",
		Currency:     "VND",
	}

	data, err := p.PDF()
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
