package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PayslipLine is a labelled amount on a payslip.
type PayslipLine struct {
	Label  string
	Amount string
}

// Payslip is the printable view of one salary record.
type Payslip struct {
	Title        string
	EmployeeID   string
	EmployeeName string
	Role         string
	Period       string
	Status       string
	Earnings     []PayslipLine
	Deductions   []PayslipLine
	Gross        string
	Net          string
	Currency     string
}

// PDF renders the payslip on a single A4 page.
func (p Payslip) PDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	title := p.Title
	if title == "" {
		title = "Payslip"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", p.EmployeeName, p.EmployeeID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Role: %s", p.Role))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", p.Period))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", p.Status))
	pdf.Ln(10)

	section := func(name string, lines []PayslipLine) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, name)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range lines {
			pdf.CellFormat(110, 7, l.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, l.Amount+" "+p.Currency, "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}
	section("Earnings", p.Earnings)
	section("Deductions", p.Deductions)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(110, 8, "Gross salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, p.Gross+" "+p.Currency, "T", 1, "R", false, 0, "")
	pdf.CellFormat(110, 8, "Net salary", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, p.Net+" "+p.Currency, "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
