// Package render turns payslips into downloadable documents, either through a
// user-supplied HTML template or the built-in PDF layout.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Data is the full set of fields a payslip template may reference.
type Data struct {
	EmployeeName string
	EmployeeCode string
	Department   string
	Month        string
	Basic        float64
	Allowances   float64
	Deductions   float64
	NetPay       float64
	GeneratedAt  string
}

var placeholder = Data{
	EmployeeName: "Jane Doe",
	EmployeeCode: "EMP00000000",
	Department:   "Engineering",
	Month:        "2025-01",
	Basic:        1000,
	Allowances:   100,
	Deductions:   50,
	NetPay:       1050,
	GeneratedAt:  "2025-01-31",
}

// ValidateTemplate parses and test-renders body against placeholder data so
// broken templates are rejected at write time, never at download time.
func ValidateTemplate(body string) error {
	tmpl, err := template.New("payslip").Parse(body)
	if err != nil {
		return err
	}
	return tmpl.Execute(io.Discard, placeholder)
}

// HTML renders a user-supplied template body with the payslip data.
func HTML(body string, data Data) ([]byte, error) {
	tmpl, err := template.New("payslip").Parse(body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF renders the built-in fallback layout.
func PDF(data Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", data.EmployeeName, data.EmployeeCode))
	pdf.Ln(7)
	if data.Department != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", data.Department))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s", data.Month))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", data.GeneratedAt))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Basic: %.2f", data.Basic))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Allowances: %.2f", data.Allowances))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", data.Deductions))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net Pay: %.2f", data.NetPay))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
