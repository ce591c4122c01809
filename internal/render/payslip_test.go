package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateTemplate(t *testing.T) {
	body := "<h1>Payslip {{.Month}}</h1><p>{{.EmployeeName}}: {{.NetPay}}</p>"
	if err := ValidateTemplate(body); err != nil {
		t.Fatalf("expected valid template, got %v", err)
	}
}

func TestValidateTemplateRejectsBadSyntax(t *testing.T) {
	if err := ValidateTemplate("{{.Month"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateTemplateRejectsUnknownField(t *testing.T) {
	if err := ValidateTemplate("{{.NoSuchField}}"); err == nil {
		t.Fatal("expected execution error for unknown field")
	}
}

func TestHTML(t *testing.T) {
	data := Data{EmployeeName: "Alice", Month: "2025-06", NetPay: 5800}
	out, err := HTML("<p>{{.EmployeeName}} - {{.Month}} - {{.NetPay}}</p>", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "Alice - 2025-06 - 5800") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestPDF(t *testing.T) {
	data := Data{
		EmployeeName: "Alice",
		EmployeeCode: "EMP12345678",
		Month:        "2025-06",
		Basic:        5000,
		Allowances:   1000,
		Deductions:   200,
		NetPay:       5800,
		GeneratedAt:  "2025-06-30",
	}

	out, err := PDF(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", out[:8])
	}
}
