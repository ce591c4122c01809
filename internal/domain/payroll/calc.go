package payroll

import (
	"math"
	"strings"
)

// Labels containing any of these are treated as deductions regardless of sign.
var deductionKeywords = []string{"deduction", "tax", "pf", "esi", "loan"}

type Amounts struct {
	Basic      float64
	Allowances float64
	Deductions float64
	Net        float64
}

// NetSalary is the plain sum of component amounts; it is derived on every
// read and never stored.
func NetSalary(components []Component) float64 {
	var total float64
	for _, c := range components {
		total += c.Amount
	}
	return total
}

// Categorize buckets salary components by label, case-insensitively: "basic"
// wins first, then the deduction keywords (accumulated as absolute values),
// everything else counts as an allowance.
//
// When no label matched "basic" the first component is promoted to basic and
// removed from whichever bucket it initially landed in, so its amount is
// counted exactly once.
func Categorize(components []Component) Amounts {
	var out Amounts
	if len(components) == 0 {
		return out
	}

	bucketOf := make([]int, len(components))
	const (
		bucketBasic = iota
		bucketDeduction
		bucketAllowance
	)

	for i, c := range components {
		label := strings.ToLower(c.Label)
		switch {
		case strings.Contains(label, "basic"):
			out.Basic += c.Amount
			bucketOf[i] = bucketBasic
		case containsAny(label, deductionKeywords):
			out.Deductions += math.Abs(c.Amount)
			bucketOf[i] = bucketDeduction
		default:
			out.Allowances += c.Amount
			bucketOf[i] = bucketAllowance
		}
	}

	if out.Basic == 0 {
		first := components[0]
		switch bucketOf[0] {
		case bucketDeduction:
			out.Deductions -= math.Abs(first.Amount)
		case bucketAllowance:
			out.Allowances -= first.Amount
		}
		out.Basic = first.Amount
	}

	out.Net = out.Basic + out.Allowances - out.Deductions
	return out
}

func containsAny(label string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(label, keyword) {
			return true
		}
	}
	return false
}
