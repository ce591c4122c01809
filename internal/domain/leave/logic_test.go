package leave

import "testing"

func TestInclusiveDays(t *testing.T) {
	days, err := InclusiveDays("2025-02-01", "2025-02-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}

	days, err = InclusiveDays("2025-02-01", "2025-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %d", days)
	}
}

func TestInclusiveDaysReversedRange(t *testing.T) {
	days, err := InclusiveDays("2025-02-03", "2025-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != -1 {
		t.Fatalf("expected -1 days, got %d", days)
	}
}

func TestInclusiveDaysUnparseable(t *testing.T) {
	if _, err := InclusiveDays("not-a-date", "2025-02-01"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestComputeBalancesCountsReversedRange(t *testing.T) {
	types := []LeaveType{{Name: "Casual Leave", AnnualDays: 10}}
	requests := []Request{
		{LeaveType: "Casual Leave", StartDate: "2025-02-03", EndDate: "2025-02-01", Status: StatusApproved},
	}

	balances := ComputeBalances(types, requests)
	if balances[0].Used != -1 {
		t.Fatalf("expected used -1, got %d", balances[0].Used)
	}
	if balances[0].Remaining != 11 {
		t.Fatalf("expected remaining 11, got %d", balances[0].Remaining)
	}
}

func TestComputeBalances(t *testing.T) {
	types := []LeaveType{
		{Name: "Casual Leave", AnnualDays: 12},
		{Name: "Sick Leave", AnnualDays: 8},
	}
	requests := []Request{
		{LeaveType: "Casual Leave", StartDate: "2025-02-01", EndDate: "2025-02-03", Status: StatusApproved},
		{LeaveType: "Casual Leave", StartDate: "2025-03-01", EndDate: "2025-03-02", Status: StatusPending},
		{LeaveType: "Casual Leave", StartDate: "2025-04-01", EndDate: "2025-04-02", Status: StatusRejected},
	}

	balances := ComputeBalances(types, requests)
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}

	casual := balances[0]
	if casual.LeaveType != "Casual Leave" || casual.Allocated != 12 || casual.Used != 3 || casual.Remaining != 9 {
		t.Fatalf("unexpected casual balance: %+v", casual)
	}

	sick := balances[1]
	if sick.Used != 0 || sick.Remaining != 8 {
		t.Fatalf("unexpected sick balance: %+v", sick)
	}
}

func TestComputeBalancesSkipsUnparseableDates(t *testing.T) {
	types := []LeaveType{{Name: "Casual Leave", AnnualDays: 10}}
	requests := []Request{
		{LeaveType: "Casual Leave", StartDate: "garbage", EndDate: "2025-02-03", Status: StatusApproved},
		{LeaveType: "Casual Leave", StartDate: "2025-02-10", EndDate: "2025-02-11", Status: StatusApproved},
	}

	balances := ComputeBalances(types, requests)
	if balances[0].Used != 2 {
		t.Fatalf("expected used 2, got %d", balances[0].Used)
	}
}

func TestComputeBalancesCanGoNegative(t *testing.T) {
	types := []LeaveType{{Name: "Casual Leave", AnnualDays: 2}}
	requests := []Request{
		{LeaveType: "Casual Leave", StartDate: "2025-02-01", EndDate: "2025-02-05", Status: StatusApproved},
	}

	balances := ComputeBalances(types, requests)
	if balances[0].Remaining != -3 {
		t.Fatalf("expected remaining -3, got %d", balances[0].Remaining)
	}
}

func TestComputeBalancesKeepsPolicyOrder(t *testing.T) {
	types := []LeaveType{
		{Name: "Zeta", AnnualDays: 1},
		{Name: "Alpha", AnnualDays: 2},
	}

	balances := ComputeBalances(types, nil)
	if balances[0].LeaveType != "Zeta" || balances[1].LeaveType != "Alpha" {
		t.Fatalf("expected declaration order preserved, got %+v", balances)
	}
}
