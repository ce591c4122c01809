package leave

import "time"

const dateLayout = "2006-01-02"

// InclusiveDays returns (end - start in days) + 1, so both endpoints count
// and a single-day leave is 1. A reversed range yields a negative count; it
// is carried through rather than rejected.
func InclusiveDays(start, end string) (int, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, err
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours()/24) + 1, nil
}

// ComputeBalances produces one balance per policy leave type, in declaration
// order. Only approved requests consume days; requests whose dates fail to
// parse are skipped. Remaining is not clamped and may go negative.
func ComputeBalances(types []LeaveType, approved []Request) []Balance {
	balances := make([]Balance, 0, len(types))
	for _, lt := range types {
		used := 0
		for _, req := range approved {
			if req.LeaveType != lt.Name || req.Status != StatusApproved {
				continue
			}
			days, err := InclusiveDays(req.StartDate, req.EndDate)
			if err != nil {
				continue
			}
			used += days
		}
		balances = append(balances, Balance{
			LeaveType: lt.Name,
			Allocated: lt.AnnualDays,
			Used:      used,
			Remaining: lt.AnnualDays - used,
		})
	}
	return balances
}
