package payroll

import (
	"sort"

	"github.com/shopspring/decimal"

	"salon/internal/domain/commission"
)

// BuildStatement keeps only rows inside the period and orders them by time then ID.
func BuildStatement(employeeID string, period Period, commissions []commission.Entry, discounts []Discount) Statement {
	st := Statement{
		EmployeeID:       employeeID,
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		Commissions:      make([]commission.Entry, 0, len(commissions)),
		Discounts:        make([]Discount, 0, len(discounts)),
		TotalCommissions: decimal.Zero,
		TotalDiscounts:   decimal.Zero,
	}

	for _, c := range commissions {
		if c.EmployeeID != employeeID || !period.ContainsInstant(c.CreatedAt) {
			continue
		}
		st.Commissions = append(st.Commissions, c)
	}
	for _, d := range discounts {
		if d.EmployeeID != employeeID || !period.ContainsDate(d.Date) {
			continue
		}
		st.Discounts = append(st.Discounts, d)
	}

	sort.Slice(st.Commissions, func(i, j int) bool {
		a, b := st.Commissions[i], st.Commissions[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	sort.Slice(st.Discounts, func(i, j int) bool {
		a, b := st.Discounts[i], st.Discounts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})

	for _, c := range st.Commissions {
		st.TotalCommissions = st.TotalCommissions.Add(c.Amount)
	}
	for _, d := range st.Discounts {
		st.TotalDiscounts = st.TotalDiscounts.Add(d.Value)
	}
	st.Total = st.TotalCommissions.Sub(st.TotalDiscounts)
	return st
}
