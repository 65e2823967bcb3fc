package services

import (
	"github.com/zbpk/Samfolio-Hub/internal/store"
)

// FinanceService aggregates revenue and expenses. Totals are recomputed on
// every call; record volume is small enough that caching would only add
// staleness.
type FinanceService struct {
	Store *store.Store
}

func NewFinanceService(s *store.Store) *FinanceService { return &FinanceService{Store: s} }

type FinanceTotals struct {
	TotalRevenue  int `json:"totalRevenue"`
	TotalExpenses int `json:"totalExpenses"`
	NetProfit     int `json:"netProfit"`
}

// ComputeTotals sums paid payments and all expenses.
func (f *FinanceService) ComputeTotals() (FinanceTotals, error) {
	var t FinanceTotals
	payments, err := f.Store.ListPayments()
	if err != nil {
		return t, WrapError(KindInternal, "failed to list payments", err)
	}
	for _, p := range payments {
		if p.Status == "paid" {
			t.TotalRevenue += p.Amount
		}
	}
	expenses, err := f.Store.ListExpenses()
	if err != nil {
		return t, WrapError(KindInternal, "failed to list expenses", err)
	}
	for _, e := range expenses {
		t.TotalExpenses += e.Amount
	}
	t.NetProfit = t.TotalRevenue - t.TotalExpenses
	return t, nil
}
