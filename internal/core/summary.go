package core

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// BudgetStatus relates a month's spending to its budget, if one is set.
type BudgetStatus string

const (
	BudgetNone     BudgetStatus = "none"     // no budget set for the month
	BudgetOK       BudgetStatus = "ok"       // spending at or below 80% of budget
	BudgetNearing  BudgetStatus = "nearing"  // spending above 80% of budget
	BudgetExceeded BudgetStatus = "exceeded" // spending above the budget
)

// Summary is the aggregate view of one user's month.
type Summary struct {
	Month             Month            `json:"-"`
	TotalIncome       float64          `json:"total_income"`
	TotalExpense      float64          `json:"total_expense"`
	Net               float64          `json:"net"`
	Budget            float64          `json:"budget,omitempty"`
	HasBudget         bool             `json:"has_budget"`
	BudgetStatus      BudgetStatus     `json:"budget_status"`
	ExpenseByCategory []CategoryAmount `json:"expense_by_category"`
	IncomeByCategory  []CategoryAmount `json:"income_by_category"`
}
