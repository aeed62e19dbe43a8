// Package report derives monthly summaries from the ledger and renders them
// into exportable documents. Aggregation ends at the structured summary plus
// prepared chart images; laying them out on pages is the Renderer's job.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"fintrack/internal/budget"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// TableRows is how many expense line items a rendered report carries.
const TableRows = 20

// nearingThreshold is the budget share above which the month counts as
// nearing its budget.
const nearingThreshold = 0.8

// Document is everything a Renderer needs for one report.
type Document struct {
	Summary core.Summary
	// Charts are prepared PNG images, at most one per kind, expense first.
	Charts [][]byte
	// Lines are the first TableRows expense entries, newest date first.
	Lines []core.Entry
}

// Renderer lays a document out into its final format.
type Renderer interface {
	Render(doc Document, w io.Writer) error
}

type Service struct {
	ledger   *ledger.Service
	budgets  *budget.Ledger
	renderer Renderer
}

func New(ledgerSvc *ledger.Service, budgets *budget.Ledger, renderer Renderer) *Service {
	return &Service{ledger: ledgerSvc, budgets: budgets, renderer: renderer}
}

// Summarize aggregates one user's month: totals, net, optional budget with
// its status, and per-category breakdowns.
func (s *Service) Summarize(ctx context.Context, userID string, month core.Month) (core.Summary, error) {
	expenses, incomes, err := s.monthEntries(ctx, userID, month)
	if err != nil {
		return core.Summary{}, err
	}
	return s.summarize(ctx, userID, month, expenses, incomes)
}

func (s *Service) monthEntries(ctx context.Context, userID string, month core.Month) (expenses, incomes []core.Entry, err error) {
	start, end := month.Bounds()
	f := ledger.Filter{Start: start, End: end}

	expenses, err = s.ledger.List(ctx, core.KindExpense, userID, f)
	if err != nil {
		return nil, nil, fmt.Errorf("month expenses: %w", err)
	}
	incomes, err = s.ledger.List(ctx, core.KindIncome, userID, f)
	if err != nil {
		return nil, nil, fmt.Errorf("month incomes: %w", err)
	}
	return expenses, incomes, nil
}

func (s *Service) summarize(ctx context.Context, userID string, month core.Month, expenses, incomes []core.Entry) (core.Summary, error) {
	sum := core.Summary{
		Month:             month,
		TotalExpense:      total(expenses),
		TotalIncome:       total(incomes),
		ExpenseByCategory: groupByCategory(expenses),
		IncomeByCategory:  groupByCategory(incomes),
		BudgetStatus:      core.BudgetNone,
	}
	sum.Net = sum.TotalIncome - sum.TotalExpense

	amount, ok, err := s.budgets.GetMonthly(ctx, userID, month)
	if err != nil {
		return core.Summary{}, fmt.Errorf("month budget: %w", err)
	}
	if ok {
		sum.Budget = amount
		sum.HasBudget = true
		switch {
		case sum.TotalExpense > amount:
			sum.BudgetStatus = core.BudgetExceeded
		case sum.TotalExpense > nearingThreshold*amount:
			sum.BudgetStatus = core.BudgetNearing
		default:
			sum.BudgetStatus = core.BudgetOK
		}
	}
	return sum, nil
}

// Generate writes the full monthly report document to w.
func (s *Service) Generate(ctx context.Context, userID string, month core.Month, w io.Writer) error {
	if s.renderer == nil {
		return fmt.Errorf("no renderer configured")
	}
	expenses, incomes, err := s.monthEntries(ctx, userID, month)
	if err != nil {
		return err
	}
	summary, err := s.summarize(ctx, userID, month, expenses, incomes)
	if err != nil {
		return err
	}

	var charts [][]byte
	for _, group := range []struct {
		title string
		items []core.CategoryAmount
	}{
		{"Expenses by category", summary.ExpenseByCategory},
		{"Income by category", summary.IncomeByCategory},
	} {
		img, err := renderCategoryChart(group.title, group.items)
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if img != nil {
			charts = append(charts, img)
		}
	}

	lines := expenses
	if len(lines) > TableRows {
		lines = lines[:TableRows]
	}

	if err := s.renderer.Render(Document{Summary: summary, Charts: charts, Lines: lines}, w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	slog.InfoContext(ctx, "Report generated",
		"user_id", userID,
		"month", month.String(),
		"expenses", len(expenses),
		"incomes", len(incomes))
	return nil
}

func total(entries []core.Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}

// groupByCategory sums amounts per category, largest first. Equal amounts
// order by name so the result is deterministic.
func groupByCategory(entries []core.Entry) []core.CategoryAmount {
	byName := make(map[string]float64)
	for _, e := range entries {
		byName[e.Category] += e.Amount
	}
	out := make([]core.CategoryAmount, 0, len(byName))
	for name, amount := range byName {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}
