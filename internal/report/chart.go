package report

import (
	"bytes"

	chart "github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/core"
)

// renderCategoryChart draws one bar per category, in the order given (the
// breakdowns arrive largest-first). Returns nil bytes when there is nothing
// to draw.
func renderCategoryChart(title string, items []core.CategoryAmount) ([]byte, error) {
	if len(items) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(items))
	for _, item := range items {
		bars = append(bars, chart.Value{Label: item.Name, Value: item.Amount})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    600,
		Height:   300,
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
