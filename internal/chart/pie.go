// Package chart renders category breakdowns as images.
package chart

import (
	"errors"
	"fmt"

	"github.com/go-analyze/charts"

	"github.com/MrJamesThe3rd/spendtrack/internal/stats"
)

// ContentType is served with rendered charts.
const ContentType = "image/png"

var ErrNoData = errors.New("no expenses to chart")

// CategoryPie renders shares as a PNG pie chart, one slice per category in the order given.
func CategoryPie(shares []stats.CategoryShare, title string) ([]byte, error) {
	values := make([]float64, 0, len(shares))
	names := make([]string, 0, len(shares))

	for _, s := range shares {
		if !s.Value.IsPositive() {
			continue
		}

		values = append(values, s.Value.InexactFloat64())
		names = append(names, string(s.Name))
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: title,
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	return buf, nil
}
