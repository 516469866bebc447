package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"outgo/internal/core"
)

// RenderMonthlyChart renders the monthly series as a PNG bar chart.
func RenderMonthlyChart(months []string, values []core.Money) ([]byte, error) {
	if len(months) != len(values) {
		return nil, fmt.Errorf("months/values length mismatch: %d vs %d", len(months), len(values))
	}

	bars := make([]chart.Value, len(months))
	maxValue := 0.0
	for i, m := range months {
		v := float64(values[i].Cents) / 100
		bars[i] = chart.Value{
			Label: m,
			Value: v,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(180),
			},
		}
		if v > maxValue {
			maxValue = v
		}
	}
	if maxValue == 0 {
		// go-chart cannot derive a range from an all-zero series.
		maxValue = 1
	}

	graph := chart.BarChart{
		Title:    "Monthly spending",
		Width:    900,
		Height:   450,
		BarWidth: 48,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render monthly chart: %w", err)
	}

	return buffer.Bytes(), nil
}
