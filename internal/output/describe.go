package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/spanclient/internal/table"
)

// Summary holds descriptive statistics of one numeric column. Nulls are
// skipped.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Summarize computes a Summary for every data column holding only numbers.
// Columns without any numeric value are skipped.
func Summarize(tbl table.Table) []Summary {
	var out []Summary
	for c, name := range tbl.Columns() {
		values, ok := numericColumn(tbl, c)
		if !ok || len(values) == 0 {
			continue
		}
		out = append(out, summarize(name, values))
	}
	return out
}

func numericColumn(tbl table.Table, col int) ([]float64, bool) {
	values := make([]float64, 0, tbl.NumRows())
	for r := 0; r < tbl.NumRows(); r++ {
		switch v := tbl.Value(r, col).(type) {
		case nil:
		case int64:
			values = append(values, float64(v))
		case float64:
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		default:
			return nil, false
		}
	}
	return values, true
}

func summarize(name string, values []float64) Summary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Column: name,
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	} else {
		s.Std = math.NaN()
	}
	return s
}

// WriteDescribe writes the Summarize result as an aligned text table, one
// statistic per line and one numeric column per field.
func WriteDescribe(w io.Writer, tbl table.Table) error {
	summaries := Summarize(tbl)
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "no numeric columns")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t", s.Column)
	}
	fmt.Fprintln(tw)

	rows := []struct {
		label string
		value func(Summary) float64
	}{
		{"count", func(s Summary) float64 { return float64(s.Count) }},
		{"mean", func(s Summary) float64 { return s.Mean }},
		{"std", func(s Summary) float64 { return s.Std }},
		{"min", func(s Summary) float64 { return s.Min }},
		{"25%", func(s Summary) float64 { return s.Q25 }},
		{"50%", func(s Summary) float64 { return s.Median }},
		{"75%", func(s Summary) float64 { return s.Q75 }},
		{"max", func(s Summary) float64 { return s.Max }},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t", row.label)
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t", strconv.FormatFloat(row.value(s), 'g', 6, 64))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
