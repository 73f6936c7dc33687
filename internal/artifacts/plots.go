package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go-dq-sentinel/internal/checks"
	"go-dq-sentinel/internal/model"
)

// PlotMissingness renders a bar chart of the fraction of missing cells per
// column, worst first.
func PlotMissingness(t *model.Table, outPath string) error {
	if t == nil || len(t.Records) == 0 {
		return nil
	}

	type colMiss struct {
		name string
		frac float64
	}
	fracs := make([]colMiss, 0, len(t.Columns))
	for _, c := range t.Columns {
		missing := 0
		for _, rec := range t.Records {
			s, ok := model.String(rec, c)
			if !ok || s == "" {
				missing++
			}
		}
		fracs = append(fracs, colMiss{name: c, frac: float64(missing) / float64(len(t.Records))})
	}
	sort.SliceStable(fracs, func(a, b int) bool { return fracs[a].frac > fracs[b].frac })

	values := make(plotter.Values, len(fracs))
	names := make([]string, len(fracs))
	for i, cm := range fracs {
		values[i] = cm.frac
		names[i] = cm.name
	}

	p := plot.New()
	p.Title.Text = "Missingness by column"
	p.Y.Label.Text = "fraction missing"
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("failed to build missingness chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -0.9
	p.X.Tick.Label.XAlign = -0.8

	return savePlot(p, outPath)
}

// PlotCadence renders a histogram of day gaps between consecutive week_start
// values across the whole timeseries. A weekly extract piles everything on 7.
func PlotCadence(t *model.Table, outPath string) error {
	if t == nil || !t.HasColumn(checks.ColWeekStart) {
		return nil
	}

	normalized := checks.Normalize(t)
	var weeks []int64
	for _, rec := range normalized.Records {
		if ts, ok := model.Time(rec, checks.ColWeekStart); ok {
			weeks = append(weeks, ts.Unix())
		}
	}
	sort.Slice(weeks, func(a, b int) bool { return weeks[a] < weeks[b] })
	if len(weeks) < 2 {
		return nil
	}

	diffs := make(plotter.Values, 0, len(weeks)-1)
	for i := 1; i < len(weeks); i++ {
		diffs = append(diffs, float64(weeks[i]-weeks[i-1])/86400)
	}

	p := plot.New()
	p.Title.Text = "Week start cadence"
	p.X.Label.Text = "days between consecutive week_start values"
	hist, err := plotter.NewHist(diffs, 16)
	if err != nil {
		return fmt.Errorf("failed to build cadence histogram: %w", err)
	}
	p.Add(hist)

	return savePlot(p, outPath)
}

// PlotLevelShiftRelChange renders a histogram of per-file relative change in
// mean units between the early and late half of the combined timeline. The
// timeline is split at the median day offset from the earliest week_start;
// only files observed on both sides contribute. Values far from zero flag
// files whose level moved.
func PlotLevelShiftRelChange(t *model.Table, outPath string) error {
	if t == nil || !t.HasColumns(checks.ColWeekStart, checks.ColUnits, checks.ColSourceFile) {
		return nil
	}

	normalized := checks.Normalize(t)
	var origin time.Time
	haveOrigin := false
	var dayIdx []float64
	for _, rec := range normalized.Records {
		ts, ok := model.Time(rec, checks.ColWeekStart)
		if !ok {
			continue
		}
		if !haveOrigin || ts.Before(origin) {
			origin = ts
			haveOrigin = true
		}
	}
	if !haveOrigin {
		return nil
	}
	for _, rec := range normalized.Records {
		if ts, ok := model.Time(rec, checks.ColWeekStart); ok {
			dayIdx = append(dayIdx, ts.Sub(origin).Hours()/24)
		}
	}
	medianDay := medianOf(dayIdx)

	type halves struct {
		first, second []float64
	}
	byFile := make(map[string]*halves)
	var files []string
	for _, rec := range normalized.Records {
		ts, tok := model.Time(rec, checks.ColWeekStart)
		v, vok := model.Float(rec, checks.ColUnits)
		sf, sok := model.String(rec, checks.ColSourceFile)
		if !tok || !vok || !sok {
			continue
		}
		h, seen := byFile[sf]
		if !seen {
			h = &halves{}
			byFile[sf] = h
			files = append(files, sf)
		}
		if ts.Sub(origin).Hours()/24 <= medianDay {
			h.first = append(h.first, v)
		} else {
			h.second = append(h.second, v)
		}
	}
	sort.Strings(files)

	var rels plotter.Values
	for _, sf := range files {
		h := byFile[sf]
		if len(h.first) == 0 || len(h.second) == 0 {
			continue
		}
		m1 := meanOf(h.first)
		if m1 == 0 {
			continue
		}
		rels = append(rels, (meanOf(h.second)-m1)/m1)
	}
	if len(rels) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = "Per-file relative change in mean units"
	p.X.Label.Text = "(second half - first half) / |first half|"
	hist, err := plotter.NewHist(rels, 20)
	if err != nil {
		return fmt.Errorf("failed to build level shift histogram: %w", err)
	}
	p.Add(hist)

	return savePlot(p, outPath)
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func medianOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func savePlot(p *plot.Plot, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", outPath, err)
	}
	return nil
}
