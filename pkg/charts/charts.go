// pkg/charts/charts.go
package charts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/analytics"
	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Renderer draws the standard chart set over one run's tables: difficulty
// distribution, top-viewed recipes, mean rating by difficulty and the most
// common ingredients.
type Renderer struct {
	engine *analytics.Engine
	logger *zap.Logger
}

// New creates a Renderer over an analytics engine.
func New(engine *analytics.Engine) *Renderer {
	return &Renderer{
		engine: engine,
		logger: zap.L().Named("charts"),
	}
}

const (
	chartWidth  = 900
	chartHeight = 560
	margin      = 70.0
)

// palette cycles across bars and pie slices.
var palette = [][3]float64{
	{0.36, 0.54, 0.78},
	{0.85, 0.55, 0.25},
	{0.42, 0.68, 0.42},
	{0.75, 0.35, 0.38},
	{0.55, 0.45, 0.70},
	{0.45, 0.65, 0.68},
}

// RenderAll writes the four chart PNGs into dir. Charts whose underlying
// insight has no data are skipped, not failed.
func (r *Renderer) RenderAll(dir string, t *model.Tables) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create charts directory %s: %w", dir, err)
	}

	dist, _ := r.engine.DifficultyDistribution(t)
	if len(dist) > 0 {
		labels := make([]string, 0, len(dist))
		values := make([]float64, 0, len(dist))
		for _, share := range dist {
			labels = append(labels, share.Value)
			values = append(values, share.Percent)
		}
		path := filepath.Join(dir, "01_difficulty_distribution.png")
		if err := r.pieChart(path, "Recipe Difficulty Distribution", labels, values); err != nil {
			return err
		}
	}

	viewed := r.engine.TopViewed(t)
	if len(viewed) > 0 {
		labels := make([]string, 0, len(viewed))
		values := make([]float64, 0, len(viewed))
		for _, rc := range viewed {
			labels = append(labels, rc.Name)
			values = append(values, float64(rc.Count))
		}
		path := filepath.Join(dir, "02_top_viewed_recipes.png")
		if err := r.barChart(path, "Top Most Viewed Recipes", labels, values); err != nil {
			return err
		}
	}

	ratings := r.engine.MeanRatingByDifficulty(t)
	if len(ratings) > 0 {
		labels := make([]string, 0, len(ratings))
		values := make([]float64, 0, len(ratings))
		for _, vm := range ratings {
			labels = append(labels, vm.Value)
			values = append(values, vm.Mean)
		}
		path := filepath.Join(dir, "03_avg_rating_by_difficulty.png")
		if err := r.barChart(path, "Average Rating by Difficulty Level", labels, values); err != nil {
			return err
		}
	}

	ingredients := r.engine.IngredientFrequency(t)
	if len(ingredients) > 0 {
		labels := make([]string, 0, len(ingredients))
		values := make([]float64, 0, len(ingredients))
		for _, nc := range ingredients {
			labels = append(labels, nc.Name)
			values = append(values, float64(nc.Count))
		}
		path := filepath.Join(dir, "04_top_common_ingredients.png")
		if err := r.barChart(path, "Top Most Common Ingredients", labels, values); err != nil {
			return err
		}
	}

	r.logger.Info("Charts rendered", zap.String("dir", dir))
	return nil
}

func (r *Renderer) barChart(path, title string, labels []string, values []float64) error {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawStringAnchored(title, chartWidth/2, margin/2, 0.5, 0.5)

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	plotW := float64(chartWidth) - 2*margin
	plotH := float64(chartHeight) - 2*margin
	slot := plotW / float64(len(values))
	barW := slot * 0.6

	// axes
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1.5)
	dc.DrawLine(margin, margin, margin, margin+plotH)
	dc.DrawLine(margin, margin+plotH, margin+plotW, margin+plotH)
	dc.Stroke()

	for i, v := range values {
		h := v / maxVal * (plotH - 20)
		x := margin + float64(i)*slot + (slot-barW)/2
		y := margin + plotH - h

		c := palette[i%len(palette)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(x, y, barW, h)
		dc.Fill()

		dc.SetRGB(0.15, 0.15, 0.15)
		dc.DrawStringAnchored(formatValue(v), x+barW/2, y-10, 0.5, 0.5)
		dc.DrawStringAnchored(truncate(labels[i], 18), x+barW/2, margin+plotH+16, 0.5, 0.5)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	r.logger.Info("Saved chart", zap.String("file", path))
	return nil
}

func (r *Renderer) pieChart(path, title string, labels []string, values []float64) error {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawStringAnchored(title, chartWidth/2, margin/2, 0.5, 0.5)

	total := 0.0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		total = 1
	}

	cx := float64(chartWidth) / 2
	cy := float64(chartHeight)/2 + 20
	radius := math.Min(float64(chartWidth), float64(chartHeight))/2 - margin

	angle := -math.Pi / 2
	for i, v := range values {
		sweep := v / total * 2 * math.Pi

		c := palette[i%len(palette)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()

		// label at the slice midpoint
		mid := angle + sweep/2
		lx := cx + math.Cos(mid)*radius*1.15
		ly := cy + math.Sin(mid)*radius*1.15
		dc.SetRGB(0.15, 0.15, 0.15)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%.1f%%)", labels[i], v), lx, ly, 0.5, 0.5)

		angle += sweep
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	r.logger.Info("Saved chart", zap.String("file", path))
	return nil
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
