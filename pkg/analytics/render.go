// pkg/analytics/render.go
package analytics

import (
	"fmt"
	"strings"

	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Insight is one named analytic result in human-readable form.
type Insight struct {
	ID     int
	Name   string
	Result []string
}

// Insights computes the fixed insight set over the tables.
func (e *Engine) Insights(t *model.Tables) []Insight {
	var insights []Insight
	add := func(name string, lines ...string) {
		if len(lines) == 0 {
			lines = []string{"no data"}
		}
		insights = append(insights, Insight{ID: len(insights) + 1, Name: name, Result: lines})
	}

	var lines []string
	for _, nc := range e.IngredientFrequency(t) {
		lines = append(lines, fmt.Sprintf("%s: %d", nc.Name, nc.Count))
	}
	add("Most Common Ingredients", lines...)

	mean, n := e.MeanPrepTime(t)
	if n == 0 {
		add("Average Preparation Time (Minutes)")
	} else {
		add("Average Preparation Time (Minutes)", fmt.Sprintf("%.2f (over %d recipes)", mean, n))
	}

	lines = nil
	dist, excluded := e.DifficultyDistribution(t)
	for _, share := range dist {
		lines = append(lines, fmt.Sprintf("%s: %.2f%%", share.Value, share.Percent))
	}
	if excluded > 0 {
		lines = append(lines, fmt.Sprintf("(%d recipes with invalid/missing difficulty excluded)", excluded))
	}
	add("Recipe Difficulty Distribution (%)", lines...)

	add("Correlation (Prep Time vs. Likes)",
		fmt.Sprintf("%.4f (positive means longer prep time, more likes)", e.PrepTimeLikeCorrelation(t)))

	lines = nil
	for _, rc := range e.TopViewed(t) {
		lines = append(lines, fmt.Sprintf("%s (%s): %d views", rc.Name, rc.RecipeID, rc.Count))
	}
	add(fmt.Sprintf("Top %d Most Viewed Recipes", e.topN), lines...)

	lines = nil
	for _, nc := range e.HighRatedIngredientFrequency(t) {
		lines = append(lines, fmt.Sprintf("%s: %d", nc.Name, nc.Count))
	}
	add("Top Ingredients in High-Rated Recipes (Avg Rating >= 4.0)", lines...)

	lines = nil
	for _, vm := range e.MeanRatingByDifficulty(t) {
		lines = append(lines, fmt.Sprintf("%s: %.2f", vm.Value, vm.Mean))
	}
	add("Average Rating by Difficulty", lines...)

	if mean := e.MeanStepCount(t); mean > 0 {
		add("Average Number of Steps per Recipe", fmt.Sprintf("%.2f", mean))
	} else {
		add("Average Number of Steps per Recipe")
	}

	lines = nil
	for _, uc := range e.TopUsers(t) {
		lines = append(lines, fmt.Sprintf("%s: %d", uc.UserID, uc.Count))
	}
	add(fmt.Sprintf("Top %d Most Active Users (Total Interactions)", e.topN), lines...)

	pct, attempted, total := e.CookAttemptPercentage(t)
	if total == 0 {
		add("Percentage of Recipes with at least one COOK_ATTEMPT")
	} else {
		add("Percentage of Recipes with at least one COOK_ATTEMPT",
			fmt.Sprintf("%.2f%% (attempted: %d out of %d)", pct, attempted, total))
	}

	if top, ok := e.MostLikedByUniqueUsers(t); ok {
		add("Most Liked Recipe by Unique User Count",
			fmt.Sprintf("%s (%s): %d distinct users", top.Name, top.RecipeID, top.Count))
	} else {
		add("Most Liked Recipe by Unique User Count")
	}

	return insights
}

// Render formats insights the way the terminal summary presents them.
func Render(insights []Insight) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 70) + "\n")
	b.WriteString("DATA INSIGHTS SUMMARY\n")
	b.WriteString(strings.Repeat("=", 70) + "\n")
	for _, insight := range insights {
		fmt.Fprintf(&b, "\n--- INSIGHT %d: %s ---\n", insight.ID, insight.Name)
		for _, line := range insight.Result {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	b.WriteString("\n" + strings.Repeat("=", 70) + "\n")
	return b.String()
}
