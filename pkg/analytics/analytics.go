// pkg/analytics/analytics.go
package analytics

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Engine computes descriptive statistics over the normalized tables. Every
// insight is independently computable and reads the tables without mutating
// them; degenerate input (empty tables, zero denominators) yields a defined
// zero/empty result, never a failure.
type Engine struct {
	topN int
}

// New creates an Engine. topN bounds the ranked listings.
func New(topN int) *Engine {
	if topN <= 0 {
		topN = 5
	}
	return &Engine{topN: topN}
}

// NameCount is a (name, count) ranking entry.
type NameCount struct {
	Name  string
	Count int
}

// ValueShare is one slice of a percentage distribution.
type ValueShare struct {
	Value   string
	Percent float64
}

// ValueMean is a (group, mean) aggregation entry.
type ValueMean struct {
	Value string
	Mean  float64
}

// IngredientFrequency counts rows per distinct ingredient name across all
// recipes, descending, ties broken by first-seen order.
func (e *Engine) IngredientFrequency(t *model.Tables) []NameCount {
	return e.ingredientFrequency(t.Ingredients, nil)
}

func (e *Engine) ingredientFrequency(ingredients []model.Ingredient, recipeFilter map[string]struct{}) []NameCount {
	counts := make(map[string]int)
	var firstSeen []string

	for _, ing := range ingredients {
		if recipeFilter != nil {
			if _, ok := recipeFilter[ing.RecipeID]; !ok {
				continue
			}
		}
		if ing.Name == "" {
			continue
		}
		if _, seen := counts[ing.Name]; !seen {
			firstSeen = append(firstSeen, ing.Name)
		}
		counts[ing.Name]++
	}

	out := make([]NameCount, 0, len(firstSeen))
	for _, name := range firstSeen {
		out = append(out, NameCount{Name: name, Count: counts[name]})
	}
	// stable sort keeps first-seen order within equal counts
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if len(out) > e.topN {
		out = out[:e.topN]
	}
	return out
}

// MeanPrepTime returns the mean prep_time_minutes across recipes with a
// parseable value, and how many rows were counted. Empty or unparseable
// values are excluded from numerator and denominator.
func (e *Engine) MeanPrepTime(t *model.Tables) (float64, int) {
	var sum float64
	var n int
	for _, r := range t.Recipes {
		if v, ok := parseNumber(r.PrepTimeMinutes); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// DifficultyDistribution returns the percentage of recipes per valid
// difficulty value. Rows with an invalid or missing difficulty are excluded
// from the denominator and reported via the second return value.
func (e *Engine) DifficultyDistribution(t *model.Tables) ([]ValueShare, int) {
	counts := make(map[string]int)
	excluded := 0

	valid := make(map[string]struct{})
	for _, d := range model.Difficulties() {
		valid[d] = struct{}{}
	}

	total := 0
	for _, r := range t.Recipes {
		if _, ok := valid[r.Difficulty]; !ok {
			excluded++
			continue
		}
		counts[r.Difficulty]++
		total++
	}

	var out []ValueShare
	if total == 0 {
		return out, excluded
	}
	for _, d := range model.Difficulties() {
		if counts[d] == 0 {
			continue
		}
		out = append(out, ValueShare{
			Value:   d,
			Percent: float64(counts[d]) / float64(total) * 100,
		})
	}
	return out, excluded
}

// PrepTimeLikeCorrelation returns the Pearson correlation coefficient
// between per-recipe prep time and like count. Recipes without likes
// contribute a zero count; recipes without a parseable prep time are
// excluded. Degenerate input (fewer than two points, zero variance)
// returns 0.
func (e *Engine) PrepTimeLikeCorrelation(t *model.Tables) float64 {
	likes := make(map[string]int)
	for _, in := range t.Interactions {
		if in.Type == model.InteractionLike {
			likes[in.RecipeID]++
		}
	}

	var prep, likeCounts []float64
	for _, r := range t.Recipes {
		v, ok := parseNumber(r.PrepTimeMinutes)
		if !ok {
			continue
		}
		prep = append(prep, v)
		likeCounts = append(likeCounts, float64(likes[r.RecipeID]))
	}

	if len(prep) < 2 {
		return 0
	}
	c := stat.Correlation(prep, likeCounts, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// RecipeCount is a (recipe, count) ranking entry.
type RecipeCount struct {
	RecipeID string
	Name     string
	Count    int
}

// TopViewed ranks recipes by VIEW interaction count, descending, ties broken
// by ascending recipe_id.
func (e *Engine) TopViewed(t *model.Tables) []RecipeCount {
	counts := make(map[string]int)
	for _, in := range t.Interactions {
		if in.Type == model.InteractionView {
			counts[in.RecipeID]++
		}
	}
	return e.rankRecipes(t, counts)
}

func (e *Engine) rankRecipes(t *model.Tables, counts map[string]int) []RecipeCount {
	out := make([]RecipeCount, 0, len(counts))
	for recipeID, count := range counts {
		out = append(out, RecipeCount{
			RecipeID: recipeID,
			Name:     t.RecipeName(recipeID),
			Count:    count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RecipeID < out[j].RecipeID
	})
	if len(out) > e.topN {
		out = out[:e.topN]
	}
	return out
}

// HighRatedIngredientFrequency restricts the ingredient frequency count to
// recipes whose mean COOK_ATTEMPT rating is at least 4.0.
func (e *Engine) HighRatedIngredientFrequency(t *model.Tables) []NameCount {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, in := range t.Interactions {
		if in.Type != model.InteractionCookAttempt {
			continue
		}
		if v, ok := parseNumber(in.Rating); ok {
			sums[in.RecipeID] += v
			counts[in.RecipeID]++
		}
	}

	highRated := make(map[string]struct{})
	for recipeID, n := range counts {
		if sums[recipeID]/float64(n) >= 4.0 {
			highRated[recipeID] = struct{}{}
		}
	}
	return e.ingredientFrequency(t.Ingredients, highRated)
}

// MeanRatingByDifficulty returns the mean COOK_ATTEMPT rating grouped by
// recipe difficulty, descending by mean.
func (e *Engine) MeanRatingByDifficulty(t *model.Tables) []ValueMean {
	difficulty := make(map[string]string, len(t.Recipes))
	for _, r := range t.Recipes {
		difficulty[r.RecipeID] = r.Difficulty
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, in := range t.Interactions {
		if in.Type != model.InteractionCookAttempt {
			continue
		}
		v, ok := parseNumber(in.Rating)
		if !ok {
			continue
		}
		d, ok := difficulty[in.RecipeID]
		if !ok || d == "" {
			continue
		}
		sums[d] += v
		counts[d]++
	}

	out := make([]ValueMean, 0, len(counts))
	for d, n := range counts {
		out = append(out, ValueMean{Value: d, Mean: sums[d] / float64(n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// MeanStepCount returns the mean number of steps per recipe that has steps.
func (e *Engine) MeanStepCount(t *model.Tables) float64 {
	counts := make(map[string]int)
	for _, s := range t.Steps {
		counts[s.RecipeID]++
	}
	if len(counts) == 0 {
		return 0
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return float64(total) / float64(len(counts))
}

// UserCount is a (user, count) ranking entry.
type UserCount struct {
	UserID string
	Count  int
}

// TopUsers ranks users by total interaction count, descending, ties broken
// by ascending user_id.
func (e *Engine) TopUsers(t *model.Tables) []UserCount {
	counts := make(map[string]int)
	for _, in := range t.Interactions {
		if in.UserID == "" {
			continue
		}
		counts[in.UserID]++
	}

	out := make([]UserCount, 0, len(counts))
	for userID, count := range counts {
		out = append(out, UserCount{UserID: userID, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > e.topN {
		out = out[:e.topN]
	}
	return out
}

// CookAttemptPercentage returns the share of recipes with at least one
// COOK_ATTEMPT interaction, plus the attempted and total recipe counts.
func (e *Engine) CookAttemptPercentage(t *model.Tables) (float64, int, int) {
	total := len(t.Recipes)
	if total == 0 {
		return 0, 0, 0
	}

	known := make(map[string]struct{}, total)
	for _, r := range t.Recipes {
		known[r.RecipeID] = struct{}{}
	}

	attempted := make(map[string]struct{})
	for _, in := range t.Interactions {
		if in.Type != model.InteractionCookAttempt {
			continue
		}
		if _, ok := known[in.RecipeID]; ok {
			attempted[in.RecipeID] = struct{}{}
		}
	}

	return float64(len(attempted)) / float64(total) * 100, len(attempted), total
}

// MostLikedByUniqueUsers returns the recipe liked by the most distinct
// users; duplicate likes by one user count once. ok is false on empty input.
func (e *Engine) MostLikedByUniqueUsers(t *model.Tables) (RecipeCount, bool) {
	likers := make(map[string]map[string]struct{})
	for _, in := range t.Interactions {
		if in.Type != model.InteractionLike {
			continue
		}
		if likers[in.RecipeID] == nil {
			likers[in.RecipeID] = make(map[string]struct{})
		}
		likers[in.RecipeID][in.UserID] = struct{}{}
	}

	counts := make(map[string]int, len(likers))
	for recipeID, users := range likers {
		counts[recipeID] = len(users)
	}

	ranked := e.rankRecipes(t, counts)
	if len(ranked) == 0 {
		return RecipeCount{}, false
	}
	return ranked[0], true
}

// parseNumber parses a canonical numeric field, reporting ok=false for the
// empty sentinel or unparseable text.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
