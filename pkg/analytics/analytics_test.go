package analytics

import (
	"math"
	"testing"

	"github.com/tastelab/recipe-ingress/pkg/model"
)

func TestIngredientFrequency_CountsAcrossRecipes(t *testing.T) {
	tables := &model.Tables{
		Ingredients: []model.Ingredient{
			{IngredientPKID: "a", RecipeID: "R001", Name: "Salt"},
			{IngredientPKID: "b", RecipeID: "R002", Name: "Salt"},
			{IngredientPKID: "c", RecipeID: "R003", Name: "Salt"},
			{IngredientPKID: "d", RecipeID: "R001", Name: "Rice"},
		},
	}

	freq := New(5).IngredientFrequency(tables)
	if len(freq) != 2 {
		t.Fatalf("entries = %d, want 2", len(freq))
	}
	if freq[0].Name != "Salt" || freq[0].Count != 3 {
		t.Errorf("top entry = %+v, want Salt:3", freq[0])
	}
}

func TestIngredientFrequency_TieBrokenByFirstSeen(t *testing.T) {
	tables := &model.Tables{
		Ingredients: []model.Ingredient{
			{IngredientPKID: "a", RecipeID: "R001", Name: "Onion"},
			{IngredientPKID: "b", RecipeID: "R001", Name: "Tomato"},
			{IngredientPKID: "c", RecipeID: "R002", Name: "Tomato"},
			{IngredientPKID: "d", RecipeID: "R002", Name: "Onion"},
		},
	}

	freq := New(5).IngredientFrequency(tables)
	if freq[0].Name != "Onion" || freq[1].Name != "Tomato" {
		t.Errorf("tie order = %v, want first-seen [Onion Tomato]", freq)
	}
}

func TestMeanPrepTime_ExcludesUnparseable(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R001", PrepTimeMinutes: "10"},
			{RecipeID: "R002", PrepTimeMinutes: "20"},
			{RecipeID: "R003", PrepTimeMinutes: ""},
			{RecipeID: "R004", PrepTimeMinutes: "soon"},
		},
	}

	mean, n := New(5).MeanPrepTime(tables)
	if n != 2 {
		t.Fatalf("counted = %d, want 2", n)
	}
	if mean != 15 {
		t.Errorf("mean = %v, want 15", mean)
	}
}

func TestDifficultyDistribution_SumsToHundred(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R001", Difficulty: "Easy"},
			{RecipeID: "R002", Difficulty: "Easy"},
			{RecipeID: "R003", Difficulty: "Medium"},
			{RecipeID: "R004", Difficulty: "Hard"},
		},
	}

	dist, excluded := New(5).DifficultyDistribution(tables)
	if excluded != 0 {
		t.Errorf("excluded = %d, want 0", excluded)
	}
	sum := 0.0
	for _, share := range dist {
		sum += share.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestDifficultyDistribution_InvalidExcludedFromDenominator(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R001", Difficulty: "Easy"},
			{RecipeID: "R002", Difficulty: "IMPOSSIBLE"},
			{RecipeID: "R003", Difficulty: ""},
		},
	}

	dist, excluded := New(5).DifficultyDistribution(tables)
	if excluded != 2 {
		t.Errorf("excluded = %d, want 2", excluded)
	}
	if len(dist) != 1 || dist[0].Percent != 100 {
		t.Errorf("dist = %v, want Easy at 100%%", dist)
	}
}

func TestTopViewed_TieBrokenByRecipeID(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R1"}, {RecipeID: "R3"}, {RecipeID: "R20"}, {RecipeID: "R11"}, {RecipeID: "R13"},
		},
	}
	addViews := func(recipeID string, n int) {
		for i := 0; i < n; i++ {
			tables.Interactions = append(tables.Interactions, model.Interaction{
				InteractionID: recipeID, RecipeID: recipeID, UserID: "U001", Type: model.InteractionView,
			})
		}
	}
	addViews("R3", 14)
	addViews("R1", 14)
	addViews("R20", 13)
	addViews("R13", 12)
	addViews("R11", 12)

	top := New(5).TopViewed(tables)
	wantOrder := []string{"R1", "R3", "R20", "R11", "R13"}
	for i, want := range wantOrder {
		if top[i].RecipeID != want {
			t.Fatalf("rank %d = %s, want %s (full: %v)", i, top[i].RecipeID, want, top)
		}
	}
}

func TestHighRatedIngredientFrequency(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{{RecipeID: "R001"}, {RecipeID: "R002"}},
		Ingredients: []model.Ingredient{
			{IngredientPKID: "a", RecipeID: "R001", Name: "Paneer"},
			{IngredientPKID: "b", RecipeID: "R002", Name: "Salt"},
		},
		Interactions: []model.Interaction{
			{InteractionID: "i1", RecipeID: "R001", Type: model.InteractionCookAttempt, Rating: "5"},
			{InteractionID: "i2", RecipeID: "R001", Type: model.InteractionCookAttempt, Rating: "4"},
			{InteractionID: "i3", RecipeID: "R002", Type: model.InteractionCookAttempt, Rating: "2"},
		},
	}

	freq := New(5).HighRatedIngredientFrequency(tables)
	if len(freq) != 1 || freq[0].Name != "Paneer" {
		t.Errorf("freq = %v, want only Paneer (R002 mean below 4.0)", freq)
	}
}

func TestMeanRatingByDifficulty(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R001", Difficulty: "Easy"},
			{RecipeID: "R002", Difficulty: "Hard"},
		},
		Interactions: []model.Interaction{
			{InteractionID: "i1", RecipeID: "R001", Type: model.InteractionCookAttempt, Rating: "4"},
			{InteractionID: "i2", RecipeID: "R001", Type: model.InteractionCookAttempt, Rating: "5"},
			{InteractionID: "i3", RecipeID: "R002", Type: model.InteractionCookAttempt, Rating: "3"},
			{InteractionID: "i4", RecipeID: "R001", Type: model.InteractionLike, Rating: "1"}, // not a cook attempt
		},
	}

	means := New(5).MeanRatingByDifficulty(tables)
	if len(means) != 2 {
		t.Fatalf("groups = %d, want 2", len(means))
	}
	if means[0].Value != "Easy" || means[0].Mean != 4.5 {
		t.Errorf("top group = %+v, want Easy:4.5", means[0])
	}
}

func TestMeanStepCount(t *testing.T) {
	tables := &model.Tables{
		Steps: []model.Step{
			{StepPKID: "a", RecipeID: "R001"},
			{StepPKID: "b", RecipeID: "R001"},
			{StepPKID: "c", RecipeID: "R001"},
			{StepPKID: "d", RecipeID: "R002"},
		},
	}

	if got := New(5).MeanStepCount(tables); got != 2 {
		t.Errorf("mean steps = %v, want 2", got)
	}
}

func TestCookAttemptPercentage(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{{RecipeID: "R001"}, {RecipeID: "R002"}, {RecipeID: "R003"}, {RecipeID: "R004"}},
		Interactions: []model.Interaction{
			{InteractionID: "i1", RecipeID: "R001", Type: model.InteractionCookAttempt},
			{InteractionID: "i2", RecipeID: "R001", Type: model.InteractionCookAttempt},
			{InteractionID: "i3", RecipeID: "R002", Type: model.InteractionCookAttempt},
			{InteractionID: "i4", RecipeID: "R003", Type: model.InteractionView},
		},
	}

	pct, attempted, total := New(5).CookAttemptPercentage(tables)
	if attempted != 2 || total != 4 {
		t.Fatalf("attempted/total = %d/%d, want 2/4", attempted, total)
	}
	if pct != 50 {
		t.Errorf("pct = %v, want 50", pct)
	}
}

func TestMostLikedByUniqueUsers_DuplicatesCountOnce(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{{RecipeID: "R005", Name: "Poha"}, {RecipeID: "R006", Name: "Upma"}},
	}
	like := func(recipeID, userID string) model.Interaction {
		return model.Interaction{InteractionID: "x", RecipeID: recipeID, UserID: userID, Type: model.InteractionLike}
	}
	// R005: liked 3x by U1 and 2x by U2 -> 2 distinct users
	tables.Interactions = []model.Interaction{
		like("R005", "U1"), like("R005", "U1"), like("R005", "U1"),
		like("R005", "U2"), like("R005", "U2"),
		like("R006", "U3"),
	}

	top, ok := New(5).MostLikedByUniqueUsers(tables)
	if !ok {
		t.Fatal("expected a result")
	}
	if top.RecipeID != "R005" || top.Count != 2 {
		t.Errorf("top = %+v, want R005 with 2 distinct users", top)
	}
}

func TestPrepTimeLikeCorrelation(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R001", PrepTimeMinutes: "10"},
			{RecipeID: "R002", PrepTimeMinutes: "20"},
			{RecipeID: "R003", PrepTimeMinutes: "30"},
		},
	}
	like := func(recipeID string, n int) {
		for i := 0; i < n; i++ {
			tables.Interactions = append(tables.Interactions,
				model.Interaction{InteractionID: "x", RecipeID: recipeID, Type: model.InteractionLike})
		}
	}
	like("R001", 1)
	like("R002", 2)
	like("R003", 3)

	c := New(5).PrepTimeLikeCorrelation(tables)
	if math.Abs(c-1) > 1e-9 {
		t.Errorf("correlation = %v, want 1 (perfectly linear)", c)
	}
}

func TestEmptyTablesYieldDefinedResults(t *testing.T) {
	e := New(5)
	empty := &model.Tables{}

	if freq := e.IngredientFrequency(empty); len(freq) != 0 {
		t.Errorf("ingredient frequency = %v, want empty", freq)
	}
	if mean, n := e.MeanPrepTime(empty); mean != 0 || n != 0 {
		t.Errorf("mean prep time = (%v, %d), want (0, 0)", mean, n)
	}
	if dist, _ := e.DifficultyDistribution(empty); len(dist) != 0 {
		t.Errorf("distribution = %v, want empty", dist)
	}
	if c := e.PrepTimeLikeCorrelation(empty); c != 0 {
		t.Errorf("correlation = %v, want 0", c)
	}
	if top := e.TopViewed(empty); len(top) != 0 {
		t.Errorf("top viewed = %v, want empty", top)
	}
	if pct, _, _ := e.CookAttemptPercentage(empty); pct != 0 {
		t.Errorf("cook attempt pct = %v, want 0", pct)
	}
	if _, ok := e.MostLikedByUniqueUsers(empty); ok {
		t.Error("most liked on empty tables should report ok=false")
	}
	if mean := e.MeanStepCount(empty); mean != 0 {
		t.Errorf("mean steps = %v, want 0", mean)
	}
	if insights := e.Insights(empty); len(insights) != 11 {
		t.Errorf("insights = %d, want 11", len(insights))
	}
}
