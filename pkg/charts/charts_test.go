package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tastelab/recipe-ingress/pkg/analytics"
	"github.com/tastelab/recipe-ingress/pkg/model"
)

func TestRenderAll_WritesChartFiles(t *testing.T) {
	tables := &model.Tables{
		Recipes: []model.Recipe{
			{RecipeID: "R001", Name: "Masala Rice", Difficulty: "Easy"},
			{RecipeID: "R002", Name: "Paneer Tikka", Difficulty: "Medium"},
		},
		Ingredients: []model.Ingredient{
			{IngredientPKID: "a", RecipeID: "R001", Name: "Salt"},
			{IngredientPKID: "b", RecipeID: "R002", Name: "Salt"},
			{IngredientPKID: "c", RecipeID: "R002", Name: "Paneer"},
		},
		Interactions: []model.Interaction{
			{InteractionID: "i1", UserID: "U001", RecipeID: "R001", Type: model.InteractionView},
			{InteractionID: "i2", UserID: "U001", RecipeID: "R002", Type: model.InteractionView},
			{InteractionID: "i3", UserID: "U001", RecipeID: "R001", Type: model.InteractionCookAttempt, Rating: "4"},
		},
	}

	dir := t.TempDir()
	if err := New(analytics.New(5)).RenderAll(dir, tables); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}

	for _, name := range []string{
		"01_difficulty_distribution.png",
		"02_top_viewed_recipes.png",
		"03_avg_rating_by_difficulty.png",
		"04_top_common_ingredients.png",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("chart %s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("chart %s is empty", name)
		}
	}
}

func TestRenderAll_EmptyTablesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := New(analytics.New(5)).RenderAll(dir, &model.Tables{}); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("wrote %d files for empty tables, want 0", len(entries))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 18); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long ingredient name indeed", 10); len([]rune(got)) != 10 {
		t.Errorf("truncate length = %d, want 10 runes", len([]rune(got)))
	}

	// multibyte names must be measured and cut in runes, not bytes
	got := truncate("Crème brûlée à la Café Früh", 12)
	if len([]rune(got)) != 12 {
		t.Errorf("truncate length = %d, want 12 runes", len([]rune(got)))
	}
	for _, r := range got {
		if r == '�' {
			t.Errorf("truncate produced a broken rune in %q", got)
		}
	}
	if got := truncate("àààààààààà", 10); got != "àààààààààà" {
		t.Errorf("truncate(%q) = %q, want unchanged", "àààààààààà", got)
	}
}
