package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tastelab/recipe-ingress/pkg/config"
	"github.com/tastelab/recipe-ingress/pkg/model"
	"github.com/tastelab/recipe-ingress/pkg/tabular"
)

// fakeSource serves canned collections from memory.
type fakeSource struct {
	collections map[string][]model.Document
	failOn      string
}

func (f *fakeSource) FetchCollection(ctx context.Context, collection string) ([]model.Document, error) {
	if collection == f.failOn {
		return nil, fmt.Errorf("collection %s unavailable", collection)
	}
	return f.collections[collection], nil
}

func (f *fakeSource) Validate() error { return nil }
func (f *fakeSource) Close() error    { return nil }

func testSource() *fakeSource {
	return &fakeSource{
		collections: map[string][]model.Document{
			model.CollectionRecipes: {
				{ID: "R001", Body: map[string]interface{}{
					"recipe_id":         "R001",
					"name":              "Masala Rice",
					"difficulty":        "Easy",
					"prep_time_minutes": float64(10),
					"cook_time_minutes": float64(20),
					"ingredients": []interface{}{
						map[string]interface{}{"name": "Basmati rice", "quantity": 1.5, "unit": "cups"},
						map[string]interface{}{"name": "Coriander leaves", "unit": "garnish"},
					},
					"steps": []interface{}{
						map[string]interface{}{"description": "Rinse the rice"},
						map[string]interface{}{"description": "Cook until fluffy"},
					},
				}},
			},
			model.CollectionUsers: {
				{ID: "U001", Body: map[string]interface{}{
					"user_id":   "U001",
					"username":  "anita_k",
					"join_date": "2024-01-05T00:00:00Z",
				}},
			},
			model.CollectionInteractions: {
				{ID: "i-1", Body: map[string]interface{}{
					"interaction_id":   "i-1",
					"user_id":          "U001",
					"recipe_id":        "R001",
					"interaction_type": "VIEW",
					"timestamp":        "2025-03-14T09:26:53Z",
				}},
				{ID: "i-2", Body: map[string]interface{}{
					"interaction_id":   "i-2",
					"user_id":          "U001",
					"recipe_id":        "R999", // dangling recipe reference
					"interaction_type": "COOK_ATTEMPT",
					"rating":           float64(5),
					"timestamp":        "2025-03-15T18:00:00Z",
				}},
			},
		},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.ReportFile = filepath.Join(dir, "report.txt")
	return cfg
}

func TestNew_NilGuards(t *testing.T) {
	if _, err := New(nil, config.Default()); err == nil {
		t.Error("expected an error for a nil source")
	}
	if _, err := New(testSource(), nil); err == nil {
		t.Error("expected an error for a nil config")
	}
	cfg := config.Default()
	cfg.KeyStrategy = "sequential"
	if _, err := New(testSource(), cfg); err == nil {
		t.Error("expected an error for an unknown key strategy")
	}
}

func TestRun_ProducesTablesAndReport(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(testSource(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.DocsFetched[model.CollectionRecipes] != 1 {
		t.Errorf("recipes fetched = %d, want 1", result.DocsFetched[model.CollectionRecipes])
	}
	if result.RowsNormalized["ingredients"] != 2 || result.RowsNormalized["steps"] != 2 {
		t.Errorf("rows normalized = %v", result.RowsNormalized)
	}
	if result.TotalRows() != 7 {
		t.Errorf("total rows = %d, want 7", result.TotalRows())
	}
	// i-2 references an unknown recipe
	if result.HardViolations == 0 {
		t.Error("expected at least one hard violation from the dangling recipe_id")
	}
	// one ingredient without a quantity
	if result.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", result.Warnings)
	}
	if result.Duration <= 0 {
		t.Errorf("duration = %v, want positive", result.Duration)
	}

	tables, err := tabular.ReadTables(cfg.OutputDir)
	if err != nil {
		t.Fatalf("ReadTables: %v", err)
	}
	if len(tables.Recipes) != 1 || len(tables.Interactions) != 2 || len(tables.Users) != 1 {
		t.Errorf("exported tables = %+v", tables)
	}
	if tables.Steps[0].StepNumber != "1" || tables.Steps[1].StepNumber != "2" {
		t.Errorf("step numbers = %s, %s, want 1, 2", tables.Steps[0].StepNumber, tables.Steps[1].StepNumber)
	}
	if tables.Interactions[0].Timestamp != "2025-03-14T09:26:53" {
		t.Errorf("timestamp = %q, want canonical form", tables.Interactions[0].Timestamp)
	}

	report, err := os.ReadFile(cfg.ReportFile)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "referential_integrity") {
		t.Errorf("report missing referential_integrity section:\n%s", report)
	}
}

func TestRun_SourceFailureIsFatal(t *testing.T) {
	src := testSource()
	src.failOn = model.CollectionInteractions

	p, err := New(src, testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("expected an error when a collection cannot be fetched")
	}
}

func TestRun_ContentKeysAreDeterministic(t *testing.T) {
	runOnce := func() *model.Tables {
		cfg := testConfig(t)
		cfg.KeyStrategy = "content"
		p, err := New(testSource(), cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, err := p.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		tables, err := tabular.ReadTables(cfg.OutputDir)
		if err != nil {
			t.Fatalf("ReadTables: %v", err)
		}
		return tables
	}

	first := runOnce()
	second := runOnce()
	for i := range first.Ingredients {
		if first.Ingredients[i].IngredientPKID != second.Ingredients[i].IngredientPKID {
			t.Errorf("ingredient key %d differs across runs: %s vs %s",
				i, first.Ingredients[i].IngredientPKID, second.Ingredients[i].IngredientPKID)
		}
	}
}
