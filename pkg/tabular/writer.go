// pkg/tabular/writer.go
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Output file names, one per normalized entity. users.csv is the read-only
// reference set exported alongside so downstream validation can resolve
// user_id foreign keys without the document store.
const (
	RecipeFile       = "recipe.csv"
	IngredientsFile  = "ingredients.csv"
	StepsFile        = "steps.csv"
	InteractionsFile = "interactions.csv"
	UsersFile        = "users.csv"
)

// Column headers, snake_case, fixed order.
var (
	recipeHeader       = []string{"recipe_id", "name", "difficulty", "prep_time_minutes", "cook_time_minutes"}
	ingredientsHeader  = []string{"ingredient_pk_id", "recipe_id", "name", "quantity", "unit"}
	stepsHeader        = []string{"step_pk_id", "recipe_id", "step_number", "instruction_text"}
	interactionsHeader = []string{"interaction_id", "user_id", "recipe_id", "type", "rating", "timestamp"}
	usersHeader        = []string{"user_id", "username", "join_date"}
)

// WriteTables writes the normalized tables as UTF-8 CSV files with header
// rows into dir, creating it if needed.
func WriteTables(dir string, t *model.Tables) error {
	logger := zap.L().Named("tabular")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	files := []struct {
		name    string
		header  []string
		records [][]string
	}{
		{RecipeFile, recipeHeader, recipeRecords(t.Recipes)},
		{IngredientsFile, ingredientsHeader, ingredientRecords(t.Ingredients)},
		{StepsFile, stepsHeader, stepRecords(t.Steps)},
		{InteractionsFile, interactionsHeader, interactionRecords(t.Interactions)},
		{UsersFile, usersHeader, userRecords(t.Users)},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.header, f.records); err != nil {
			return err
		}
		logger.Info("Exported table",
			zap.String("file", path),
			zap.Int("rows", len(f.records)))
	}

	return nil
}

func writeFile(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}

func recipeRecords(rows []model.Recipe) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.RecipeID, r.Name, r.Difficulty, r.PrepTimeMinutes, r.CookTimeMinutes})
	}
	return out
}

func ingredientRecords(rows []model.Ingredient) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.IngredientPKID, r.RecipeID, r.Name, r.Quantity, r.Unit})
	}
	return out
}

func stepRecords(rows []model.Step) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.StepPKID, r.RecipeID, r.StepNumber, r.InstructionText})
	}
	return out
}

func interactionRecords(rows []model.Interaction) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.InteractionID, r.UserID, r.RecipeID, r.Type, r.Rating, r.Timestamp})
	}
	return out
}

func userRecords(rows []model.User) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.UserID, r.Username, r.JoinDate})
	}
	return out
}
