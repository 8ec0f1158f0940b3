// pkg/tabular/reader.go
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tastelab/recipe-ingress/pkg/model"
)

// ReadTables loads a previously exported directory back into memory so the
// validator, analytics and charts can run standalone. A missing users.csv is
// tolerated; every other file is required.
func ReadTables(dir string) (*model.Tables, error) {
	t := &model.Tables{}

	recipes, err := readFile(filepath.Join(dir, RecipeFile), len(recipeHeader))
	if err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		t.Recipes = append(t.Recipes, model.Recipe{
			RecipeID:        rec[0],
			Name:            rec[1],
			Difficulty:      rec[2],
			PrepTimeMinutes: rec[3],
			CookTimeMinutes: rec[4],
		})
	}

	ingredients, err := readFile(filepath.Join(dir, IngredientsFile), len(ingredientsHeader))
	if err != nil {
		return nil, err
	}
	for _, rec := range ingredients {
		t.Ingredients = append(t.Ingredients, model.Ingredient{
			IngredientPKID: rec[0],
			RecipeID:       rec[1],
			Name:           rec[2],
			Quantity:       rec[3],
			Unit:           rec[4],
		})
	}

	steps, err := readFile(filepath.Join(dir, StepsFile), len(stepsHeader))
	if err != nil {
		return nil, err
	}
	for _, rec := range steps {
		t.Steps = append(t.Steps, model.Step{
			StepPKID:        rec[0],
			RecipeID:        rec[1],
			StepNumber:      rec[2],
			InstructionText: rec[3],
		})
	}

	interactions, err := readFile(filepath.Join(dir, InteractionsFile), len(interactionsHeader))
	if err != nil {
		return nil, err
	}
	for _, rec := range interactions {
		t.Interactions = append(t.Interactions, model.Interaction{
			InteractionID: rec[0],
			UserID:        rec[1],
			RecipeID:      rec[2],
			Type:          rec[3],
			Rating:        rec[4],
			Timestamp:     rec[5],
		})
	}

	usersPath := filepath.Join(dir, UsersFile)
	if _, err := os.Stat(usersPath); err == nil {
		users, err := readFile(usersPath, len(usersHeader))
		if err != nil {
			return nil, err
		}
		for _, rec := range users {
			t.Users = append(t.Users, model.User{
				UserID:   rec[0],
				Username: rec[1],
				JoinDate: rec[2],
			})
		}
	}

	return t, nil
}

// readFile reads a CSV file, drops the header row and verifies field count.
func readFile(path string, fields int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = fields

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header row", path)
	}
	return records[1:], nil
}
