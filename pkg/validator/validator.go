// pkg/validator/validator.go
package validator

import (
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Class identifies a violation class in the quality report.
type Class string

const (
	// ClassMissingRequired is a hard violation: an empty required scalar.
	ClassMissingRequired Class = "missing_required"
	// ClassMissingQuantity is a soft warning: ingredient quantity is
	// legitimately optional ("to taste") but still counted and reported.
	ClassMissingQuantity Class = "missing_quantity"
	// ClassInvalidEnum is a value outside its enumeration, case-sensitive.
	ClassInvalidEnum Class = "invalid_enum"
	// ClassRatingConsistency is a rating on an interaction type that does
	// not allow one. Only COOK_ATTEMPT may carry a rating.
	ClassRatingConsistency Class = "rating_consistency"
	// ClassReferential is a foreign key with no matching primary row.
	ClassReferential Class = "referential_integrity"
	// ClassStepSequence is a per-recipe step_number sequence that is not
	// exactly 1..N.
	ClassStepSequence Class = "step_sequence"
)

// Classes lists every violation class in report order.
func Classes() []Class {
	return []Class{
		ClassMissingRequired,
		ClassMissingQuantity,
		ClassInvalidEnum,
		ClassRatingConsistency,
		ClassReferential,
		ClassStepSequence,
	}
}

// Violation is one offending row with enough detail to locate it.
type Violation struct {
	Class  Class
	Table  string
	RowKey string
	Detail string
}

// Validator scans normalized tables for quality violations. It is read-only:
// input tables are never mutated, and detected violations never block the
// pipeline.
type Validator struct {
	logger *zap.Logger
}

// New creates a Validator.
func New() *Validator {
	return &Validator{logger: zap.L().Named("validator")}
}

var (
	difficultyRule = validation.In(model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard)
	typeRule       = validation.In(model.InteractionView, model.InteractionLike, model.InteractionCookAttempt)
)

// Validate produces the quality report for one set of normalized tables.
func (v *Validator) Validate(t *model.Tables) *Report {
	report := NewReport()
	report.SetTotal("recipe", len(t.Recipes))
	report.SetTotal("ingredients", len(t.Ingredients))
	report.SetTotal("steps", len(t.Steps))
	report.SetTotal("interactions", len(t.Interactions))

	recipeIDs := make(map[string]struct{}, len(t.Recipes))
	for _, r := range t.Recipes {
		recipeIDs[r.RecipeID] = struct{}{}
	}
	userIDs := make(map[string]struct{}, len(t.Users))
	for _, u := range t.Users {
		userIDs[u.UserID] = struct{}{}
	}

	v.checkRecipes(t.Recipes, report)
	v.checkIngredients(t.Ingredients, recipeIDs, report)
	v.checkSteps(t.Steps, recipeIDs, report)
	v.checkInteractions(t.Interactions, recipeIDs, userIDs, report)

	v.logger.Info("Validation complete",
		zap.Int("violations", report.TotalViolations()),
		zap.Int("rating_consistency", report.Count(ClassRatingConsistency)),
		zap.Int("referential", report.Count(ClassReferential)))

	return report
}

func (v *Validator) checkRecipes(recipes []model.Recipe, report *Report) {
	for _, r := range recipes {
		required := []struct{ column, value string }{
			{"name", r.Name},
			{"difficulty", r.Difficulty},
			{"prep_time_minutes", r.PrepTimeMinutes},
			{"cook_time_minutes", r.CookTimeMinutes},
		}
		for _, f := range required {
			if err := validation.Validate(f.value, validation.Required); err != nil {
				report.Add(Violation{
					Class:  ClassMissingRequired,
					Table:  "recipe",
					RowKey: r.RecipeID,
					Detail: fmt.Sprintf("missing required field: %s", f.column),
				})
			}
		}

		// an empty difficulty is already a missing_required hit
		if r.Difficulty != "" {
			if err := validation.Validate(r.Difficulty, difficultyRule); err != nil {
				report.Add(Violation{
					Class:  ClassInvalidEnum,
					Table:  "recipe",
					RowKey: r.RecipeID,
					Detail: fmt.Sprintf("invalid difficulty value: %s", r.Difficulty),
				})
			}
		}
	}
}

func (v *Validator) checkIngredients(ingredients []model.Ingredient, recipeIDs map[string]struct{}, report *Report) {
	for _, ing := range ingredients {
		if err := validation.Validate(ing.Name, validation.Required); err != nil {
			report.Add(Violation{
				Class:  ClassMissingRequired,
				Table:  "ingredients",
				RowKey: ing.IngredientPKID,
				Detail: "missing required field: name",
			})
		}

		if ing.Quantity == "" {
			report.Add(Violation{
				Class:  ClassMissingQuantity,
				Table:  "ingredients",
				RowKey: ing.IngredientPKID,
				Detail: "quantity is empty",
			})
		}

		if _, ok := recipeIDs[ing.RecipeID]; !ok {
			report.Add(Violation{
				Class:  ClassReferential,
				Table:  "ingredients",
				RowKey: ing.IngredientPKID,
				Detail: fmt.Sprintf("recipe_id %s has no matching recipe", ing.RecipeID),
			})
		}
	}
}

func (v *Validator) checkSteps(steps []model.Step, recipeIDs map[string]struct{}, report *Report) {
	// step_number sequences grouped by recipe, in table order
	sequences := make(map[string][]model.Step)
	var order []string

	for _, s := range steps {
		if _, ok := recipeIDs[s.RecipeID]; !ok {
			report.Add(Violation{
				Class:  ClassReferential,
				Table:  "steps",
				RowKey: s.StepPKID,
				Detail: fmt.Sprintf("recipe_id %s has no matching recipe", s.RecipeID),
			})
		}
		if _, seen := sequences[s.RecipeID]; !seen {
			order = append(order, s.RecipeID)
		}
		sequences[s.RecipeID] = append(sequences[s.RecipeID], s)
	}

	for _, recipeID := range order {
		for i, s := range sequences[recipeID] {
			num, err := strconv.Atoi(s.StepNumber)
			if err != nil {
				report.Add(Violation{
					Class:  ClassStepSequence,
					Table:  "steps",
					RowKey: s.StepPKID,
					Detail: fmt.Sprintf("non-numeric step_number: %q", s.StepNumber),
				})
				continue
			}
			if num != i+1 {
				report.Add(Violation{
					Class:  ClassStepSequence,
					Table:  "steps",
					RowKey: s.StepPKID,
					Detail: fmt.Sprintf("recipe %s step_number %d at position %d breaks the 1..N sequence", recipeID, num, i+1),
				})
			}
		}
	}
}

func (v *Validator) checkInteractions(interactions []model.Interaction, recipeIDs, userIDs map[string]struct{}, report *Report) {
	for _, in := range interactions {
		// In skips empty values, so Required keeps an empty type from
		// slipping past the membership check
		if err := validation.Validate(in.Type, validation.Required, typeRule); err != nil {
			report.Add(Violation{
				Class:  ClassInvalidEnum,
				Table:  "interactions",
				RowKey: in.InteractionID,
				Detail: fmt.Sprintf("invalid interaction type: %q", in.Type),
			})
		}

		// Only COOK_ATTEMPT may carry a rating. An empty rating on a
		// COOK_ATTEMPT is fine; rating is optional even there.
		if (in.Type == model.InteractionView || in.Type == model.InteractionLike) && in.Rating != "" {
			report.Add(Violation{
				Class:  ClassRatingConsistency,
				Table:  "interactions",
				RowKey: in.InteractionID,
				Detail: fmt.Sprintf("interaction type %s should not have a rating (found %s)", in.Type, in.Rating),
			})
		}

		if _, ok := recipeIDs[in.RecipeID]; !ok {
			report.Add(Violation{
				Class:  ClassReferential,
				Table:  "interactions",
				RowKey: in.InteractionID,
				Detail: fmt.Sprintf("recipe_id %s has no matching recipe", in.RecipeID),
			})
		}
		if _, ok := userIDs[in.UserID]; !ok {
			report.Add(Violation{
				Class:  ClassReferential,
				Table:  "interactions",
				RowKey: in.InteractionID,
				Detail: fmt.Sprintf("user_id %s has no matching user", in.UserID),
			})
		}
	}
}
