// pkg/normalizer/normalizer.go
package normalizer

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/keygen"
	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Normalizer flattens recipe documents with embedded ingredient and step
// arrays into independent row sets, generates surrogate keys and
// standardizes field types and names (snake_case output columns).
//
// It enforces no business rules: a rating on a VIEW row, an invalid
// difficulty, a dangling foreign key all pass through untouched for the
// validator to classify. Missing domain values stay empty, never defaulted.
type Normalizer struct {
	keys   keygen.Generator
	logger *zap.Logger
}

// Stats accumulates per-run counters. Held per run, not process-wide.
type Stats struct {
	SkippedRecipes      int // recipe documents missing recipe_id
	SkippedUsers        int // user documents missing user_id
	SkippedInteractions int // interaction documents missing interaction_id
	SkippedEmbedded     int // embedded entries that are not objects
	MalformedTimestamps int // timestamps replaced by the empty sentinel
}

// New creates a Normalizer using the given surrogate key generator.
func New(keys keygen.Generator) (*Normalizer, error) {
	if keys == nil {
		return nil, errors.New("key generator cannot be nil")
	}
	return &Normalizer{
		keys:   keys,
		logger: zap.L().Named("normalizer"),
	}, nil
}

// Normalize produces the four row sets plus the user reference set from raw
// documents. It never fails on individual bad records; those are skipped and
// counted in the returned stats.
func (n *Normalizer) Normalize(recipes, users, interactions []model.Document) (*model.Tables, *Stats) {
	tables := &model.Tables{}
	stats := &Stats{}

	for _, doc := range recipes {
		n.normalizeRecipe(doc, tables, stats)
	}
	for _, doc := range users {
		n.normalizeUser(doc, tables, stats)
	}
	for _, doc := range interactions {
		n.normalizeInteraction(doc, tables, stats)
	}

	n.logger.Info("Normalization complete",
		zap.Int("recipes", len(tables.Recipes)),
		zap.Int("ingredients", len(tables.Ingredients)),
		zap.Int("steps", len(tables.Steps)),
		zap.Int("interactions", len(tables.Interactions)),
		zap.Int("skipped_recipes", stats.SkippedRecipes),
		zap.Int("skipped_interactions", stats.SkippedInteractions),
		zap.Int("malformed_timestamps", stats.MalformedTimestamps))

	return tables, stats
}

func (n *Normalizer) normalizeRecipe(doc model.Document, tables *model.Tables, stats *Stats) {
	recipeID := toString(doc.Get("recipe_id"))
	if recipeID == "" {
		stats.SkippedRecipes++
		n.logger.Warn("Skipping recipe document with missing recipe_id",
			zap.String("doc_id", doc.ID),
			zap.String("name", toString(doc.Get("name"))))
		return
	}

	tables.Recipes = append(tables.Recipes, model.Recipe{
		RecipeID:        recipeID,
		Name:            toString(doc.Get("name")),
		Difficulty:      toString(doc.Get("difficulty")),
		PrepTimeMinutes: coerceNumber(doc.Get("prep_time_minutes")),
		CookTimeMinutes: coerceNumber(doc.Get("cook_time_minutes")),
	})

	for i, entry := range embeddedEntries(doc.Get("ingredients"), stats) {
		tables.Ingredients = append(tables.Ingredients, model.Ingredient{
			IngredientPKID: n.keys.NewKey("ingredients", recipeID, i+1),
			RecipeID:       recipeID,
			Name:           toString(entry["name"]),
			Quantity:       coerceNumber(entry["quantity"]),
			Unit:           toString(entry["unit"]),
		})
	}

	// step_number is the 1-based position in the source array, so source
	// order survives the flattening even when the embedded field disagrees
	for i, entry := range embeddedEntries(doc.Get("steps"), stats) {
		tables.Steps = append(tables.Steps, model.Step{
			StepPKID:        n.keys.NewKey("steps", recipeID, i+1),
			RecipeID:        recipeID,
			StepNumber:      coerceNumber(i + 1),
			InstructionText: toString(entry["description"]),
		})
	}
}

func (n *Normalizer) normalizeUser(doc model.Document, tables *model.Tables, stats *Stats) {
	userID := toString(doc.Get("user_id"))
	if userID == "" {
		stats.SkippedUsers++
		n.logger.Warn("Skipping user document with missing user_id", zap.String("doc_id", doc.ID))
		return
	}

	joinDate, _ := canonicalTimestamp(doc.Get("join_date"))
	tables.Users = append(tables.Users, model.User{
		UserID:   userID,
		Username: toString(doc.Get("username")),
		JoinDate: joinDate,
	})
}

func (n *Normalizer) normalizeInteraction(doc model.Document, tables *model.Tables, stats *Stats) {
	interactionID := toString(doc.Get("interaction_id"))
	if interactionID == "" {
		stats.SkippedInteractions++
		n.logger.Warn("Skipping interaction document with missing interaction_id",
			zap.String("doc_id", doc.ID))
		return
	}

	timestamp, ok := canonicalTimestamp(doc.Get("timestamp"))
	if !ok {
		stats.MalformedTimestamps++
		n.logger.Warn("Unparseable interaction timestamp passed through as empty",
			zap.String("interaction_id", interactionID))
	}

	tables.Interactions = append(tables.Interactions, model.Interaction{
		InteractionID: interactionID,
		UserID:        toString(doc.Get("user_id")),
		RecipeID:      toString(doc.Get("recipe_id")),
		Type:          toString(doc.Get("interaction_type")),
		Rating:        coerceNumber(doc.Get("rating")),
		Timestamp:     timestamp,
	})
}

// embeddedEntries coerces an embedded array field to a list of objects.
// An absent or empty array is a valid empty set. Entries that are not
// objects are skipped and counted.
func embeddedEntries(v interface{}, stats *Stats) []map[string]interface{} {
	raw, ok := v.([]interface{})
	if !ok {
		if v != nil {
			stats.SkippedEmbedded++
		}
		return nil
	}

	entries := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			stats.SkippedEmbedded++
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
