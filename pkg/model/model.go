// pkg/model/model.go
package model

// Document is a single record fetched from a document-store collection.
// The source enforces no schema, so the body is an open map and any field
// may be absent.
type Document struct {
	ID   string
	Body map[string]interface{}
}

// Get returns a body field, or nil when the field is absent.
func (d Document) Get(field string) interface{} {
	if d.Body == nil {
		return nil
	}
	return d.Body[field]
}

// Collection names expected at the input boundary.
const (
	CollectionRecipes      = "recipes"
	CollectionUsers        = "users"
	CollectionInteractions = "interactions"
)

// Difficulty enumeration (case-sensitive exact match).
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Interaction type enumeration.
const (
	InteractionView        = "VIEW"
	InteractionLike        = "LIKE"
	InteractionCookAttempt = "COOK_ATTEMPT"
)

// Difficulties lists the valid difficulty values.
func Difficulties() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// InteractionTypes lists the valid interaction type values.
func InteractionTypes() []string {
	return []string{InteractionView, InteractionLike, InteractionCookAttempt}
}

// All row fields are strings; absence is the empty string. Numeric and
// timestamp fields hold a canonical textual rendering produced by the
// normalizer, so the tables round-trip through the delimited output
// without loss.

// Recipe is one normalized recipe row.
type Recipe struct {
	RecipeID        string
	Name            string
	Difficulty      string
	PrepTimeMinutes string
	CookTimeMinutes string
}

// Ingredient is one flattened ingredient row. IngredientPKID is a surrogate
// key generated at normalization time; RecipeID references the owning Recipe.
type Ingredient struct {
	IngredientPKID string
	RecipeID       string
	Name           string
	Quantity       string
	Unit           string
}

// Step is one flattened step row. StepNumber is the 1-based position of the
// step in the source array.
type Step struct {
	StepPKID        string
	RecipeID        string
	StepNumber      string
	InstructionText string
}

// Interaction is one user/recipe interaction row. Rating is optional and the
// normalizer copies it verbatim even when the type does not allow one; the
// validator classifies that.
type Interaction struct {
	InteractionID string
	UserID        string
	RecipeID      string
	Type          string
	Rating        string
	Timestamp     string
}

// User is a read-only reference row used to resolve user_id foreign keys.
type User struct {
	UserID   string
	Username string
	JoinDate string
}

// Tables holds the four normalized row sets plus the user reference set for
// one run. Immutable once produced by the normalizer.
type Tables struct {
	Recipes      []Recipe
	Ingredients  []Ingredient
	Steps        []Step
	Interactions []Interaction
	Users        []User
}

// HasRecipe reports whether a recipe_id resolves to a Recipe row.
func (t *Tables) HasRecipe(recipeID string) bool {
	for _, r := range t.Recipes {
		if r.RecipeID == recipeID {
			return true
		}
	}
	return false
}

// RecipeName returns the name of a recipe, or the id itself when unknown.
func (t *Tables) RecipeName(recipeID string) string {
	for _, r := range t.Recipes {
		if r.RecipeID == recipeID {
			return r.Name
		}
	}
	return recipeID
}
