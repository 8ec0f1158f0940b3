// pkg/source/seed.go
package source

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/config"
	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Seeder provisions the document store and loads the sample dataset: one
// hand-written recipe, nineteen synthetic ones, ten users and a batch of
// interactions. A configurable fraction of interactions carries a rating on
// VIEW/LIKE rows, which the validator is expected to flag.
type Seeder struct {
	store  *Store
	logger *zap.Logger
	rng    *rand.Rand
	cfg    config.SeedConfig
}

// NewSeeder creates a Seeder bound to a store.
func NewSeeder(store *Store, cfg config.SeedConfig) (*Seeder, error) {
	if store == nil {
		return nil, errors.New("document store cannot be nil")
	}
	return &Seeder{
		store:  store,
		logger: zap.L().Named("seeder"),
		rng:    rand.New(rand.NewSource(cfg.RNGSeed)),
		cfg:    cfg,
	}, nil
}

// Run provisions the store and replaces the three collections.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.store.Provision(ctx); err != nil {
		return err
	}

	recipes := append([]map[string]interface{}{masalaRiceRecipe()}, s.syntheticRecipes()...)
	users := s.sampleUsers()
	interactions := s.sampleInteractions(users, recipes)

	collections := []struct {
		name    string
		idField string
		docs    []map[string]interface{}
	}{
		{model.CollectionRecipes, "recipe_id", recipes},
		{model.CollectionUsers, "user_id", users},
		{model.CollectionInteractions, "interaction_id", interactions},
	}

	for _, c := range collections {
		if err := s.store.Clear(ctx, c.name); err != nil {
			return err
		}
		for _, doc := range c.docs {
			docID, _ := doc[c.idField].(string)
			if docID == "" {
				docID = uuid.New().String()
			}
			if err := s.store.PutDocument(ctx, c.name, docID, doc); err != nil {
				return fmt.Errorf("failed to seed %s: %w", c.name, err)
			}
		}
		s.logger.Info("Seeded collection",
			zap.String("collection", c.name),
			zap.Int("documents", len(c.docs)))
	}

	return nil
}

// masalaRiceRecipe is the one fully hand-written document in the dataset.
func masalaRiceRecipe() map[string]interface{} {
	ingredients := []map[string]interface{}{
		{"name": "Rice (Prefer Basmati Rice)", "quantity": 1.5, "unit": "cup"},
		{"name": "Water", "quantity": 3, "unit": "cups"},
		{"name": "Red Chilli Powder", "quantity": 2, "unit": "spoons"},
		{"name": "Haldi Powder", "quantity": 1, "unit": "spoon"},
		{"name": "Coriander Powder", "quantity": 2, "unit": "spoons"},
		{"name": "Garam Masala", "quantity": 0.5, "unit": "spoon"},
		{"name": "Salt", "quantity": 2, "unit": "spoons"},
		{"name": "Cumin seeds", "quantity": 1, "unit": "spoon"},
		{"name": "Ginger Garlic paste", "quantity": 1, "unit": "spoon"},
		{"name": "Onion", "quantity": 1, "unit": "whole"},
		{"name": "Tomato", "quantity": 1, "unit": "whole"},
		{"name": "Potato", "quantity": 1, "unit": "whole"},
		{"name": "Coriander leaves", "quantity": nil, "unit": "garnish"},
	}

	stepTexts := []string{
		"Wash and soak rice for 10 minutes.",
		"Heat pan/kadhai.",
		"Heat oil. Add Cumin seeds, then Ginger Garlic paste.",
		"Add chopped Onion and cook until golden brown.",
		"Add potato cubes and saute.",
		"Add chopped tomatoes and all masalas from the ingredient list. Stir.",
		"Cover and cook for 2-3 mins until oil separates.",
		"Add soaked rice and mix well with masala.",
		"Add 3 cups of water. Cover and cook for 10 minutes on medium-high flame.",
		"Lower flame, keep covered for 2-3 minutes to enhance taste with steam.",
		"Open lid, add chopped coriander leaves, and fluff the rice. Serve hot.",
	}
	steps := make([]map[string]interface{}, 0, len(stepTexts))
	for i, text := range stepTexts {
		steps = append(steps, map[string]interface{}{
			"step_number": i + 1,
			"description": text,
		})
	}

	return map[string]interface{}{
		"recipe_id":         "R001",
		"name":              "Masala Rice",
		"serves":            2,
		"prep_time_minutes": 15,
		"cook_time_minutes": 25,
		"difficulty":        model.DifficultyMedium,
		"created_at":        time.Now().UTC().Format(time.RFC3339),
		"ingredients":       ingredients,
		"steps":             steps,
	}
}

var recipeNames = []string{
	"Paneer Butter Masala", "Chicken Biryani", "Veg Hakka Noodles", "Aloo Paratha", "Egg Curry",
	"Palak Paneer", "Dal Tadka", "Chole Bhature", "Fish Fry", "Matar Paneer",
	"Pav Bhaji", "Sambar Rice", "Veg Fried Rice", "Chicken Curry", "Besan Ladoo",
	"Gajar Halwa", "Upma", "Poha", "Veg Sandwich",
}

var ingredientNames = []string{
	"Salt", "Turmeric", "Cumin Seeds", "Onion", "Tomato", "Ginger", "Garlic", "Green Chilli",
	"Oil", "Butter", "Milk", "Rice", "Wheat Flour", "Black Pepper",
	"Coriander Powder", "Chilli Powder", "Paneer", "Chicken", "Eggs",
	"Potato", "Carrot", "Peas",
}

var userNames = []string{
	"Aarav Sharma", "Isha Patel", "Rohan Mehta", "Ananya Singh",
	"Kabir Khanna", "Meera Joshi", "Sahil Verma", "Tanya Kapoor",
	"Vikram Nair", "Shruti Deshmukh",
}

func (s *Seeder) syntheticRecipes() []map[string]interface{} {
	recipes := make([]map[string]interface{}, 0, len(recipeNames))
	difficulties := model.Difficulties()

	for i, name := range recipeNames {
		recipeID := fmt.Sprintf("R%03d", i+2)

		nIngredients := 4 + s.rng.Intn(7)
		ingredients := make([]map[string]interface{}, 0, nIngredients)
		for j := 0; j < nIngredients; j++ {
			ingredients = append(ingredients, map[string]interface{}{
				"name":     ingredientNames[s.rng.Intn(len(ingredientNames))],
				"quantity": float64(int((0.1+s.rng.Float64()*2.9)*100)) / 100,
				"unit":     []string{"cup", "tsp", "tbsp", "g", "ml", "whole"}[s.rng.Intn(6)],
			})
		}

		nSteps := 3 + s.rng.Intn(5)
		steps := make([]map[string]interface{}, 0, nSteps)
		for k := 0; k < nSteps; k++ {
			steps = append(steps, map[string]interface{}{
				"step_number": k + 1,
				"description": fmt.Sprintf("Step %d: Follow standard cooking procedure.", k+1),
			})
		}

		recipes = append(recipes, map[string]interface{}{
			"recipe_id":         recipeID,
			"name":              name,
			"serves":            1 + s.rng.Intn(6),
			"prep_time_minutes": 5 + s.rng.Intn(26),
			"cook_time_minutes": 10 + s.rng.Intn(51),
			"difficulty":        difficulties[s.rng.Intn(len(difficulties))],
			"created_at":        time.Now().UTC().AddDate(0, 0, -(1 + s.rng.Intn(365))).Format(time.RFC3339),
			"ingredients":       ingredients,
			"steps":             steps,
		})
	}
	return recipes
}

func (s *Seeder) sampleUsers() []map[string]interface{} {
	users := make([]map[string]interface{}, 0, len(userNames))
	for i, name := range userNames {
		users = append(users, map[string]interface{}{
			"user_id":   fmt.Sprintf("U%03d", i+1),
			"username":  name,
			"join_date": time.Now().UTC().AddDate(0, 0, -(10 + s.rng.Intn(490))).Format(time.RFC3339),
		})
	}
	return users
}

func (s *Seeder) sampleInteractions(users, recipes []map[string]interface{}) []map[string]interface{} {
	var interactions []map[string]interface{}

	randomUser := func() string {
		return users[s.rng.Intn(len(users))]["user_id"].(string)
	}
	randomRecipe := func() string {
		return recipes[s.rng.Intn(len(recipes))]["recipe_id"].(string)
	}
	timestamp := func(maxMinutesAgo int) string {
		return time.Now().UTC().Add(-time.Duration(1+s.rng.Intn(maxMinutesAgo)) * time.Minute).Format(time.RFC3339)
	}

	add := func(userID, recipeID, kind string, rating interface{}, ts string) {
		interactions = append(interactions, map[string]interface{}{
			"interaction_id":   uuid.New().String(),
			"user_id":          userID,
			"recipe_id":        recipeID,
			"interaction_type": kind,
			"rating":           rating,
			"timestamp":        ts,
		})
	}

	// 70/20/10 weighting across VIEW/LIKE/COOK_ATTEMPT
	for i := 0; i < 50; i++ {
		kind := model.InteractionView
		switch roll := s.rng.Intn(10); {
		case roll >= 9:
			kind = model.InteractionCookAttempt
		case roll >= 7:
			kind = model.InteractionLike
		}

		var rating interface{}
		if kind == model.InteractionCookAttempt {
			rating = 3 + s.rng.Intn(3)
		} else if s.rng.Float64() < s.cfg.DirtyRate {
			// rule-breaking rating on a VIEW/LIKE row
			rating = 3 + s.rng.Intn(3)
		}

		add(randomUser(), randomRecipe(), kind, rating, timestamp(1000))
	}

	// extra engagement for the flagship recipe
	for i := 0; i < 5; i++ {
		add(randomUser(), "R001", model.InteractionLike, nil, timestamp(50))
	}
	for i := 0; i < 3; i++ {
		add(randomUser(), "R001", model.InteractionCookAttempt, 4+s.rng.Intn(2), timestamp(50))
	}

	return interactions
}
