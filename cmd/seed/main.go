package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/tastestack/backend/config"
	"github.com/tastestack/backend/internal/database"
	"github.com/tastestack/backend/internal/models"
	"github.com/tastestack/backend/internal/service"
)

type seedRecipe struct {
	input service.RecipeInput
	owner string
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	users := map[string]models.User{}
	for _, u := range []struct {
		name, email string
	}{
		{"Alice Baker", "alice@example.com"},
		{"Bruno Costa", "bruno@example.com"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := models.User{Name: u.name, Email: u.email, PasswordHash: string(hash)}
		if err := db.Where("email = ?", u.email).FirstOrCreate(&user).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}
		users[u.email] = user
	}

	recipes := []seedRecipe{
		{
			owner: "alice@example.com",
			input: service.RecipeInput{
				Title:        "Classic Tomato Pasta",
				Description:  "Weeknight pasta with a slow-simmered tomato sauce.",
				Ingredients:  []string{"400g spaghetti", "2 cans crushed tomatoes", "3 cloves garlic", "olive oil", "basil"},
				Instructions: []string{"Simmer tomatoes with garlic for 20 minutes.", "Boil pasta until al dente.", "Toss and finish with basil."},
				PrepTime:     10,
				CookTime:     25,
				Servings:     4,
				Difficulty:   models.DifficultyEasy,
				Categories:   []string{"Dinner", "Vegetarian"},
			},
		},
		{
			owner: "bruno@example.com",
			input: service.RecipeInput{
				Title:        "Green Shakshuka",
				Description:  "Eggs poached in a spinach and herb base.",
				Ingredients:  []string{"6 eggs", "300g spinach", "1 onion", "cumin", "feta"},
				Instructions: []string{"Wilt spinach with onion and cumin.", "Make wells and crack in the eggs.", "Cover until the whites set."},
				PrepTime:     15,
				CookTime:     20,
				Servings:     3,
				Difficulty:   models.DifficultyMedium,
				Categories:   []string{"Breakfast", "Vegetarian", "Gluten-Free"},
			},
		},
		{
			owner: "bruno@example.com",
			input: service.RecipeInput{
				Title:        "Chocolate Olive Oil Cake",
				Description:  "A dense, glossy cake that needs no mixer.",
				Ingredients:  []string{"200g dark chocolate", "150ml olive oil", "4 eggs", "150g sugar", "50g flour"},
				Instructions: []string{"Melt chocolate with oil.", "Whisk eggs and sugar, fold everything together.", "Bake at 170C for 35 minutes."},
				PrepTime:     20,
				CookTime:     35,
				Servings:     8,
				Difficulty:   models.DifficultyHard,
				Categories:   []string{"Dessert"},
			},
		},
	}

	recipeService := service.NewRecipeService(db)
	for _, r := range recipes {
		owner := users[r.owner]
		var count int64
		if err := db.Model(&models.Recipe{}).
			Where("title = ? AND author_id = ?", r.input.Title, owner.ID).
			Count(&count).Error; err != nil {
			log.Fatalf("Failed to check for existing recipe: %v", err)
		}
		if count > 0 {
			continue
		}
		if _, err := recipeService.Create(owner.ID, r.input); err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", r.input.Title, err)
		}
	}

	log.Printf("Seeded %d users and %d recipes", len(users), len(recipes))
}
