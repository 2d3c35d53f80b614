package models

import "time"

// Categories and difficulties are fixed sets; the client renders them as selects.
const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
	CategoryDessert   = "dessert"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// FoodTypes a recipe can be tagged with.
var FoodTypes = []string{"baked", "sweet", "fresh", "cold", "warm", "spicy", "natural", "energetic"}

type Recipe struct {
	ID           int       `json:"id"`
	AuthorID     int       `json:"author_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	PrepTime     int       `json:"prep_time"` // minutes
	CookTime     int       `json:"cook_time"` // minutes
	Servings     int       `json:"servings"`
	Difficulty   string    `json:"difficulty"`
	IsFeatured   bool      `json:"is_featured"`
	ImageURL     string    `json:"image_url"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	FoodTypes    []string  `json:"food_types"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryDessert:
		return true
	}
	return false
}

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func ValidFoodType(t string) bool {
	for _, ft := range FoodTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// RecipeFilter narrows a listing; zero values mean "no constraint".
type RecipeFilter struct {
	Category    string
	Difficulty  string
	FoodTypes   []string // match if recipe has any of these
	MaxPrepTime int
	AuthorID    int
	Featured    *bool
}
