package services

import (
	"errors"
	"fmt"
	"strings"

	"pastelrecipes/internal/models"
	"pastelrecipes/internal/repositories"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNotRecipeAuthor = errors.New("not the recipe author")
)

type RecipeService interface {
	Create(recipe *models.Recipe) error
	GetByID(id int) (*models.Recipe, error)
	Update(userID int, recipe *models.Recipe) error
	Delete(userID, recipeID int) error
	List(filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error)
	Search(query string, limit int) ([]*models.Recipe, error)
	Featured(limit int) ([]*models.Recipe, error)
	ListByAuthor(authorID int) ([]*models.Recipe, error)
}

type recipeService struct {
	repo     repositories.RecipeRepository
	users    repositories.UserRepository
	notifier Notifier // may be nil
}

func NewRecipeService(repo repositories.RecipeRepository, users repositories.UserRepository, notifier Notifier) RecipeService {
	return &recipeService{repo: repo, users: users, notifier: notifier}
}

func validateRecipe(r *models.Recipe) error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !models.ValidCategory(r.Category) {
		return fmt.Errorf("invalid category %q", r.Category)
	}
	if !models.ValidDifficulty(r.Difficulty) {
		return fmt.Errorf("invalid difficulty %q", r.Difficulty)
	}
	if r.PrepTime <= 0 || r.CookTime < 0 || r.Servings <= 0 {
		return fmt.Errorf("prep time, cook time and servings must be positive")
	}
	if r.ImageURL == "" {
		return fmt.Errorf("image url is required")
	}
	if len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
		return fmt.Errorf("ingredients and instructions are required")
	}
	for _, ft := range r.FoodTypes {
		if !models.ValidFoodType(ft) {
			return fmt.Errorf("invalid food type %q", ft)
		}
	}
	return nil
}

func (s *recipeService) Create(recipe *models.Recipe) error {
	if err := validateRecipe(recipe); err != nil {
		return err
	}
	if err := s.repo.Create(recipe); err != nil {
		return err
	}

	if s.notifier != nil {
		author, err := s.users.GetByID(recipe.AuthorID)
		if err != nil || author == nil {
			author = &models.User{DisplayName: "unknown"}
		}
		s.notifier.RecipeSubmitted(recipe, author)
	}
	return nil
}

func (s *recipeService) GetByID(id int) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *recipeService) Update(userID int, recipe *models.Recipe) error {
	existing, err := s.GetByID(recipe.ID)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return ErrNotRecipeAuthor
	}
	if err := validateRecipe(recipe); err != nil {
		return err
	}
	recipe.AuthorID = existing.AuthorID
	return s.repo.Update(recipe)
}

func (s *recipeService) Delete(userID, recipeID int) error {
	existing, err := s.GetByID(recipeID)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return ErrNotRecipeAuthor
	}
	return s.repo.Delete(recipeID)
}

func (s *recipeService) List(filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(filter, limit, offset)
}

func (s *recipeService) Search(query string, limit int) ([]*models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Search(query, limit)
}

func (s *recipeService) Featured(limit int) ([]*models.Recipe, error) {
	featured := true
	if limit <= 0 {
		limit = 8
	}
	return s.repo.List(models.RecipeFilter{Featured: &featured}, limit, 0)
}

func (s *recipeService) ListByAuthor(authorID int) ([]*models.Recipe, error) {
	return s.repo.List(models.RecipeFilter{AuthorID: authorID}, 100, 0)
}
