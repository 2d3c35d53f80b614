package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"pastelrecipes/internal/models"
)

type RecipeRepository interface {
	Create(recipe *models.Recipe) error
	GetByID(id int) (*models.Recipe, error)
	Update(recipe *models.Recipe) error
	Delete(id int) error
	List(filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error)
	Search(query string, limit int) ([]*models.Recipe, error)
}

type recipeRepository struct {
	DB *sql.DB
}

func NewRecipeRepository(db *sql.DB) RecipeRepository {
	return &recipeRepository{DB: db}
}

const recipeColumns = `
	id, author_id, title, category, prep_time, cook_time, servings, difficulty,
	is_featured, image_url, ingredients, instructions, food_types, created_at, updated_at
`

func scanRecipe(scan func(dest ...any) error) (*models.Recipe, error) {
	rec := &models.Recipe{}
	err := scan(
		&rec.ID, &rec.AuthorID, &rec.Title, &rec.Category, &rec.PrepTime, &rec.CookTime,
		&rec.Servings, &rec.Difficulty, &rec.IsFeatured, &rec.ImageURL,
		pq.Array(&rec.Ingredients), pq.Array(&rec.Instructions), pq.Array(&rec.FoodTypes),
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recipeRepository) Create(recipe *models.Recipe) error {
	const q = `
		INSERT INTO recipes (
			author_id, title, category, prep_time, cook_time, servings, difficulty,
			is_featured, image_url, ingredients, instructions, food_types
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		recipe.AuthorID, recipe.Title, recipe.Category, recipe.PrepTime, recipe.CookTime,
		recipe.Servings, recipe.Difficulty, recipe.IsFeatured, recipe.ImageURL,
		pq.Array(recipe.Ingredients), pq.Array(recipe.Instructions), pq.Array(recipe.FoodTypes),
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

func (r *recipeRepository) GetByID(id int) (*models.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`
	rec, err := scanRecipe(r.DB.QueryRow(q, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

func (r *recipeRepository) Update(recipe *models.Recipe) error {
	const q = `
		UPDATE recipes
		SET title = $1, category = $2, prep_time = $3, cook_time = $4, servings = $5,
			difficulty = $6, is_featured = $7, image_url = $8,
			ingredients = $9, instructions = $10, food_types = $11,
			updated_at = NOW()
		WHERE id = $12
	`
	if _, err := r.DB.Exec(q,
		recipe.Title, recipe.Category, recipe.PrepTime, recipe.CookTime, recipe.Servings,
		recipe.Difficulty, recipe.IsFeatured, recipe.ImageURL,
		pq.Array(recipe.Ingredients), pq.Array(recipe.Instructions), pq.Array(recipe.FoodTypes),
		recipe.ID,
	); err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	return nil
}

func (r *recipeRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM recipes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// List applies the browse filters. Food types match when the recipe carries any
// of the requested tags (array overlap).
func (r *recipeRepository) List(filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter.Category != "" {
		add("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		add("difficulty = ?", filter.Difficulty)
	}
	if len(filter.FoodTypes) > 0 {
		add("food_types && ?", pq.Array(filter.FoodTypes))
	}
	if filter.MaxPrepTime > 0 {
		add("prep_time <= ?", filter.MaxPrepTime)
	}
	if filter.AuthorID > 0 {
		add("author_id = ?", filter.AuthorID)
	}
	if filter.Featured != nil {
		add("is_featured = ?", *filter.Featured)
	}

	q := `SELECT ` + recipeColumns + ` FROM recipes`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC`
	args = append(args, limit)
	q += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	q += ` OFFSET $` + strconv.Itoa(len(args))

	return r.queryRecipes(q, args...)
}

// Search matches the query against the title or any ingredient, case-insensitive.
func (r *recipeRepository) Search(query string, limit int) ([]*models.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE title ILIKE '%' || $1 || '%'
		   OR EXISTS (
				SELECT 1 FROM unnest(ingredients) AS ing
				WHERE ing ILIKE '%' || $1 || '%'
		   )
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.queryRecipes(q, query, limit)
}

func (r *recipeRepository) queryRecipes(q string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}
