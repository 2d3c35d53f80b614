package repositories

import (
	"database/sql"
	"fmt"

	"pastelrecipes/internal/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByRecipe(recipeID int) ([]*models.Comment, error)
	Delete(id int) error
}

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	const q = `
		INSERT INTO comments (recipe_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, comment.RecipeID, comment.AuthorID, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(id int) (*models.Comment, error) {
	const q = `
		SELECT c.id, c.recipe_id, c.author_id, u.display_name, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`
	cm := &models.Comment{}
	err := r.DB.QueryRow(q, id).Scan(&cm.ID, &cm.RecipeID, &cm.AuthorID, &cm.AuthorName, &cm.Body, &cm.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return cm, nil
}

func (r *commentRepository) ListByRecipe(recipeID int) ([]*models.Comment, error) {
	const q = `
		SELECT c.id, c.recipe_id, c.author_id, u.display_name, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.recipe_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.DB.Query(q, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		cm := &models.Comment{}
		if err := rows.Scan(&cm.ID, &cm.RecipeID, &cm.AuthorID, &cm.AuthorName, &cm.Body, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
