package services

import (
	"errors"
	"fmt"
	"strings"

	"pastelrecipes/internal/models"
	"pastelrecipes/internal/repositories"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("not the comment author")
)

type CommentService interface {
	Add(recipeID, authorID int, body string) (*models.Comment, error)
	ListByRecipe(recipeID int) ([]*models.Comment, error)
	Delete(userID, commentID int) error
}

type commentService struct {
	repo    repositories.CommentRepository
	recipes repositories.RecipeRepository
}

func NewCommentService(repo repositories.CommentRepository, recipes repositories.RecipeRepository) CommentService {
	return &commentService{repo: repo, recipes: recipes}
}

func (s *commentService) Add(recipeID, authorID int, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}

	recipe, err := s.recipes.GetByID(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}

	comment := &models.Comment{RecipeID: recipeID, AuthorID: authorID, Body: body}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListByRecipe(recipeID int) ([]*models.Comment, error) {
	return s.repo.ListByRecipe(recipeID)
}

func (s *commentService) Delete(userID, commentID int) error {
	comment, err := s.repo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrNotCommentAuthor
	}
	return s.repo.Delete(commentID)
}
