package models

import "time"

type Comment struct {
	ID         int       `json:"id"`
	RecipeID   int       `json:"recipe_id"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
