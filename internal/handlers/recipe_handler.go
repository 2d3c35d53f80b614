package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pastelrecipes/internal/models"
	"pastelrecipes/internal/pdf"
	"pastelrecipes/internal/services"
)

type RecipeHandler struct {
	recipeService services.RecipeService
	cards         pdf.Generator
}

func NewRecipeHandler(recipeService services.RecipeService, cards pdf.Generator) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, cards: cards}
}

type recipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	PrepTime     int      `json:"prep_time" binding:"required"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings" binding:"required"`
	Difficulty   string   `json:"difficulty" binding:"required"`
	ImageURL     string   `json:"image_url" binding:"required"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	Instructions []string `json:"instructions" binding:"required"`
	FoodTypes    []string `json:"food_types"`
}

func (r recipeRequest) toModel() *models.Recipe {
	return &models.Recipe{
		Title:        strings.TrimSpace(r.Title),
		Category:     r.Category,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		ImageURL:     r.ImageURL,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		FoodTypes:    r.FoodTypes,
	}
}

// @Summary      Submit a recipe
// @Tags         Recipes
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Recipe
// @Failure      400  {object}  map[string]string
// @Router       /recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := req.toModel()
	recipe.AuthorID = userID
	if err := h.recipeService.Create(recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return
	}
	recipe, err := h.recipeService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// List handles browsing with filters: ?category=&difficulty=&food_types=a,b&max_prep_time=&limit=&offset=
func (h *RecipeHandler) List(c *gin.Context) {
	var filter models.RecipeFilter
	filter.Category = c.Query("category")
	filter.Difficulty = c.Query("difficulty")
	if ft := c.Query("food_types"); ft != "" {
		filter.FoodTypes = strings.Split(ft, ",")
	}
	if mpt := c.Query("max_prep_time"); mpt != "" {
		n, err := strconv.Atoi(mpt)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_prep_time"})
			return
		}
		filter.MaxPrepTime = n
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recipes, err := h.recipeService.List(filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

func (h *RecipeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	recipes, err := h.recipeService.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

func (h *RecipeHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	recipes, err := h.recipeService.Featured(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list featured recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

func (h *RecipeHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	recipes, err := h.recipeService.ListByAuthor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := req.toModel()
	recipe.ID = id
	if err := h.recipeService.Update(userID, recipe); err != nil {
		switch {
		case errors.Is(err, services.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		case errors.Is(err, services.ErrNotRecipeAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit this recipe"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(userID, id); err != nil {
		switch {
		case errors.Is(err, services.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		case errors.Is(err, services.ErrNotRecipeAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete this recipe"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

// Card serves a printable PDF recipe card.
func (h *RecipeHandler) Card(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return
	}
	recipe, err := h.recipeService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	data, err := h.cards.GenerateCard(recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipe card"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="recipe_%d.pdf"`, recipe.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}
