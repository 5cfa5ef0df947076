package handlers

import (
	"strconv"

	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
)

// UserProfile is the wire representation of a user
type UserProfile struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

// ShortRecipe is the compact recipe representation used by relation and
// subscription responses
type ShortRecipe struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeResponse is the full recipe representation
type RecipeResponse struct {
	ID               uint                         `json:"id"`
	Author           UserProfile                  `json:"author"`
	Ingredients      []repositories.IngredientRow `json:"ingredients"`
	IsFavorited      bool                         `json:"is_favorited"`
	IsInShoppingCart bool                         `json:"is_in_shopping_cart"`
	Name             string                       `json:"name"`
	Image            string                       `json:"image"`
	Text             string                       `json:"text"`
	CookingTime      int                          `json:"cooking_time"`
}

// SubscriptionResponse is an author profile annotated with their recipes
type SubscriptionResponse struct {
	UserProfile
	Recipes      []ShortRecipe `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func newUserProfile(u *models.User, subscribed bool) UserProfile {
	return UserProfile{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IsSubscribed: subscribed,
		Avatar:       u.Avatar,
	}
}

func newShortRecipe(r *models.Recipe) ShortRecipe {
	return ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
