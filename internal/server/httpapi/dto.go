package httpapi

import (
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/storage"
)

type userDTO struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type createdUserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type recipeSummaryDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type authorDTO struct {
	userDTO
	Recipes      []recipeSummaryDTO `json:"recipes"`
	RecipesCount int                `json:"recipes_count"`
}

type recipeIngredientDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipeDTO struct {
	ID               int64                 `json:"id"`
	Author           userDTO               `json:"author"`
	Ingredients      []recipeIngredientDTO `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

type ingredientAmountRequest struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

type recipeRequest struct {
	Ingredients []ingredientAmountRequest `json:"ingredients"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

func (r *recipeRequest) input() models.RecipeInput {
	in := models.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Ingredients: make([]models.IngredientAmount, len(r.Ingredients)),
	}
	for i, it := range r.Ingredients {
		in.Ingredients[i] = models.IngredientAmount{IngredientID: it.ID, Amount: it.Amount}
	}
	return in
}

func (s *HTTPServer) mediaURL(key string) string {
	return storage.URL(s.mediaBaseURL, key)
}

func (s *HTTPServer) toUserDTO(p *models.Profile) userDTO {
	d := userDTO{
		ID:           p.ID,
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IsSubscribed: p.IsSubscribed,
	}
	if p.Avatar != nil {
		u := s.mediaURL(*p.Avatar)
		d.Avatar = &u
	}
	return d
}

func (s *HTTPServer) toSummaryDTO(r models.RecipeSummary) recipeSummaryDTO {
	return recipeSummaryDTO{ID: r.ID, Name: r.Name, Image: s.mediaURL(r.Image), CookingTime: r.CookingTime}
}

func (s *HTTPServer) toAuthorDTO(a *models.AuthorWithRecipes) authorDTO {
	d := authorDTO{
		userDTO:      s.toUserDTO(&a.Profile),
		Recipes:      make([]recipeSummaryDTO, len(a.Recipes)),
		RecipesCount: a.RecipesCount,
	}
	for i, r := range a.Recipes {
		d.Recipes[i] = s.toSummaryDTO(r)
	}
	return d
}

func (s *HTTPServer) toRecipeDTO(r *models.RecipeDetails) recipeDTO {
	d := recipeDTO{
		ID:               r.ID,
		Author:           s.toUserDTO(&r.Author),
		Ingredients:      make([]recipeIngredientDTO, len(r.Ingredients)),
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            s.mediaURL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	for i, it := range r.Ingredients {
		d.Ingredients[i] = recipeIngredientDTO{ID: it.IngredientID, Name: it.Name, MeasurementUnit: it.MeasurementUnit, Amount: it.Amount}
	}
	return d
}
