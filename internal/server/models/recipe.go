package models

import "time"

// Recipe is a published recipe. Image is an object-storage key.
// IsFavorited and IsInShoppingCart describe the viewer the recipe was
// loaded for and are false for anonymous viewers.
type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Text        string
	Image       string
	CookingTime int
	PublishedAt time.Time

	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeSummary is the compact shape returned by mark toggles and author pages.
type RecipeSummary struct {
	ID          int64
	Name        string
	Image       string
	CookingTime int
}

func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// RecipeDetails is a recipe with its author profile and ingredient list.
type RecipeDetails struct {
	Recipe
	Author      Profile
	Ingredients []RecipeIngredient
}

// RecipeFilter narrows recipe listings. Nil pointers mean "no filter".
type RecipeFilter struct {
	AuthorID         *int64
	Name             *string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// RecipeInput carries user-supplied recipe fields. Image is a base64 data
// URL; empty on update means "keep the current image".
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
}
