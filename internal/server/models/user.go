// Package models defines server-side data models persisted in the database
// and the composite read models assembled from them.
package models

// User is a registered account. Avatar holds an object-storage key and is
// nil when the user has no avatar.
type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Avatar       *string
	PasswordHash string
}

// Profile is a User as seen by a particular viewer.
type Profile struct {
	User
	IsSubscribed bool
}

// AuthorWithRecipes is a followed author composed with a bounded list of
// their recipes and the total number of recipes they published.
type AuthorWithRecipes struct {
	Profile
	Recipes      []RecipeSummary
	RecipesCount int
}
