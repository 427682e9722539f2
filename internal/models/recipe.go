// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// DefaultTagColor is assigned to tags created without a color.
const DefaultTagColor = "#ffd057"

// Limits shared by the API validators and the importer.
const (
	MinCookingTime = 1
	MaxCookingTime = 360
	MinAmount      = 1
	MaxAmount      = 1000
)

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,tagcolor"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// RecipeIngredient is an ingredient with the amount one recipe uses.
type RecipeIngredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Recipe is the full representation. Image holds the stored relative path
// until the API layer rewrites it into a URL.
type Recipe struct {
	ID               int64              `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           UserResponse       `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
	PubDate          time.Time          `json:"-"`
	AuthorID         int64              `json:"-"`
}

// Short returns the compact representation used by favorites, cart and
// subscription previews.
func (r *Recipe) Short() RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type IngredientAmount struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"gte=1,lte=1000"`
}

// RecipeWriteRequest is the create and update body.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"gte=1,lte=360"`
}

// RecipeInput is the validated write payload handed to the database.
// An empty Image on update keeps the stored one.
type RecipeInput struct {
	AuthorID    int64
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// RecipeFilter narrows recipe listings. Favorited and InCart only apply
// when ViewerID is set.
type RecipeFilter struct {
	TagSlugs  []string
	AuthorID  int64
	Favorited bool
	InCart    bool
	ViewerID  int64
	Search    string
}

// ShoppingItem is one summed line of a shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

// AdminRecipeRow is a recipe listing entry in the admin interface.
type AdminRecipeRow struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	PubDate        time.Time `json:"pub_date"`
	InFavorite     int       `json:"in_favorite"`
}
