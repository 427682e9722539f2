// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tomtom215/foodgram/internal/models"
)

type recipeFixture struct {
	db        *DB
	author    *models.User
	viewer    *models.User
	breakfast *models.Tag
	dinner    *models.Tag
	egg       *models.Ingredient
	milk      *models.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	db := setupTestDB(t)
	return &recipeFixture{
		db:        db,
		author:    mustCreateUser(t, db, "author@example.com", "author"),
		viewer:    mustCreateUser(t, db, "viewer@example.com", "viewer"),
		breakfast: mustCreateTag(t, db, "Breakfast", "#E26C2D", "breakfast"),
		dinner:    mustCreateTag(t, db, "Dinner", "#8775D2", "dinner"),
		egg:       mustCreateIngredient(t, db, "egg", "pcs"),
		milk:      mustCreateIngredient(t, db, "milk", "ml"),
	}
}

func TestGetRecipe_FullRepresentation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	id := mustCreateRecipe(t, f.db, f.author.ID, "omelette",
		[]int64{f.dinner.ID, f.breakfast.ID},
		[]models.IngredientAmount{{ID: f.milk.ID, Amount: 100}, {ID: f.egg.ID, Amount: 3}})

	if err := f.db.Subscribe(ctx, f.viewer.ID, f.author.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := f.db.AddFavorite(ctx, f.viewer.ID, id); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	got, err := f.db.GetRecipe(ctx, id, f.viewer.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}

	want := &models.Recipe{
		ID:   id,
		Tags: []models.Tag{*f.breakfast, *f.dinner},
		Author: models.UserResponse{
			Email: "author@example.com", ID: f.author.ID, Username: "author",
			FirstName: "F", LastName: "L", IsSubscribed: true,
		},
		Ingredients: []models.RecipeIngredient{
			{ID: f.egg.ID, Name: "egg", MeasurementUnit: "pcs", Amount: 3},
			{ID: f.milk.ID, Name: "milk", MeasurementUnit: "ml", Amount: 100},
		},
		IsFavorited:      true,
		IsInShoppingCart: false,
		Name:             "omelette",
		Image:            "recipe_img/omelette.png",
		Text:             "text",
		CookingTime:      10,
		AuthorID:         f.author.ID,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(models.Recipe{}, "PubDate")); diff != "" {
		t.Errorf("GetRecipe (-want +got):\n%s", diff)
	}

	anon, err := f.db.GetRecipe(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetRecipe(anonymous): %v", err)
	}
	if anon.IsFavorited || anon.Author.IsSubscribed {
		t.Errorf("anonymous viewer got personal flags: %+v", anon)
	}
}

func TestUpdateRecipe_ReplacesRelations(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	id := mustCreateRecipe(t, f.db, f.author.ID, "omelette",
		[]int64{f.breakfast.ID}, []models.IngredientAmount{{ID: f.egg.ID, Amount: 3}})

	replaced, err := f.db.UpdateRecipe(ctx, id, models.RecipeInput{
		Name:        "scrambled",
		Text:        "stir",
		CookingTime: 5,
		TagIDs:      []int64{f.dinner.ID},
		Ingredients: []models.IngredientAmount{{ID: f.egg.ID, Amount: 4}, {ID: f.milk.ID, Amount: 50}},
	})
	if err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}
	if replaced != "" {
		t.Errorf("empty image should keep the stored one, replaced = %q", replaced)
	}

	got, err := f.db.GetRecipe(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Name != "scrambled" || got.Image != "recipe_img/omelette.png" {
		t.Errorf("fields not updated: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != f.dinner.ID {
		t.Errorf("tags = %+v", got.Tags)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0].Amount != 4 {
		t.Errorf("ingredients = %+v", got.Ingredients)
	}

	replaced, err = f.db.UpdateRecipe(ctx, id, models.RecipeInput{
		Name: "scrambled", Text: "stir", CookingTime: 5, Image: "recipe_img/new.png",
		TagIDs: []int64{f.dinner.ID}, Ingredients: []models.IngredientAmount{{ID: f.egg.ID, Amount: 4}},
	})
	if err != nil {
		t.Fatalf("UpdateRecipe(new image): %v", err)
	}
	if replaced != "recipe_img/omelette.png" {
		t.Errorf("replaced = %q", replaced)
	}

	if _, err := f.db.UpdateRecipe(ctx, 999, models.RecipeInput{Name: "x", Text: "x", CookingTime: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRecipe(missing) err = %v", err)
	}
}

func TestUpdateRecipe_ResubmitSameRelations(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	tags := []int64{f.breakfast.ID, f.dinner.ID}
	ingredients := []models.IngredientAmount{{ID: f.egg.ID, Amount: 3}, {ID: f.milk.ID, Amount: 100}}
	id := mustCreateRecipe(t, f.db, f.author.ID, "omelette", tags, ingredients)

	for i := 0; i < 2; i++ {
		if _, err := f.db.UpdateRecipe(ctx, id, models.RecipeInput{
			Name: "omelette", Text: "text", CookingTime: 10,
			TagIDs: tags, Ingredients: ingredients,
		}); err != nil {
			t.Fatalf("UpdateRecipe #%d: %v", i+1, err)
		}
	}

	got, err := f.db.GetRecipe(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if len(got.Tags) != 2 || len(got.Ingredients) != 2 {
		t.Errorf("tags=%d ingredients=%d, want 2/2", len(got.Tags), len(got.Ingredients))
	}
}

func TestCreateRecipe_DuplicateRelationsRejected(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    models.RecipeInput
		field string
	}{
		{
			name: "duplicate tag",
			in: models.RecipeInput{
				TagIDs:      []int64{f.breakfast.ID, f.breakfast.ID},
				Ingredients: []models.IngredientAmount{{ID: f.egg.ID, Amount: 1}},
			},
			field: "tags",
		},
		{
			name: "duplicate ingredient",
			in: models.RecipeInput{
				TagIDs:      []int64{f.breakfast.ID},
				Ingredients: []models.IngredientAmount{{ID: f.egg.ID, Amount: 1}, {ID: f.egg.ID, Amount: 2}},
			},
			field: "ingredients",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.AuthorID = f.author.ID
			in.Name = "dup"
			in.Text = "text"
			in.Image = "recipe_img/dup.png"
			in.CookingTime = 1

			_, err := f.db.CreateRecipe(ctx, in)
			var conflict *ConflictError
			if !errors.As(err, &conflict) || conflict.Field != tt.field {
				t.Fatalf("CreateRecipe err = %v, want conflict on %s", err, tt.field)
			}
		})
	}

	count, err := f.db.CountRecipes(ctx, models.RecipeFilter{})
	if err != nil {
		t.Fatalf("CountRecipes: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected recipes were stored: count = %d", count)
	}
}

func TestListRecipes_Filters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	other := mustCreateUser(t, f.db, "other@example.com", "other")

	eggs := []models.IngredientAmount{{ID: f.egg.ID, Amount: 1}}
	r1 := mustCreateRecipe(t, f.db, f.author.ID, "porridge", []int64{f.breakfast.ID}, eggs)
	r2 := mustCreateRecipe(t, f.db, f.author.ID, "steak", []int64{f.dinner.ID}, eggs)
	r3 := mustCreateRecipe(t, f.db, other.ID, "pancakes", []int64{f.breakfast.ID, f.dinner.ID}, eggs)

	if err := f.db.AddFavorite(ctx, f.viewer.ID, r2); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := f.db.AddToCart(ctx, f.viewer.ID, r1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	all := Pagination{Limit: 10}
	tests := []struct {
		name   string
		filter models.RecipeFilter
		want   []int64
	}{
		{"no filter newest first", models.RecipeFilter{}, []int64{r3, r2, r1}},
		{"by author", models.RecipeFilter{AuthorID: f.author.ID}, []int64{r2, r1}},
		{"by one tag", models.RecipeFilter{TagSlugs: []string{"breakfast"}}, []int64{r3, r1}},
		{"by any of tags", models.RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}}, []int64{r3, r2, r1}},
		{"favorited", models.RecipeFilter{Favorited: true, ViewerID: f.viewer.ID}, []int64{r2}},
		{"in cart", models.RecipeFilter{InCart: true, ViewerID: f.viewer.ID}, []int64{r1}},
		{"favorited ignored for anonymous", models.RecipeFilter{Favorited: true}, []int64{r3, r2, r1}},
		{"search", models.RecipeFilter{Search: "CAKE"}, []int64{r3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.db.ListRecipes(ctx, tt.filter, all)
			if err != nil {
				t.Fatalf("ListRecipes: %v", err)
			}
			ids := make([]int64, len(got))
			for i := range got {
				ids[i] = got[i].ID
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("ids (-want +got):\n%s", diff)
			}
			n, err := f.db.CountRecipes(ctx, tt.filter)
			if err != nil || n != len(tt.want) {
				t.Errorf("CountRecipes = %d, %v; want %d", n, err, len(tt.want))
			}
		})
	}

	page, err := f.db.ListRecipes(ctx, models.RecipeFilter{}, Pagination{Limit: 1, Offset: 1})
	if err != nil || len(page) != 1 || page[0].ID != r2 {
		t.Errorf("second page of size 1 = %+v, %v", page, err)
	}
}

func TestListRecipesByAuthor_Limit(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	eggs := []models.IngredientAmount{{ID: f.egg.ID, Amount: 1}}
	for _, name := range []string{"a", "b", "c"} {
		mustCreateRecipe(t, f.db, f.author.ID, name, []int64{f.breakfast.ID}, eggs)
	}

	limited, err := f.db.ListRecipesByAuthor(ctx, f.author.ID, 2)
	if err != nil || len(limited) != 2 || limited[0].Name != "c" {
		t.Errorf("limited = %+v, %v", limited, err)
	}
	all, err := f.db.ListRecipesByAuthor(ctx, f.author.ID, 0)
	if err != nil || len(all) != 3 {
		t.Errorf("all = %+v, %v", all, err)
	}
	n, err := f.db.CountRecipesByAuthor(ctx, f.author.ID)
	if err != nil || n != 3 {
		t.Errorf("CountRecipesByAuthor = %d, %v", n, err)
	}
}

func TestDeleteRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	id := mustCreateRecipe(t, f.db, f.author.ID, "soup",
		[]int64{f.dinner.ID}, []models.IngredientAmount{{ID: f.milk.ID, Amount: 200}})
	if err := f.db.AddToCart(ctx, f.viewer.ID, id); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	image, err := f.db.DeleteRecipe(ctx, id)
	if err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	if image != "recipe_img/soup.png" {
		t.Errorf("image = %q", image)
	}
	if inCart, _ := f.db.IsInCart(ctx, f.viewer.ID, id); inCart {
		t.Error("cart entry survived recipe deletion")
	}
	if _, err := f.db.DeleteRecipe(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteRecipe err = %v", err)
	}
	if _, err := f.db.RecipeAuthor(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecipeAuthor err = %v", err)
	}
}
