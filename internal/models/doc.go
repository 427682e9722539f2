// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package models defines the data structures shared by the database, API,
importer and event packages.

Model Categories:

 1. Domain rows:
    - User, Tag, Ingredient, Recipe, RecipeIngredient
    - Activity: append-only event log entry

 2. API request bodies:
    - UserCreateRequest, SetPasswordRequest, LoginRequest
    - RecipeWriteRequest with IngredientAmount entries

 3. API responses:
    - UserResponse, SubscriptionResponse, RecipeShort
    - Page: page-number pagination envelope
    - APIError: error body returned on every non-2xx response

 4. Aggregates:
    - ShoppingItem: one summed line of a shopping list
    - AdminUserRow, AdminRecipeRow: admin listings with counters

JSON field names follow the wire format the web client expects
(snake_case, "auth_token", "is_subscribed" and so on).
*/
package models
