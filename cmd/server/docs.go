// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package main provides the Foodgram HTTP server
//
// Foodgram API lets users publish recipes, follow authors, keep favorites
// and build a shopping list from the recipes they plan to cook.
//
// @title Foodgram API
// @version 1.0
// @description Recipe sharing backend: recipes, tags, ingredients, favorites, shopping lists and subscriptions.
// @description
// @description ## Authentication
// @description
// @description Obtain a token from `/api/auth/token/login/` and send it as `Authorization: Token <auth_token>`.
// @description Read-only recipe, tag, ingredient and user endpoints are public.
// @description
// @description ## Pagination
// @description
// @description List endpoints return `{count, next, previous, results}` and accept `page` and `limit`.
// @description
// @description ## Error Responses
// @description
// @description Validation failures return 400 with a `fields` object mapping field names to messages.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/foodgram/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Send "Token <auth_token>" obtained from /auth/token/login/.
//
// @tag.name Users
// @tag.description Registration, profiles and subscriptions
//
// @tag.name Auth
// @tag.description Token login and logout
//
// @tag.name Catalogue
// @tag.description Tags and ingredients
//
// @tag.name Recipes
// @tag.description Recipes, favorites and the shopping cart
//
// @tag.name Admin
// @tag.description Administrative catalogue, user and import management
//
// @tag.name Core
// @tag.description Health checks and the realtime feed
package main
