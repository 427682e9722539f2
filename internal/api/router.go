// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/middleware"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = time.Second

// Router owns the route table and the middleware shared by all routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authorizer    *authz.Middleware
}

// NewRouter builds a router around handler; enforcer decides every /api
// request by role, path and method.
func NewRouter(handler *Handler, enforcer *authz.Enforcer) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&handler.cfg.Security)),
		authorizer:    authz.NewMiddleware(enforcer),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondNotFound(w, req, "resource")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.StripSlashes)
		r.Use(router.chiMiddleware.RateLimit())

		// The websocket authenticates itself: browsers can only pass the
		// token in the query string.
		r.Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Compression)
			r.Use(h.authn.Optional)
			r.Use(router.authorizer.Authorize)

			r.Get("/health", h.Health)

			// ========================
			// Users and subscriptions
			// ========================
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Get("/me", h.Me)
				r.Post("/set_password", h.SetPassword)
				r.Get("/subscriptions", h.Subscriptions)
				r.Get("/{id}", h.GetUser)
				r.Post("/{id}/subscribe", h.Subscribe)
				r.Delete("/{id}/subscribe", h.Unsubscribe)
			})

			r.Route("/auth/token", func(r chi.Router) {
				r.Post("/login", h.Login)
				r.Post("/logout", h.Logout)
			})

			// ========================
			// Catalogue
			// ========================
			r.Get("/tags", h.ListTags)
			r.Get("/tags/{id}", h.GetTag)
			r.Get("/ingredients", h.ListIngredients)
			r.Get("/ingredients/{id}", h.GetIngredient)

			// ========================
			// Recipes
			// ========================
			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", h.ListRecipes)
				r.Post("/", h.CreateRecipe)
				r.Get("/download_shopping_cart", h.DownloadShoppingCart)
				r.Get("/{id}", h.GetRecipe)
				r.Patch("/{id}", h.UpdateRecipe)
				r.Delete("/{id}", h.DeleteRecipe)
				r.Post("/{id}/favorite", h.AddFavorite)
				r.Delete("/{id}/favorite", h.RemoveFavorite)
				r.Post("/{id}/shopping_cart", h.AddToCart)
				r.Delete("/{id}/shopping_cart", h.RemoveFromCart)
			})

			// ========================
			// Administration
			// ========================
			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", h.AdminListUsers)
				r.Post("/users/{id}/role", h.AdminSetRole)
				r.Delete("/users/{id}", h.AdminDeleteUser)

				r.Get("/recipes", h.AdminListRecipes)
				r.Delete("/recipes/{id}", h.AdminDeleteRecipe)

				r.Post("/tags", h.AdminCreateTag)
				r.Patch("/tags/{id}", h.AdminUpdateTag)
				r.Delete("/tags/{id}", h.AdminDeleteTag)

				r.Get("/ingredients", h.AdminListIngredients)
				r.Post("/ingredients", h.AdminCreateIngredient)
				r.Patch("/ingredients/{id}", h.AdminUpdateIngredient)
				r.Delete("/ingredients/{id}", h.AdminDeleteIngredient)

				r.Post("/import/{kind}", h.AdminImport)
				r.Get("/activity", h.AdminActivity)
			})
		})
	})

	// ========================
	// Operational endpoints
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))
	if h.media != nil {
		r.Handle(h.media.URLPrefix()+"*", h.media.Handler())
	}

	return r
}
