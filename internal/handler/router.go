package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers — набор обработчиков, из которых собирается роутер.
type Handlers struct {
	Recipes   *RecipeHandler
	Users     *UserHandler
	Reference *ReferenceHandler
}

// NewRouter собирает маршруты API.
func NewRouter(h Handlers, requestTimeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(UserIdentity(logger))
	r.Use(RequestLogger(logger))
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	auth := RequireUser(logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.Recipes.ListRecipes)
			r.With(auth).Get("/download_shopping_cart", h.Recipes.DownloadShoppingCart)
			r.With(auth).Post("/", h.Recipes.CreateRecipe)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Recipes.GetRecipe)

				r.Group(func(r chi.Router) {
					r.Use(auth)
					r.Patch("/", h.Recipes.UpdateRecipe)
					r.Delete("/", h.Recipes.DeleteRecipe)
					r.Post("/favorite", h.Recipes.AddFavorite)
					r.Delete("/favorite", h.Recipes.RemoveFavorite)
					r.Post("/shopping_cart", h.Recipes.AddToCart)
					r.Delete("/shopping_cart", h.Recipes.RemoveFromCart)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.ListUsers)
			r.Post("/", h.Users.Register)
			r.With(auth).Get("/me", h.Users.Me)
			r.With(auth).Get("/subscriptions", h.Users.ListSubscriptions)
			r.Get("/{id}", h.Users.GetUser)
			r.With(auth).Post("/{id}/subscribe", h.Users.Subscribe)
			r.With(auth).Delete("/{id}/subscribe", h.Users.Unsubscribe)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.Reference.ListTags)
			r.With(auth).Post("/", h.Reference.CreateTag)
			r.Get("/{id}", h.Reference.GetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.Reference.ListIngredients)
			r.With(auth).Post("/import", h.Reference.ImportIngredients)
			r.Get("/{id}", h.Reference.GetIngredient)
		})
	})

	return r
}
