package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lgarzadev/dealercat/internal/auth"
	"github.com/lgarzadev/dealercat/internal/models"
)

// Routes wires the full route table. Session restoration runs on every
// request; login and role gates wrap only the groups that need them.
func Routes(gate *auth.Gate, pages *Pages, accounts *AccountHandler,
	inventory *InventoryHandler, reviews *ReviewHandler) chi.Router {

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(pages.Recover)
	r.Use(gate.RestoreSession)

	r.NotFound(pages.NotFound)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/", pages.Home)

	r.Route("/account", func(r chi.Router) {
		r.Get("/login", accounts.ShowLogin)
		r.Post("/login", accounts.Login)
		r.Get("/register", accounts.ShowRegister)
		r.Post("/register", accounts.Register)
		r.Get("/logout", accounts.Logout)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireLogin)
			r.Get("/", accounts.ShowManagement)
			r.Get("/update/{accountID}", accounts.ShowUpdate)
			r.Post("/update", accounts.UpdateInfo)
			r.Post("/password", accounts.UpdatePassword)
		})
	})

	r.Route("/inv", func(r chi.Router) {
		r.Get("/type/{classificationID}", inventory.ListByClassification)
		r.Get("/detail/{inventoryID}", inventory.ShowDetail)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireLogin)
			r.Post("/detail/{inventoryID}/reviews", reviews.Create)
		})

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireRole(models.RoleEmployee, models.RoleAdmin))
			r.Get("/", inventory.ShowManagement)
			r.Get("/add-classification", inventory.ShowAddClassification)
			r.Post("/add-classification", inventory.CreateClassification)
			r.Get("/add-inventory", inventory.ShowAddInventory)
			r.Post("/add-inventory", inventory.CreateInventory)
			r.Get("/edit/{inventoryID}", inventory.ShowEdit)
			r.Post("/update", inventory.Update)
			r.Get("/delete/{inventoryID}", inventory.ShowDelete)
			r.Post("/delete", inventory.Delete)
		})
	})

	return r
}
