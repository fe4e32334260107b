package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lgarzadev/dealercat/internal/render"
	"github.com/lgarzadev/dealercat/internal/repositories"
)

// Pages is the shared rendering plumbing: it fills in the navigation data,
// attaches any pending flash notice, and funnels unexpected errors into one
// place.
type Pages struct {
	Renderer        render.Renderer
	Classifications repositories.ClassificationRepository
	Flash           *Flash
}

func NewPages(renderer render.Renderer, classifications repositories.ClassificationRepository, flash *Flash) *Pages {
	return &Pages{Renderer: renderer, Classifications: classifications, Flash: flash}
}

func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, page string, view render.View) {
	nav, err := p.Classifications.List(r.Context())
	if err != nil {
		// A broken nav should not take the page down with it.
		log.Printf("failed to load navigation: %v", err)
	}
	view.Nav = nav

	if view.Notice == "" {
		view.Notice = p.Flash.Pop(w, r)
	}

	p.Renderer.Render(w, status, page, view)
}

func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusOK, "home", render.View{Title: "Home"})
}

// ServerError is the single top-level funnel for unexpected failures. The
// underlying error is logged with the request path and never echoed to the
// user.
func (p *Pages) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("Error at %q: %v", r.URL.Path, err)
	p.Render(w, r, http.StatusInternalServerError, "errors/error", render.View{
		Title: "500 - Server Error",
		Data: map[string]any{
			"message": "Oh no! There was a crash. Maybe try a different route?",
		},
	})
}

// NotFound renders the distinct, non-error "lost page" outcome.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.NotFoundMessage(w, r, "Sorry, we appear to have lost that page.")
}

func (p *Pages) NotFoundMessage(w http.ResponseWriter, r *http.Request, message string) {
	p.Render(w, r, http.StatusNotFound, "errors/error", render.View{
		Title: "404 - Not Found",
		Data: map[string]any{
			"message": message,
		},
	})
}

// Forbidden renders the role-denial page: a 403 login render with a distinct
// notice, never a redirect, so it cannot be mistaken for "not logged in".
func (p *Pages) Forbidden(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusForbidden, "account/login", render.View{
		Title:  "Login",
		Notice: "You do not have permission to access that page.",
	})
}

// Recover catches panics from any handler below it and routes them through
// ServerError.
func (p *Pages) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				p.ServerError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
