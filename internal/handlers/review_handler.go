package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lgarzadev/dealercat/internal/auth"
	"github.com/lgarzadev/dealercat/internal/models"
	"github.com/lgarzadev/dealercat/internal/repositories"
	"github.com/lgarzadev/dealercat/internal/validation"
)

type ReviewHandler struct {
	pages     *Pages
	reviews   repositories.ReviewRepository
	inventory *InventoryHandler
}

func NewReviewHandler(pages *Pages, reviews repositories.ReviewRepository, inventory *InventoryHandler) *ReviewHandler {
	return &ReviewHandler{pages: pages, reviews: reviews, inventory: inventory}
}

// Create handles review submission. Authorship always comes from the session
// identity; an account id in the body is ignored outright.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := strconv.Atoi(chi.URLParam(r, "inventoryID"))
	if err != nil {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}

	identity, _ := auth.Identity(r.Context())

	res := validation.Evaluate(r.Context(), reviewFields(), formData(r, "rating", "comment"))

	if !res.OK() {
		h.inventory.renderDetail(w, r, http.StatusBadRequest, inventoryID,
			res.Errors(), res.Sanitized(), "Please correct the errors in your review and try again.")
		return
	}

	review := &models.Review{
		InventoryID: inventoryID,
		AccountID:   identity.ID,
		Rating:      int(res.Int("rating")),
		Comment:     res.Value("comment"),
	}

	if err := h.reviews.Create(r.Context(), review); err != nil {
		log.Printf("review create failed: %v", err)
		persistErrors := &validation.Errors{}
		persistErrors.Add("We ran into a problem saving your review. Please try again.")
		h.inventory.renderDetail(w, r, http.StatusInternalServerError, inventoryID,
			persistErrors, res.Sanitized(), "We ran into a problem saving your review. Please try again.")
		return
	}

	h.pages.Flash.Set(w, r, "Thank you for submitting your review!")
	http.Redirect(w, r, fmt.Sprintf("/inv/detail/%d", inventoryID), http.StatusSeeOther)
}
