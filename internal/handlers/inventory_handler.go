package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lgarzadev/dealercat/internal/models"
	"github.com/lgarzadev/dealercat/internal/render"
	"github.com/lgarzadev/dealercat/internal/repositories"
	"github.com/lgarzadev/dealercat/internal/validation"
)

type InventoryHandler struct {
	pages           *Pages
	classifications repositories.ClassificationRepository
	inventory       repositories.InventoryRepository
	reviews         repositories.ReviewRepository
}

func NewInventoryHandler(pages *Pages, classifications repositories.ClassificationRepository,
	inventory repositories.InventoryRepository, reviews repositories.ReviewRepository) *InventoryHandler {
	return &InventoryHandler{
		pages:           pages,
		classifications: classifications,
		inventory:       inventory,
		reviews:         reviews,
	}
}

func (h *InventoryHandler) redirect(w http.ResponseWriter, r *http.Request, url, notice string) {
	h.pages.Flash.Set(w, r, notice)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *InventoryHandler) ShowManagement(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "inventory/management", render.View{Title: "Inventory Management"})
}

func (h *InventoryHandler) ShowAddClassification(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "inventory/add-classification", render.View{Title: "Add New Classification"})
}

func (h *InventoryHandler) CreateClassification(w http.ResponseWriter, r *http.Request) {
	res := validation.Evaluate(r.Context(), classificationFields(), formData(r, "classification_name"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "inventory/add-classification", render.View{
			Title:  "Add New Classification",
			Errors: res.Errors(),
			Fields: res.Sanitized(),
		})
		return
	}

	created, err := h.classifications.Create(r.Context(), res.Value("classification_name"))
	if err != nil {
		log.Printf("classification create failed: %v", err)
		persistErrors := &validation.Errors{}
		persistErrors.Add("We ran into a problem saving the classification.")
		h.pages.Render(w, r, http.StatusInternalServerError, "inventory/add-classification", render.View{
			Title:  "Add New Classification",
			Notice: "Sorry, we could not add that classification. Please correct any issues and try again.",
			Errors: persistErrors,
			Fields: res.Sanitized(),
		})
		return
	}

	h.pages.Render(w, r, http.StatusCreated, "inventory/management", render.View{
		Title:  "Inventory Management",
		Notice: fmt.Sprintf("Successfully added the %s classification.", created.Name),
	})
}

func (h *InventoryHandler) ShowAddInventory(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "inventory/add-inventory", render.View{Title: "Add New Vehicle"})
}

func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	res := validation.Evaluate(r.Context(), inventoryFields(), formData(r,
		"inv_make", "inv_model", "inv_year", "inv_description", "inv_image",
		"inv_thumbnail", "inv_price", "inv_miles", "inv_color", "classification_id"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "inventory/add-inventory", render.View{
			Title:  "Add New Vehicle",
			Errors: res.Errors(),
			Fields: res.Sanitized(),
		})
		return
	}

	item := inventoryFromResult(res)
	if err := h.inventory.Create(r.Context(), item); err != nil {
		log.Printf("inventory create failed: %v", err)
		persistErrors := &validation.Errors{}
		persistErrors.Add("We ran into a problem saving the vehicle.")
		h.pages.Render(w, r, http.StatusInternalServerError, "inventory/add-inventory", render.View{
			Title:  "Add New Vehicle",
			Notice: "Sorry, we could not add that vehicle. Please correct any issues and try again.",
			Errors: persistErrors,
			Fields: res.Sanitized(),
		})
		return
	}

	h.pages.Render(w, r, http.StatusCreated, "inventory/management", render.View{
		Title:  "Inventory Management",
		Notice: fmt.Sprintf("Successfully added the %d %s %s.", item.Year, item.Make, item.Model),
	})
}

func (h *InventoryHandler) ListByClassification(w http.ResponseWriter, r *http.Request) {
	classificationID, err := strconv.Atoi(chi.URLParam(r, "classificationID"))
	if err != nil {
		h.pages.NotFoundMessage(w, r, "Sorry, no matching vehicles could be found.")
		return
	}

	items, err := h.inventory.ListByClassificationID(r.Context(), classificationID)
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}
	if len(items) == 0 {
		h.pages.NotFoundMessage(w, r, "Sorry, no matching vehicles could be found.")
		return
	}

	h.pages.Render(w, r, http.StatusOK, "inventory/classification", render.View{
		Title: items[0].ClassificationName + " vehicles",
		Data:  map[string]any{"items": items},
	})
}

func (h *InventoryHandler) ShowDetail(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := strconv.Atoi(chi.URLParam(r, "inventoryID"))
	if err != nil {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}
	h.renderDetail(w, r, http.StatusOK, inventoryID, nil, nil, "")
}

// renderDetail builds the vehicle detail view, shared with the review
// handler's redisplay path. Review loading is best-effort: the vehicle still
// renders when its reviews cannot be read.
func (h *InventoryHandler) renderDetail(w http.ResponseWriter, r *http.Request, status, inventoryID int,
	formErrors *validation.Errors, formFields map[string]string, notice string) {

	item, err := h.inventory.GetByID(r.Context(), inventoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	reviews, avg, count := h.loadReviews(r.Context(), inventoryID)

	data := map[string]any{
		"vehicle":     item,
		"reviews":     reviews,
		"reviewCount": count,
	}
	if avg != "" {
		data["reviewAverage"] = avg
	}

	h.pages.Render(w, r, status, "inventory/detail", render.View{
		Title:  fmt.Sprintf("%d %s %s", item.Year, item.Make, item.Model),
		Notice: notice,
		Errors: formErrors,
		Fields: formFields,
		Data:   data,
	})
}

func (h *InventoryHandler) loadReviews(ctx context.Context, inventoryID int) ([]*models.Review, string, int) {
	reviews, err := h.reviews.ListByInventoryID(ctx, inventoryID)
	if err != nil {
		log.Printf("failed to load reviews for vehicle %d: %v", inventoryID, err)
		reviews = nil
	}

	avg := ""
	average, hasReviews, err := h.reviews.AverageRating(ctx, inventoryID)
	if err != nil {
		log.Printf("failed to load review average for vehicle %d: %v", inventoryID, err)
	} else if hasReviews {
		avg = strconv.FormatFloat(average, 'f', 1, 64)
	}

	return reviews, avg, len(reviews)
}

func (h *InventoryHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := strconv.Atoi(chi.URLParam(r, "inventoryID"))
	if err != nil {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}

	item, err := h.inventory.GetByID(r.Context(), inventoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "inventory/edit-inventory", render.View{
		Title:  fmt.Sprintf("Edit %s %s", item.Make, item.Model),
		Fields: inventoryFormFields(item),
	})
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	res := validation.Evaluate(r.Context(), editInventoryFields(), formData(r,
		"inv_id", "inv_make", "inv_model", "inv_year", "inv_description", "inv_image",
		"inv_thumbnail", "inv_price", "inv_miles", "inv_color", "classification_id"))

	title := fmt.Sprintf("Edit %s %s", res.Field("inv_make"), res.Field("inv_model"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "inventory/edit-inventory", render.View{
			Title:  title,
			Errors: res.Errors(),
			Fields: res.Sanitized(),
		})
		return
	}

	item := inventoryFromResult(res)
	item.ID = int(res.Int("inv_id"))

	updated, err := h.inventory.Update(r.Context(), item)
	if err != nil {
		log.Printf("inventory update failed: %v", err)
		h.pages.Render(w, r, http.StatusInternalServerError, "inventory/edit-inventory", render.View{
			Title:  title,
			Notice: "Sorry, the update failed.",
			Fields: res.Sanitized(),
		})
		return
	}

	h.redirect(w, r, "/inv/", fmt.Sprintf("The %s %s was successfully updated.", updated.Make, updated.Model))
}

func (h *InventoryHandler) ShowDelete(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := strconv.Atoi(chi.URLParam(r, "inventoryID"))
	if err != nil {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}

	item, err := h.inventory.GetByID(r.Context(), inventoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "inventory/delete-confirm", render.View{
		Title: fmt.Sprintf("Delete %s %s", item.Make, item.Model),
		Fields: map[string]string{
			"inv_id":    strconv.Itoa(item.ID),
			"inv_make":  validation.Escape(item.Make),
			"inv_model": validation.Escape(item.Model),
			"inv_year":  strconv.Itoa(item.Year),
			"inv_price": strconv.FormatFloat(item.Price, 'f', 2, 64),
		},
	})
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	inventoryID, err := strconv.Atoi(r.PostFormValue("inv_id"))
	if err != nil {
		h.pages.NotFoundMessage(w, r, "We could not find that vehicle.")
		return
	}

	if err := h.inventory.Delete(r.Context(), inventoryID); err != nil {
		log.Printf("inventory delete failed: %v", err)
		h.redirect(w, r, fmt.Sprintf("/inv/delete/%d", inventoryID), "Sorry, the delete failed.")
		return
	}

	h.redirect(w, r, "/inv/", "The deletion was successful.")
}

func inventoryFromResult(res *validation.Result) *models.InventoryItem {
	return &models.InventoryItem{
		Make:             res.Value("inv_make"),
		Model:            res.Value("inv_model"),
		Year:             int(res.Int("inv_year")),
		Description:      res.Value("inv_description"),
		Image:            res.Value("inv_image"),
		Thumbnail:        res.Value("inv_thumbnail"),
		Price:            res.Float("inv_price"),
		Miles:            int(res.Int("inv_miles")),
		Color:            res.Value("inv_color"),
		ClassificationID: int(res.Int("classification_id")),
	}
}

func inventoryFormFields(item *models.InventoryItem) map[string]string {
	return map[string]string{
		"inv_id":            strconv.Itoa(item.ID),
		"inv_make":          validation.Escape(item.Make),
		"inv_model":         validation.Escape(item.Model),
		"inv_year":          strconv.Itoa(item.Year),
		"inv_description":   validation.Escape(item.Description),
		"inv_image":         validation.Escape(item.Image),
		"inv_thumbnail":     validation.Escape(item.Thumbnail),
		"inv_price":         strconv.FormatFloat(item.Price, 'f', -1, 64),
		"inv_miles":         strconv.Itoa(item.Miles),
		"inv_color":         validation.Escape(item.Color),
		"classification_id": strconv.Itoa(item.ClassificationID),
	}
}
