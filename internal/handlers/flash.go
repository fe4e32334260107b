package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/lgarzadev/dealercat/internal/repositories"
)

const flashCookieName = "flash"

// Flash carries one-shot notices across a redirect. The notice itself lives
// server-side; the cookie only holds an opaque claim ticket.
type Flash struct {
	store  repositories.FlashStore
	secure bool
}

func NewFlash(store repositories.FlashStore, secure bool) *Flash {
	return &Flash{store: store, secure: secure}
}

// Set stores a notice for the next render. Flash delivery is best-effort: a
// failed store is logged and the redirect proceeds without a notice.
func (f *Flash) Set(w http.ResponseWriter, r *http.Request, notice string) {
	id := uuid.NewString()
	if err := f.store.Put(r.Context(), id, notice); err != nil {
		log.Printf("failed to set flash notice: %v", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and discards it.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})

	notice, err := f.store.Take(r.Context(), cookie.Value)
	if errors.Is(err, repositories.ErrNotFound) {
		return ""
	}
	if err != nil {
		log.Printf("failed to take flash notice: %v", err)
		return ""
	}
	return notice
}
