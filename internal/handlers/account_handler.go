package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lgarzadev/dealercat/internal/auth"
	"github.com/lgarzadev/dealercat/internal/models"
	"github.com/lgarzadev/dealercat/internal/render"
	"github.com/lgarzadev/dealercat/internal/repositories"
	"github.com/lgarzadev/dealercat/internal/validation"
)

type AccountHandler struct {
	pages    *Pages
	accounts repositories.AccountRepository
	tokens   *auth.TokenService
}

func NewAccountHandler(pages *Pages, accounts repositories.AccountRepository, tokens *auth.TokenService) *AccountHandler {
	return &AccountHandler{pages: pages, accounts: accounts, tokens: tokens}
}

// signIn issues a fresh session token from the given persisted record and
// writes the cookie. Every identity-affecting mutation ends here with the row
// it just wrote, never with a pre-mutation copy.
func (h *AccountHandler) signIn(w http.ResponseWriter, account *models.Account) error {
	token, err := h.tokens.Issue(account.Safe())
	if err != nil {
		return err
	}
	h.tokens.SetCookie(w, token)
	return nil
}

func (h *AccountHandler) redirect(w http.ResponseWriter, r *http.Request, url, notice string) {
	h.pages.Flash.Set(w, r, notice)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *AccountHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "account/login", render.View{Title: "Login"})
}

func (h *AccountHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "account/register", render.View{Title: "Registration"})
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	res := validation.Evaluate(r.Context(), registrationFields(h.accounts),
		formData(r, "account_firstname", "account_lastname", "account_email", "account_password"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "account/register", render.View{
			Title:  "Registration",
			Errors: res.Errors(),
			Fields: res.Sanitized(),
		})
		return
	}

	hash, err := auth.HashPassword(res.Value("account_password"))
	if err != nil {
		log.Printf("registration hash failed: %v", err)
		h.pages.Render(w, r, http.StatusInternalServerError, "account/register", render.View{
			Title:  "Registration",
			Notice: "Sorry, there was an error processing the registration.",
			Fields: res.Sanitized(),
		})
		return
	}

	account := &models.Account{
		FirstName:    res.Value("account_firstname"),
		LastName:     res.Value("account_lastname"),
		Email:        res.Value("account_email"),
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}

	if err := h.accounts.Create(r.Context(), account); err != nil {
		log.Printf("registration persist failed: %v", err)
		h.pages.Render(w, r, http.StatusInternalServerError, "account/register", render.View{
			Title:  "Registration",
			Notice: "Sorry, the registration failed.",
			Fields: res.Sanitized(),
		})
		return
	}

	h.pages.Render(w, r, http.StatusCreated, "account/login", render.View{
		Title:  "Login",
		Notice: fmt.Sprintf("Congratulations, you're registered %s. Please log in.", res.Value("account_firstname")),
	})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	res := validation.Evaluate(r.Context(), loginFields(),
		formData(r, "account_email", "account_password"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "account/login", render.View{
			Title:  "Login",
			Errors: res.Errors(),
			Fields: res.Sanitized(),
		})
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), res.Value("account_email"))
	if errors.Is(err, repositories.ErrNotFound) {
		h.pages.Render(w, r, http.StatusBadRequest, "account/login", render.View{
			Title:  "Login",
			Notice: "Please check your credentials and try again.",
			Fields: res.Sanitized(),
		})
		return
	}
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	ok, err := auth.CheckPassword(account.PasswordHash, res.Value("account_password"))
	if err != nil {
		// Compare blew up on the stored hash itself. That is an integrity
		// failure, not a wrong password.
		h.pages.ServerError(w, r, err)
		return
	}
	if !ok {
		h.pages.Render(w, r, http.StatusBadRequest, "account/login", render.View{
			Title:  "Login",
			Notice: "Please check your credentials and try again.",
			Fields: res.Sanitized(),
		})
		return
	}

	if err := h.signIn(w, account); err != nil {
		h.pages.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) ShowManagement(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())

	account, err := h.accounts.GetByID(r.Context(), identity.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		h.redirect(w, r, "/account/logout", "We could not locate your account information.")
		return
	}
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "account/management", render.View{
		Title:  "Account Management",
		Fields: accountFormFields(account),
		Data:   map[string]any{"account": account.Safe()},
	})
}

func (h *AccountHandler) ShowUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())

	accountID, err := strconv.Atoi(chi.URLParam(r, "accountID"))
	if err != nil || accountID != identity.ID {
		h.redirect(w, r, "/account/", "You are not authorized to update that account.")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		h.redirect(w, r, "/account/", "We could not locate your account information.")
		return
	}
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "account/update", render.View{
		Title:  "Update Account",
		Fields: accountFormFields(account),
	})
}

// authorizeTarget compares the mutation's target account id, taken from the
// body, against the authenticated identity. A mismatch never reaches
// validation.
func (h *AccountHandler) authorizeTarget(w http.ResponseWriter, r *http.Request) (int, bool) {
	identity, _ := auth.Identity(r.Context())

	_ = r.ParseForm()
	accountID, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("account_id")))
	if err != nil || accountID != identity.ID {
		h.redirect(w, r, "/account/", "You are not authorized to update that account.")
		return 0, false
	}
	return accountID, true
}

func (h *AccountHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	res := validation.Evaluate(r.Context(), updateAccountFields(h.accounts),
		formData(r, "account_firstname", "account_lastname", "account_id", "account_email"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "account/update", render.View{
			Title:  "Update Account",
			Errors: res.Errors(),
			Fields: res.Sanitized(),
		})
		return
	}

	updated, err := h.accounts.Update(r.Context(), accountID,
		res.Value("account_firstname"), res.Value("account_lastname"), res.Value("account_email"))
	if err != nil {
		log.Printf("account update failed: %v", err)
		h.pages.Render(w, r, http.StatusInternalServerError, "account/update", render.View{
			Title:  "Update Account",
			Notice: "We could not update your account information.",
			Fields: res.Sanitized(),
		})
		return
	}

	if err := h.signIn(w, updated); err != nil {
		h.pages.ServerError(w, r, err)
		return
	}
	h.redirect(w, r, "/account/", "Your account information has been updated.")
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	res := validation.Evaluate(r.Context(), passwordUpdateFields(),
		formData(r, "account_id", "account_password"))

	if !res.OK() {
		h.pages.Render(w, r, http.StatusBadRequest, "account/update", render.View{
			Title:  "Update Account",
			Errors: res.Errors(),
			Fields: h.currentAccountFields(r, accountID),
		})
		return
	}

	hash, err := auth.HashPassword(res.Value("account_password"))
	if err != nil {
		log.Printf("password hash failed: %v", err)
		h.renderPasswordFailure(w, r, accountID)
		return
	}

	updated, err := h.accounts.UpdatePassword(r.Context(), accountID, hash)
	if err != nil {
		log.Printf("password update failed: %v", err)
		h.renderPasswordFailure(w, r, accountID)
		return
	}

	// Silent re-login: the session is re-issued from the row the update just
	// wrote rather than forcing an explicit re-authentication.
	if err := h.signIn(w, updated); err != nil {
		h.redirect(w, r, "/account/logout",
			"We updated your password but could not refresh your session. Please log in again.")
		return
	}
	h.redirect(w, r, "/account/", "Your password has been updated.")
}

func (h *AccountHandler) renderPasswordFailure(w http.ResponseWriter, r *http.Request, accountID int) {
	h.pages.Render(w, r, http.StatusInternalServerError, "account/update", render.View{
		Title:  "Update Account",
		Notice: "We could not update your password. Please try again.",
		Fields: h.currentAccountFields(r, accountID),
	})
}

// currentAccountFields pre-fills the update form from the stored row so a
// password failure still redisplays the profile section. Best-effort.
func (h *AccountHandler) currentAccountFields(r *http.Request, accountID int) map[string]string {
	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		return map[string]string{"account_id": strconv.Itoa(accountID)}
	}
	return accountFormFields(account)
}

// accountFormFields escapes stored values once for redisplay.
func accountFormFields(account *models.Account) map[string]string {
	return map[string]string{
		"account_firstname": validation.Escape(account.FirstName),
		"account_lastname":  validation.Escape(account.LastName),
		"account_email":     validation.Escape(strings.ToLower(account.Email)),
		"account_id":        strconv.Itoa(account.ID),
	}
}
