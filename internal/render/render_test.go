package render

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/lgarzadev/dealercat/internal/models"
	"github.com/lgarzadev/dealercat/internal/validation"
)

func TestHTMLRender(t *testing.T) {
	renderer := NewHTML()

	t.Run("pre-escaped fields are not escaped again", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, http.StatusOK, "account/register", View{
			Title:  "Registration",
			Fields: map[string]string{"account_firstname": validation.Escape(`O'Brien <x>`)},
		})

		body := rec.Body.String()
		assert.Contains(t, body, "&#39;Brien &lt;x&gt;")
		assert.NotContains(t, body, "&amp;#39;", "escaping must not compound")
		assert.NotContains(t, body, "&amp;lt;")
	})

	t.Run("notice, errors, and nav all land in the page", func(t *testing.T) {
		errs := &validation.Errors{}
		errs.Add("A valid email is required.")

		rec := httptest.NewRecorder()
		renderer.Render(rec, http.StatusBadRequest, "account/login", View{
			Title:  "Login",
			Notice: "Please check your credentials and try again.",
			Errors: errs,
			Nav:    []*models.Classification{{ID: 2, Name: "Sport"}},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Please check your credentials and try again.")
		assert.Contains(t, body, "A valid email is required.")
		assert.Contains(t, body, `href="/inv/type/2"`)
		assert.Contains(t, body, ">Sport</a>")
	})

	t.Run("empty view still renders", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, http.StatusOK, "home", View{Title: "Home"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<h1>Home</h1>")
	})
}
