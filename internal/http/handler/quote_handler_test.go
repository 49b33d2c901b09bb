package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/msplaco/quote-api/internal/domain"
	"github.com/msplaco/quote-api/internal/http/handler"
	"github.com/msplaco/quote-api/internal/service"
	"github.com/msplaco/quote-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noopNotifier satisfies the notification dependency without sending mail
type noopNotifier struct{}

func (noopNotifier) Notify(domain.Quote) {}

type quoteFixture struct {
	router  chi.Router
	service *service.QuoteService
	store   *store.QuoteStore
}

func setupQuoteHandler(t *testing.T) *quoteFixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.json")
	st, err := store.New(path, zap.NewNop())
	require.NoError(t, err)

	svc := service.NewQuoteService(st, noopNotifier{}, "Non renseigne", zap.NewNop())
	h := handler.NewQuoteHandler(svc, zap.NewNop())

	// Routes mirror the production mux so URL params resolve
	r := chi.NewRouter()
	r.Post("/send-contact", h.Submit)
	r.Route("/api/quotes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})
	return &quoteFixture{router: r, service: svc, store: st}
}

func validForm() url.Values {
	return url.Values{
		"first_name":  {"Amine"},
		"last_name":   {"B"},
		"email":       {"a@b.com"},
		"description": {"Plafond"},
	}
}

func postForm(f *quoteFixture, form url.Values, ajax bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/send-contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestQuoteHandler_Submit(t *testing.T) {
	t.Run("ajax submission returns the success payload", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := postForm(f, validForm(), true)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp domain.SubmitQuoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Votre demande a bien ete envoyee ! Nous vous repondrons sous 24h.", resp.Message)
		assert.Empty(t, resp.Errors)

		quotes, err := f.store.LoadAll()
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, "Amine", quotes[0].FirstName)
	})

	t.Run("ajax validation failure lists every violation", func(t *testing.T) {
		f := setupQuoteHandler(t)

		form := validForm()
		form.Set("first_name", "")
		form.Set("email", "not-an-email")
		rec := postForm(f, form, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp domain.SubmitQuoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, []string{"Le prenom est obligatoire.", "Email invalide."}, resp.Errors)

		quotes, err := f.store.LoadAll()
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("browser submission redirects back with a flash cookie", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := postForm(f, validForm(), false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/#contact", rec.Header().Get("Location"))

		var flash *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == handler.FlashCookie {
				flash = c
			}
		}
		require.NotNil(t, flash)
		decoded, err := url.QueryUnescape(flash.Value)
		require.NoError(t, err)
		assert.Equal(t, "Votre demande a bien ete envoyee !", decoded)

		quotes, err := f.store.LoadAll()
		require.NoError(t, err)
		assert.Len(t, quotes, 1)
	})

	t.Run("browser validation failure redirects without persisting", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := postForm(f, url.Values{}, false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/#contact", rec.Header().Get("Location"))

		quotes, err := f.store.LoadAll()
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})
}

func TestQuoteHandler_List(t *testing.T) {
	f := setupQuoteHandler(t)

	t.Run("empty store lists an empty array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quotes/", nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("lists newest first", func(t *testing.T) {
		postForm(f, validForm(), true)
		second := validForm()
		second.Set("first_name", "Karim")
		postForm(f, second, true)

		req := httptest.NewRequest(http.MethodGet, "/api/quotes/", nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var quotes []domain.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotes))
		require.Len(t, quotes, 2)
		assert.Equal(t, "Karim", quotes[0].FirstName)
		assert.Equal(t, 2, quotes[0].ID)
		assert.Equal(t, 1, quotes[1].ID)
	})
}

func patchStatus(f *quoteFixture, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/quotes/"+id+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestQuoteHandler_UpdateStatus(t *testing.T) {
	t.Run("valid status is applied and returned", func(t *testing.T) {
		f := setupQuoteHandler(t)
		postForm(f, validForm(), true)

		rec := patchStatus(f, "1", `{"status":"progress"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp domain.QuoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Quote)
		assert.Equal(t, domain.QuoteStatusProgress, resp.Quote.Status)

		quotes, err := f.store.LoadAll()
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusProgress, quotes[0].Status)
	})

	t.Run("unknown status value yields 400", func(t *testing.T) {
		f := setupQuoteHandler(t)
		postForm(f, validForm(), true)

		rec := patchStatus(f, "1", `{"status":"closed"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, "Invalid status", apiErr.Detail)
	})

	t.Run("absent id yields 404", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := patchStatus(f, "99", `{"status":"done"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, "Not found", apiErr.Detail)
	})

	t.Run("non-integer id yields 400", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := patchStatus(f, "abc", `{"status":"done"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		f := setupQuoteHandler(t)
		postForm(f, validForm(), true)

		rec := patchStatus(f, "1", `{status:`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuoteHandler_Delete(t *testing.T) {
	deleteQuote := func(f *quoteFixture, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/quotes/"+id, nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("removes the quote", func(t *testing.T) {
		f := setupQuoteHandler(t)
		postForm(f, validForm(), true)

		rec := deleteQuote(f, "1")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp domain.SuccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		quotes, err := f.store.LoadAll()
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("deleting an absent id still succeeds", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := deleteQuote(f, "99")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-integer id yields 400", func(t *testing.T) {
		f := setupQuoteHandler(t)

		rec := deleteQuote(f, "abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
