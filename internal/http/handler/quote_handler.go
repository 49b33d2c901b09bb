package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/msplaco/quote-api/internal/domain"
	"github.com/msplaco/quote-api/internal/service"
	"go.uber.org/zap"
)

// submitSuccessMessage is shown to the requester after a stored submission
const submitSuccessMessage = "Votre demande a bien ete envoyee ! Nous vous repondrons sous 24h."

// QuoteHandler handles HTTP requests for quote submissions and triage
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// isProgrammatic distinguishes fetch/XHR submitters from plain browser
// form posts; the two get different response shapes.
func isProgrammatic(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Submit godoc
// @Summary Submit a quote request
// @Description Validate and store a public quote-request form submission
// @Tags Quotes
// @Accept x-www-form-urlencoded
// @Produce json
// @Router /send-contact [post]
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	req := &domain.SubmitQuoteRequest{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("phone"),
		Project:     r.PostFormValue("project"),
		Description: r.PostFormValue("description"),
	}

	quote, err := h.quoteService.Submit(r.Context(), req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			if isProgrammatic(r) {
				respondJSON(w, http.StatusBadRequest, domain.SubmitQuoteResponse{
					Success: false,
					Errors:  ve.Messages,
				})
				return
			}
			http.Redirect(w, r, "/#contact", http.StatusSeeOther)
			return
		}

		h.logger.Error("failed to store quote submission", zap.Error(err))
		if isProgrammatic(r) {
			respondWithError(w, http.StatusInternalServerError, "Failed to store submission")
			return
		}
		http.Redirect(w, r, "/#contact", http.StatusSeeOther)
		return
	}

	h.logger.Info("quote stored", zap.Int("id", quote.ID))

	if isProgrammatic(r) {
		respondJSON(w, http.StatusOK, domain.SubmitQuoteResponse{
			Success: true,
			Message: submitSuccessMessage,
		})
		return
	}
	setFlash(w, "Votre demande a bien ete envoyee !")
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

// List godoc
// @Summary List quotes
// @Description Full ordered list of quote requests, newest first (admin)
// @Tags Quotes
// @Produce json
// @Router /api/quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotes")
		return
	}
	respondJSON(w, http.StatusOK, quotes)
}

// UpdateStatus godoc
// @Summary Update quote status
// @Description Set the triage status of a quote (admin)
// @Tags Quotes
// @Accept json
// @Produce json
// @Router /api/quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be an integer")
		return
	}

	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	quote, err := h.quoteService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondWithError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Not found")
		default:
			h.logger.Error("failed to update quote status",
				zap.Int("id", id),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	respondJSON(w, http.StatusOK, domain.QuoteResponse{Success: true, Quote: quote})
}

// Delete godoc
// @Summary Delete quote
// @Description Remove a quote request; deleting an unknown id succeeds (admin)
// @Tags Quotes
// @Produce json
// @Router /api/quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be an integer")
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete quote",
			zap.Int("id", id),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	respondJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}
