package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/msplaco/quote-api/internal/domain"
	"github.com/msplaco/quote-api/internal/store"
	"go.uber.org/zap"
)

// basicEmailRe accepts the local@domain.tld shape without trying to be RFC-complete
var basicEmailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The stock "email" tag is stricter than the form contract; keep the
	// permissive historical shape instead.
	_ = v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return basicEmailRe.MatchString(fl.Field().String())
	})
	return v
}

// submitMessages maps violated form fields to their user-facing messages.
// The site is French-first, so the wording matches the public form.
var submitMessages = map[string]string{
	"FirstName":   "Le prenom est obligatoire.",
	"LastName":    "Le nom est obligatoire.",
	"Email":       "Email invalide.",
	"Description": "Veuillez decrire votre projet.",
}

// Notifier dispatches the two notification emails for an accepted quote.
// Implementations must never block the submit response on delivery.
type Notifier interface {
	Notify(quote domain.Quote)
}

// QuoteService handles the quote-request lifecycle
type QuoteService struct {
	store            *store.QuoteStore
	notifier         Notifier
	phonePlaceholder string
	logger           *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewQuoteService creates a new QuoteService instance
func NewQuoteService(st *store.QuoteStore, notifier Notifier, phonePlaceholder string, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		store:            st,
		notifier:         notifier,
		phonePlaceholder: phonePlaceholder,
		logger:           logger,
		now:              time.Now,
	}
}

// Submit validates a public form submission, persists it at the head of
// the store and dispatches notifications. A *ValidationError carries every
// violated rule; nothing is persisted on failure.
func (s *QuoteService) Submit(ctx context.Context, req *domain.SubmitQuoteRequest) (*domain.Quote, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Project = strings.TrimSpace(req.Project)
	req.Description = strings.TrimSpace(req.Description)

	if err := validate.Struct(req); err != nil {
		var messages []string
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				if msg, found := submitMessages[fe.Field()]; found {
					messages = append(messages, msg)
				}
			}
		}
		s.logger.Info("quote submission rejected",
			zap.Strings("errors", messages),
		)
		return nil, &ValidationError{Messages: messages}
	}

	phone := req.Phone
	if phone == "" {
		phone = s.phonePlaceholder
	}

	quote := domain.Quote{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       phone,
		Project:     req.Project,
		Description: req.Description,
		Date:        s.now().Format(domain.DateLayout),
		Status:      domain.QuoteStatusNew,
	}

	err := s.store.Update(func(quotes []domain.Quote) ([]domain.Quote, error) {
		quote.ID = store.NextID(quotes)
		// Newest record is first
		return append([]domain.Quote{quote}, quotes...), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote submitted",
		zap.Int("id", quote.ID),
		zap.String("name", quote.FullName()),
		zap.String("email", quote.Email),
	)

	// Fire-and-forget: delivery failures are logged by the notifier and
	// never surface to the submitter once the quote is persisted.
	go s.notifier.Notify(quote)

	return &quote, nil
}

// List returns the full ordered sequence, newest first
func (s *QuoteService) List(ctx context.Context) ([]domain.Quote, error) {
	return s.store.LoadAll()
}

// UpdateStatus sets the status of the quote with the given id.
// The enum has no transition graph: any value may follow any other.
func (s *QuoteService) UpdateStatus(ctx context.Context, id int, status string) (*domain.Quote, error) {
	st := domain.QuoteStatus(status)
	if !st.IsValid() {
		return nil, ErrInvalidStatus
	}

	var updated domain.Quote
	err := s.store.Update(func(quotes []domain.Quote) ([]domain.Quote, error) {
		q, found := store.FindByID(quotes, id)
		if !found {
			return nil, ErrNotFound
		}
		q.Status = st
		updated = *q
		return quotes, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote status updated",
		zap.Int("id", id),
		zap.String("status", status),
	)
	return &updated, nil
}

// Delete removes the quote with the given id. Deleting an absent id is a
// no-op; the operation is idempotent.
func (s *QuoteService) Delete(ctx context.Context, id int) error {
	err := s.store.Update(func(quotes []domain.Quote) ([]domain.Quote, error) {
		kept := make([]domain.Quote, 0, len(quotes))
		for _, q := range quotes {
			if q.ID != id {
				kept = append(kept, q)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("quote deleted", zap.Int("id", id))
	return nil
}
