package mailer

import (
	"fmt"

	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/domain"
	"go.uber.org/zap"
)

// QuoteNotifier composes and sends the two messages for an accepted
// quote: a notification to the site owner and an acknowledgment to the
// requester. Failures are logged, never returned; by the time Notify
// runs the quote is already persisted and the response already decided.
type QuoteNotifier struct {
	sender Sender
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewQuoteNotifier creates a new QuoteNotifier
func NewQuoteNotifier(sender Sender, cfg *config.MailConfig, logger *zap.Logger) *QuoteNotifier {
	return &QuoteNotifier{sender: sender, cfg: cfg, logger: logger}
}

// Notify sends the owner notification and the requester acknowledgment
func (n *QuoteNotifier) Notify(quote domain.Quote) {
	brand := n.cfg.FromName

	owner := Message{
		To:      n.cfg.OwnerEmail,
		Subject: fmt.Sprintf("[%s] Nouveau devis - %s", brand, quote.FullName()),
		Body: fmt.Sprintf(
			"Nouveau devis de %s\nEmail: %s\nTel: %s\nProjet: %s\nDate: %s\n\n%s",
			quote.FullName(), quote.Email, quote.Phone, quote.Project, quote.Date, quote.Description,
		),
		ReplyTo: quote.Email,
	}
	if err := n.sender.Send(owner); err != nil {
		n.logger.Warn("failed to send owner notification",
			zap.Int("quote_id", quote.ID),
			zap.String("to", owner.To),
			zap.Error(err),
		)
	}

	ack := Message{
		To:      quote.Email,
		Subject: fmt.Sprintf("%s - Votre demande de devis a bien ete recue", brand),
		Body: fmt.Sprintf(
			"Bonjour %s,\n\nMerci pour votre demande. Nous vous repondrons sous 24h.\n\nProjet: %s\n\nL'equipe %s",
			quote.FirstName, quote.Project, brand,
		),
	}
	if err := n.sender.Send(ack); err != nil {
		n.logger.Warn("failed to send requester acknowledgment",
			zap.Int("quote_id", quote.ID),
			zap.String("to", ack.To),
			zap.Error(err),
		)
	}
}
