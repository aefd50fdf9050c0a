package cards

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rogerioalves7/domo-1/internal/ledger"
)

// Recorder writes a movement into an open ledger transaction. Satisfied by
// the ledger service.
type Recorder interface {
	Record(ctx context.Context, tx ledger.TxRepository, houseID int64, input ledger.CreateInput) (*ledger.Transaction, error)
}

// Service owns credit card lifecycle and invoice payment.
type Service struct {
	repo     RepositoryPort
	recorder Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryPort, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" || input.LimitTotal <= 0 || input.ClosingDay < 1 || input.ClosingDay > 31 {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Create(ctx context.Context, houseID, ownerID int64, input Input) (*CreditCard, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	c := &CreditCard{
		HouseID:        houseID,
		OwnerID:        ownerID,
		IsShared:       input.IsShared,
		Name:           strings.TrimSpace(input.Name),
		LimitTotal:     input.LimitTotal,
		LimitAvailable: input.LimitTotal,
		ClosingDay:     input.ClosingDay,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "credit card created", "card_id", c.ID, "house_id", houseID)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, houseID, userID, id int64) (*CreditCard, error) {
	c, err := s.repo.Get(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	if !c.IsShared && c.OwnerID != userID {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, houseID, userID int64) ([]CreditCard, error) {
	all, err := s.repo.List(ctx, houseID)
	if err != nil {
		return nil, err
	}
	visible := make([]CreditCard, 0, len(all))
	for _, c := range all {
		if c.IsShared || c.OwnerID == userID {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Update edits the card. A change to the total limit moves the available
// limit by the same amount, so already consumed credit stays consumed.
func (s *Service) Update(ctx context.Context, houseID, userID, id int64, input Input) (*CreditCard, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, houseID, userID, id)
	if err != nil {
		return nil, err
	}
	c.LimitAvailable += input.LimitTotal - c.LimitTotal
	if c.LimitAvailable > input.LimitTotal {
		c.LimitAvailable = input.LimitTotal
	}
	// Shrinking the total below the consumed credit would go negative.
	if c.LimitAvailable < 0 {
		c.LimitAvailable = 0
	}
	c.LimitTotal = input.LimitTotal
	c.Name = strings.TrimSpace(input.Name)
	c.ClosingDay = input.ClosingDay
	c.IsShared = input.IsShared
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, houseID, userID, id int64) error {
	if _, err := s.Get(ctx, houseID, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, houseID, id)
}

func (s *Service) GetInvoice(ctx context.Context, houseID, userID, cardID, invoiceID int64) (*Invoice, []ledger.Transaction, error) {
	if _, err := s.Get(ctx, houseID, userID, cardID); err != nil {
		return nil, nil, err
	}
	inv, err := s.repo.GetInvoice(ctx, houseID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv.CardID != cardID {
		return nil, nil, ErrInvoiceNotFound
	}
	transactions, err := s.repo.ListInvoiceTransactions(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return inv, transactions, nil
}

func (s *Service) ListInvoices(ctx context.Context, houseID, userID, cardID int64) ([]Invoice, error) {
	if _, err := s.Get(ctx, houseID, userID, cardID); err != nil {
		return nil, err
	}
	return s.repo.ListInvoices(ctx, houseID, cardID)
}

// PayInvoice records an account expense for the payment and settles the
// invoice in the same database transaction. The payment restores the card's
// available limit, capped at the total limit. Partial payments are allowed;
// once the paid amount covers the invoice value the invoice flips to PAID
// and stays there.
func (s *Service) PayInvoice(ctx context.Context, houseID, userID, cardID int64, input PaymentInput) (*Invoice, error) {
	if input.Value <= 0 {
		return nil, ErrInvalidPayment
	}
	if _, err := s.Get(ctx, houseID, userID, cardID); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx ledger.TxRepository) error {
		// Lock order: card, invoice, then account inside the recorder.
		card, err := tx.GetCardForUpdate(ctx, houseID, cardID)
		if err != nil {
			return err
		}
		invoice, err := tx.GetInvoiceForUpdate(ctx, houseID, input.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.CardID != cardID {
			return ErrInvoiceNotFound
		}
		if invoice.Status == StatusPaid {
			return ErrInvoicePaid
		}

		if _, err := s.recorder.Record(ctx, tx, houseID, ledger.CreateInput{
			Description: fmt.Sprintf("Pagamento Fatura %s", card.Name),
			Value:       input.Value,
			Type:        ledger.TypeExpense,
			Method:      ledger.MethodAccount,
			AccountID:   input.AccountID,
			Date:        input.Date,
		}); err != nil {
			return err
		}

		paid := invoice.AmountPaid + input.Value
		status := invoice.Status
		if paid >= invoice.Value {
			status = StatusPaid
		}
		if err := tx.UpdateInvoicePayment(ctx, invoice.ID, paid, status); err != nil {
			return err
		}

		available := card.LimitAvailable + input.Value
		if available > card.LimitTotal {
			available = card.LimitTotal
		}
		return tx.UpdateCardLimit(ctx, card.ID, available)
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "invoice paid", "invoice_id", input.InvoiceID, "card_id", cardID, "value", input.Value)
	}
	return s.repo.GetInvoice(ctx, houseID, input.InvoiceID)
}
