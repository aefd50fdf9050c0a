package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Service is the transaction recorder: every balance, limit and invoice
// mutation in the system goes through it, so creation, edit and deletion
// stay exact inverses of each other.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds the recorder.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create records a transaction and applies its funding side effect in one
// atomic unit. A credit card expense with N installments produces N
// transaction rows, each bound to its monthly invoice.
func (s *Service) Create(ctx context.Context, houseID int64, input CreateInput) (*Transaction, error) {
	if err := validateCreate(houseID, input); err != nil {
		return nil, err
	}
	var created *Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		t, err := s.Record(ctx, tx, houseID, input)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("transaction recorded",
			slog.Int64("house_id", houseID),
			slog.Int64("transaction_id", created.ID),
			slog.String("type", string(input.Type)),
			slog.String("value", input.Value.String()))
	}
	return created, nil
}

// Record applies the recorder contract inside an already-open transactional
// unit. The shopping checkout and the invoice payment compose with it so
// their extra writes commit or roll back together with the ledger mutation.
// Lock order is always card, invoice, account.
func (s *Service) Record(ctx context.Context, tx TxRepository, houseID int64, input CreateInput) (*Transaction, error) {
	if err := validateCreate(houseID, input); err != nil {
		return nil, err
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	switch {
	case input.Type == TypeExpense && input.Method == MethodCreditCard:
		return s.recordCardExpense(ctx, tx, houseID, input, date)
	case input.Type == TypeExpense && (input.Method == MethodAccount || (input.Method == "" && input.AccountID != 0)):
		return s.recordAccountExpense(ctx, tx, houseID, input, date)
	case input.Type == TypeIncome && input.AccountID != 0:
		return s.recordIncome(ctx, tx, houseID, input, date)
	default:
		// No funding object: purely historical, no balance mutation. This is
		// how transactions survive after their owner's account is anonymized.
		return s.insertOne(ctx, tx, Transaction{
			HouseID:         houseID,
			Description:     input.Description,
			Value:           input.Value,
			Type:            input.Type,
			Date:            date,
			CategoryID:      input.CategoryID,
			RecurringBillID: input.RecurringBillID,
		}, input.Items)
	}
}

func (s *Service) recordAccountExpense(ctx context.Context, tx TxRepository, houseID int64, input CreateInput, date time.Time) (*Transaction, error) {
	account, err := tx.GetAccountForUpdate(ctx, houseID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if input.Value > account.PurchasingPower() {
		return nil, fmt.Errorf("%w: account %s", ErrInsufficientFunds, account.Name)
	}
	if err := tx.UpdateAccountBalance(ctx, account.ID, account.Balance-input.Value); err != nil {
		return nil, err
	}
	return s.insertOne(ctx, tx, Transaction{
		HouseID:         houseID,
		Description:     input.Description,
		Value:           input.Value,
		Type:            TypeExpense,
		Date:            date,
		AccountID:       account.ID,
		CategoryID:      input.CategoryID,
		RecurringBillID: input.RecurringBillID,
	}, input.Items)
}

func (s *Service) recordIncome(ctx context.Context, tx TxRepository, houseID int64, input CreateInput, date time.Time) (*Transaction, error) {
	account, err := tx.GetAccountForUpdate(ctx, houseID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if err := tx.UpdateAccountBalance(ctx, account.ID, account.Balance+input.Value); err != nil {
		return nil, err
	}
	return s.insertOne(ctx, tx, Transaction{
		HouseID:         houseID,
		Description:     input.Description,
		Value:           input.Value,
		Type:            TypeIncome,
		Date:            date,
		AccountID:       account.ID,
		CategoryID:      input.CategoryID,
		RecurringBillID: input.RecurringBillID,
	}, input.Items)
}

func (s *Service) recordCardExpense(ctx context.Context, tx TxRepository, houseID int64, input CreateInput, date time.Time) (*Transaction, error) {
	card, err := tx.GetCardForUpdate(ctx, houseID, input.CardID)
	if err != nil {
		return nil, err
	}
	if input.Value > card.LimitAvailable {
		return nil, fmt.Errorf("%w: card %s", ErrInsufficientCredit, card.Name)
	}
	if err := tx.UpdateCardLimit(ctx, card.ID, card.LimitAvailable-input.Value); err != nil {
		return nil, err
	}

	plan := BuildPlan(input.Value, input.Installments, date, card.ClosingDay)
	if !input.ReferenceDate.IsZero() {
		// Installment dates stay anchored on the purchase date; only the
		// invoice assignment shifts.
		for i := range plan {
			plan[i].Reference = shared.ReferenceMonth(shared.AddMonths(input.ReferenceDate, i), card.ClosingDay)
		}
	}
	var first *Transaction
	for _, installment := range plan {
		invoice, err := tx.GetOrCreateInvoiceForUpdate(ctx, card.ID, installment.Reference)
		if err != nil {
			return nil, err
		}
		// Additive accumulation: several charges in the same billing month
		// compound on the same invoice.
		if err := tx.AddInvoiceValue(ctx, invoice.ID, installment.Value); err != nil {
			return nil, err
		}

		description := input.Description
		if len(plan) > 1 {
			description = fmt.Sprintf("%s (%d/%d)", input.Description, installment.Sequence, len(plan))
		}
		t := Transaction{
			HouseID:         houseID,
			Description:     description,
			Value:           installment.Value,
			Type:            TypeExpense,
			Date:            installment.Date,
			InvoiceID:       invoice.ID,
			CategoryID:      input.CategoryID,
			RecurringBillID: input.RecurringBillID,
		}
		if installment.Sequence == 1 {
			created, err := s.insertOne(ctx, tx, t, input.Items)
			if err != nil {
				return nil, err
			}
			first = created
		} else {
			if _, err := tx.InsertTransaction(ctx, t); err != nil {
				return nil, err
			}
		}
	}
	return first, nil
}

func (s *Service) insertOne(ctx context.Context, tx TxRepository, t Transaction, items []ItemInput) (*Transaction, error) {
	id, err := tx.InsertTransaction(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if len(items) > 0 {
		if err := tx.InsertItems(ctx, id, items); err != nil {
			return nil, err
		}
		t.Items = make([]Item, len(items))
		for i, item := range items {
			t.Items[i] = Item{TransactionID: id, Description: item.Description, Value: item.Value, Quantity: item.Quantity}
		}
	}
	return &t, nil
}

// Delete removes a transaction and reverses exactly the effect its creation
// applied. The reversal is a strict inverse and is never re-validated, so it
// may push a balance outside nominal bounds; that is correct historical
// reversal, not an error.
func (s *Service) Delete(ctx context.Context, houseID, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		t, err := tx.GetTransactionForUpdate(ctx, houseID, id)
		if err != nil {
			return err
		}
		if err := s.reverse(ctx, tx, houseID, t); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, t.ID)
	})
}

func (s *Service) reverse(ctx context.Context, tx TxRepository, houseID int64, t *Transaction) error {
	switch {
	case t.AccountID != 0:
		account, err := tx.GetAccountForUpdate(ctx, houseID, t.AccountID)
		if err != nil {
			return err
		}
		balance := account.Balance
		if t.Type == TypeIncome {
			balance -= t.Value
		} else {
			balance += t.Value
		}
		return tx.UpdateAccountBalance(ctx, account.ID, balance)
	case t.InvoiceID != 0:
		invoice, err := tx.GetInvoice(ctx, houseID, t.InvoiceID)
		if err != nil {
			return err
		}
		card, err := tx.GetCardForUpdate(ctx, houseID, invoice.CardID)
		if err != nil {
			return err
		}
		restored := card.LimitAvailable + t.Value
		if restored > card.LimitTotal {
			restored = card.LimitTotal
		}
		if err := tx.UpdateCardLimit(ctx, card.ID, restored); err != nil {
			return err
		}
		if _, err := tx.GetInvoiceForUpdate(ctx, houseID, invoice.ID); err != nil {
			return err
		}
		return tx.AddInvoiceValue(ctx, invoice.ID, -t.Value)
	default:
		// Anonymized history: nothing to reverse.
		return nil
	}
}

// Update edits a transaction in place, undoing the old value's effect and
// applying the new one within the same atomic unit. Invoice-bound rows only
// accept description, category and date changes; their values are fixed by
// the installment plan.
func (s *Service) Update(ctx context.Context, houseID, id int64, input UpdateInput) (*Transaction, error) {
	if input.Value <= 0 {
		return nil, ErrInvalidValue
	}
	var updated *Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		t, err := tx.GetTransactionForUpdate(ctx, houseID, id)
		if err != nil {
			return err
		}
		switch {
		case t.InvoiceID != 0:
			if input.Value != t.Value {
				return ErrInstallmentImmutable
			}
		case t.AccountID != 0:
			account, err := tx.GetAccountForUpdate(ctx, houseID, t.AccountID)
			if err != nil {
				return err
			}
			balance := account.Balance
			if t.Type == TypeIncome {
				balance -= t.Value
			} else {
				balance += t.Value
			}
			if t.Type == TypeExpense {
				if input.Value > balance+account.Limit {
					return fmt.Errorf("%w: account %s", ErrInsufficientFunds, account.Name)
				}
				balance -= input.Value
			} else {
				balance += input.Value
			}
			if err := tx.UpdateAccountBalance(ctx, account.ID, balance); err != nil {
				return err
			}
			t.Value = input.Value
		default:
			t.Value = input.Value
		}

		if input.Description != "" {
			t.Description = input.Description
		}
		if !input.Date.IsZero() {
			t.Date = input.Date
		}
		t.CategoryID = input.CategoryID
		if err := tx.UpdateTransaction(ctx, *t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns one transaction with its items.
func (s *Service) Get(ctx context.Context, houseID, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, houseID, id)
}

// List returns the house's transactions visible to the acting member.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	if filter.HouseID == 0 {
		return nil, ErrTransactionNotFound
	}
	return s.repo.ListTransactions(ctx, filter)
}

func validateCreate(houseID int64, input CreateInput) error {
	if houseID == 0 {
		return fmt.Errorf("%w: house required", ErrInvalidValue)
	}
	if input.Value <= 0 {
		return ErrInvalidValue
	}
	if input.Type != TypeIncome && input.Type != TypeExpense {
		return ErrInvalidType
	}
	if input.Type == TypeIncome && input.Method == MethodCreditCard {
		return ErrMissingAccount
	}
	if input.Method == MethodAccount && input.AccountID == 0 {
		return ErrMissingAccount
	}
	if input.Method == MethodCreditCard && input.CardID == 0 {
		return ErrMissingCard
	}
	if input.Installments > 1 && !(input.Type == TypeExpense && input.Method == MethodCreditCard) {
		return ErrInvalidInstallments
	}
	return nil
}
