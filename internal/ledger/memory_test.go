package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// memoryRepo implements RepositoryPort and TxRepository in memory for tests.
type memoryRepo struct {
	accounts     map[int64]*AccountRef
	cards        map[int64]*CardRef
	invoices     map[int64]*InvoiceRef
	invoiceIndex map[string]int64
	transactions map[int64]*Transaction
	items        map[int64][]Item
	nextID       int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		accounts:     make(map[int64]*AccountRef),
		cards:        make(map[int64]*CardRef),
		invoices:     make(map[int64]*InvoiceRef),
		invoiceIndex: make(map[string]int64),
		transactions: make(map[int64]*Transaction),
		items:        make(map[int64][]Item),
	}
}

func (r *memoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memoryRepo) addAccount(houseID int64, balance, limit shared.Cents) *AccountRef {
	account := &AccountRef{ID: r.id(), HouseID: houseID, Name: fmt.Sprintf("account-%d", r.nextID), Balance: balance, Limit: limit}
	r.accounts[account.ID] = account
	return account
}

func (r *memoryRepo) addCard(houseID int64, total, available shared.Cents, closingDay int) *CardRef {
	card := &CardRef{ID: r.id(), HouseID: houseID, Name: fmt.Sprintf("card-%d", r.nextID), LimitTotal: total, LimitAvailable: available, ClosingDay: closingDay}
	r.cards[card.ID] = card
	return card
}

func (r *memoryRepo) invoiceKey(cardID int64, reference time.Time) string {
	return fmt.Sprintf("%d:%s", cardID, reference.Format("2006-01"))
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) GetTransaction(ctx context.Context, houseID, id int64) (*Transaction, error) {
	t, ok := r.transactions[id]
	if !ok || t.HouseID != houseID {
		return nil, ErrTransactionNotFound
	}
	copied := *t
	copied.Items = append([]Item(nil), r.items[id]...)
	return &copied, nil
}

func (r *memoryRepo) ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	result := []Transaction{}
	for _, t := range r.transactions {
		if t.HouseID == filter.HouseID {
			result = append(result, *t)
		}
	}
	return result, nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (tx *memoryTx) GetAccountForUpdate(ctx context.Context, houseID, accountID int64) (AccountRef, error) {
	account, ok := tx.repo.accounts[accountID]
	if !ok || account.HouseID != houseID {
		return AccountRef{}, ErrAccountNotFound
	}
	return *account, nil
}

func (tx *memoryTx) UpdateAccountBalance(ctx context.Context, accountID int64, balance shared.Cents) error {
	tx.repo.accounts[accountID].Balance = balance
	return nil
}

func (tx *memoryTx) GetCardForUpdate(ctx context.Context, houseID, cardID int64) (CardRef, error) {
	card, ok := tx.repo.cards[cardID]
	if !ok || card.HouseID != houseID {
		return CardRef{}, ErrCardNotFound
	}
	return *card, nil
}

func (tx *memoryTx) UpdateCardLimit(ctx context.Context, cardID int64, limitAvailable shared.Cents) error {
	tx.repo.cards[cardID].LimitAvailable = limitAvailable
	return nil
}

func (tx *memoryTx) GetInvoice(ctx context.Context, houseID, invoiceID int64) (InvoiceRef, error) {
	invoice, ok := tx.repo.invoices[invoiceID]
	if !ok {
		return InvoiceRef{}, ErrInvoiceNotFound
	}
	card := tx.repo.cards[invoice.CardID]
	if card == nil || card.HouseID != houseID {
		return InvoiceRef{}, ErrInvoiceNotFound
	}
	return *invoice, nil
}

func (tx *memoryTx) GetOrCreateInvoiceForUpdate(ctx context.Context, cardID int64, reference time.Time) (InvoiceRef, error) {
	key := tx.repo.invoiceKey(cardID, reference)
	if id, ok := tx.repo.invoiceIndex[key]; ok {
		return *tx.repo.invoices[id], nil
	}
	invoice := &InvoiceRef{ID: tx.repo.id(), CardID: cardID, ReferenceDate: reference, Status: InvoiceStatusOpen}
	tx.repo.invoices[invoice.ID] = invoice
	tx.repo.invoiceIndex[key] = invoice.ID
	return *invoice, nil
}

func (tx *memoryTx) GetInvoiceForUpdate(ctx context.Context, houseID, invoiceID int64) (InvoiceRef, error) {
	return tx.GetInvoice(ctx, houseID, invoiceID)
}

func (tx *memoryTx) AddInvoiceValue(ctx context.Context, invoiceID int64, delta shared.Cents) error {
	tx.repo.invoices[invoiceID].Value += delta
	return nil
}

func (tx *memoryTx) UpdateInvoicePayment(ctx context.Context, invoiceID int64, amountPaid shared.Cents, status string) error {
	invoice := tx.repo.invoices[invoiceID]
	invoice.AmountPaid = amountPaid
	invoice.Status = status
	return nil
}

func (tx *memoryTx) InsertTransaction(ctx context.Context, t Transaction) (int64, error) {
	t.ID = tx.repo.id()
	t.CreatedAt = time.Now()
	tx.repo.transactions[t.ID] = &t
	return t.ID, nil
}

func (tx *memoryTx) InsertItems(ctx context.Context, transactionID int64, items []ItemInput) error {
	for _, item := range items {
		tx.repo.items[transactionID] = append(tx.repo.items[transactionID], Item{
			ID:            tx.repo.id(),
			TransactionID: transactionID,
			Description:   item.Description,
			Value:         item.Value,
			Quantity:      item.Quantity,
		})
	}
	return nil
}

func (tx *memoryTx) GetTransactionForUpdate(ctx context.Context, houseID, id int64) (*Transaction, error) {
	t, ok := tx.repo.transactions[id]
	if !ok || t.HouseID != houseID {
		return nil, ErrTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (tx *memoryTx) UpdateTransaction(ctx context.Context, t Transaction) error {
	stored := tx.repo.transactions[t.ID]
	stored.Description = t.Description
	stored.Value = t.Value
	stored.Date = t.Date
	stored.CategoryID = t.CategoryID
	return nil
}

func (tx *memoryTx) DeleteTransaction(ctx context.Context, id int64) error {
	delete(tx.repo.transactions, id)
	delete(tx.repo.items, id)
	return nil
}
