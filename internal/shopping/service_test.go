package shopping

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

const houseID = int64(1)

type product struct {
	name           string
	estimatedPrice shared.Cents
}

type stockRow struct {
	quantity    float64
	minQuantity float64
}

type memoryRepo struct {
	nextID       int64
	products     map[int64]product
	stock        map[int64]stockRow // by product id
	entries      map[int64]Entry
	categories   map[string]int64
	accounts     map[int64]ledger.AccountRef
	cards        map[int64]ledger.CardRef
	invoices     map[int64]ledger.InvoiceRef
	transactions map[int64]ledger.Transaction
	items        map[int64][]ledger.ItemInput
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		nextID:       1,
		products:     map[int64]product{},
		stock:        map[int64]stockRow{},
		entries:      map[int64]Entry{},
		categories:   map[string]int64{},
		accounts:     map[int64]ledger.AccountRef{},
		cards:        map[int64]ledger.CardRef{},
		invoices:     map[int64]ledger.InvoiceRef{},
		transactions: map[int64]ledger.Transaction{},
		items:        map[int64][]ledger.ItemInput{},
	}
}

func (m *memoryRepo) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memoryRepo) addProduct(name string, price shared.Cents) int64 {
	id := m.id()
	m.products[id] = product{name: name, estimatedPrice: price}
	return id
}

func (m *memoryRepo) addStock(productID int64, quantity, minQuantity float64) {
	m.stock[productID] = stockRow{quantity: quantity, minQuantity: minQuantity}
}

func (m *memoryRepo) addAccount(balance, limit shared.Cents) ledger.AccountRef {
	a := ledger.AccountRef{ID: m.id(), HouseID: houseID, Name: "Conta", Balance: balance, Limit: limit}
	m.accounts[a.ID] = a
	return a
}

func (m *memoryRepo) addCard(limitTotal, limitAvailable shared.Cents, closingDay int) ledger.CardRef {
	c := ledger.CardRef{ID: m.id(), HouseID: houseID, Name: "Visa", LimitTotal: limitTotal, LimitAvailable: limitAvailable, ClosingDay: closingDay}
	m.cards[c.ID] = c
	return c
}

func (m *memoryRepo) markPurchased(productID int64, real, discount shared.Cents, quantity float64) Entry {
	for id, e := range m.entries {
		if e.ProductID == productID {
			e.IsPurchased = true
			e.RealUnitPrice = real
			e.DiscountUnitPrice = discount
			if quantity > 0 {
				e.QuantityToBuy = quantity
			}
			m.entries[id] = e
			return e
		}
	}
	p := m.products[productID]
	e := Entry{
		ID: m.id(), HouseID: houseID, ProductID: productID, ProductName: p.name,
		EstimatedPrice: p.estimatedPrice, QuantityToBuy: quantity,
		RealUnitPrice: real, DiscountUnitPrice: discount, IsPurchased: true,
	}
	m.entries[e.ID] = e
	return e
}

func (m *memoryRepo) ListEntries(_ context.Context, house int64) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.HouseID == house {
			p := m.products[e.ProductID]
			e.ProductName = p.name
			e.EstimatedPrice = p.estimatedPrice
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPurchased != out[j].IsPurchased {
			return !out[i].IsPurchased
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func (m *memoryRepo) GetEntry(_ context.Context, house, id int64) (*Entry, error) {
	e, ok := m.entries[id]
	if !ok || e.HouseID != house {
		return nil, ErrEntryNotFound
	}
	p := m.products[e.ProductID]
	e.ProductName = p.name
	e.EstimatedPrice = p.estimatedPrice
	return &e, nil
}

func (m *memoryRepo) UpdateEntry(_ context.Context, e *Entry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return ErrEntryNotFound
	}
	m.entries[e.ID] = *e
	return nil
}

func (m *memoryRepo) DeleteEntry(_ context.Context, house, id int64) error {
	e, ok := m.entries[id]
	if !ok || e.HouseID != house {
		return ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memoryRepo) ListStock(_ context.Context, _ int64) ([]StockLevel, error) {
	var out []StockLevel
	for productID, row := range m.stock {
		p := m.products[productID]
		out = append(out, StockLevel{
			ProductID:      productID,
			ProductName:    p.name,
			EstimatedPrice: p.estimatedPrice,
			Quantity:       row.quantity,
			MinQuantity:    row.minQuantity,
		})
	}
	return out, nil
}

func (m *memoryRepo) InsertEntryIfAbsent(_ context.Context, e Entry) error {
	for _, existing := range m.entries {
		if existing.HouseID == e.HouseID && existing.ProductID == e.ProductID {
			return nil
		}
	}
	e.ID = m.id()
	m.entries[e.ID] = e
	return nil
}

func (m *memoryRepo) DeleteUnpurchasedByProduct(_ context.Context, house, productID int64) error {
	for id, e := range m.entries {
		if e.HouseID == house && e.ProductID == productID && !e.IsPurchased {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snapshot := m.clone()
	if err := fn(ctx, &memoryTx{repo: m}); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *memoryRepo) clone() *memoryRepo {
	c := newMemoryRepo()
	c.nextID = m.nextID
	for k, v := range m.products {
		c.products[k] = v
	}
	for k, v := range m.stock {
		c.stock[k] = v
	}
	for k, v := range m.entries {
		c.entries[k] = v
	}
	for k, v := range m.categories {
		c.categories[k] = v
	}
	for k, v := range m.accounts {
		c.accounts[k] = v
	}
	for k, v := range m.cards {
		c.cards[k] = v
	}
	for k, v := range m.invoices {
		c.invoices[k] = v
	}
	for k, v := range m.transactions {
		c.transactions[k] = v
	}
	for k, v := range m.items {
		c.items[k] = v
	}
	return c
}

type memoryTx struct {
	repo *memoryRepo
}

func (tx *memoryTx) GetAccountForUpdate(_ context.Context, house, accountID int64) (ledger.AccountRef, error) {
	a, ok := tx.repo.accounts[accountID]
	if !ok || a.HouseID != house {
		return ledger.AccountRef{}, ledger.ErrAccountNotFound
	}
	return a, nil
}

func (tx *memoryTx) UpdateAccountBalance(_ context.Context, accountID int64, balance shared.Cents) error {
	a := tx.repo.accounts[accountID]
	a.Balance = balance
	tx.repo.accounts[accountID] = a
	return nil
}

func (tx *memoryTx) GetCardForUpdate(_ context.Context, house, cardID int64) (ledger.CardRef, error) {
	c, ok := tx.repo.cards[cardID]
	if !ok || c.HouseID != house {
		return ledger.CardRef{}, ledger.ErrCardNotFound
	}
	return c, nil
}

func (tx *memoryTx) UpdateCardLimit(_ context.Context, cardID int64, available shared.Cents) error {
	c := tx.repo.cards[cardID]
	c.LimitAvailable = available
	tx.repo.cards[cardID] = c
	return nil
}

func (tx *memoryTx) GetInvoice(_ context.Context, _, invoiceID int64) (ledger.InvoiceRef, error) {
	inv, ok := tx.repo.invoices[invoiceID]
	if !ok {
		return ledger.InvoiceRef{}, ledger.ErrInvoiceNotFound
	}
	return inv, nil
}

func (tx *memoryTx) GetOrCreateInvoiceForUpdate(_ context.Context, cardID int64, reference time.Time) (ledger.InvoiceRef, error) {
	for _, inv := range tx.repo.invoices {
		if inv.CardID == cardID && inv.ReferenceDate.Equal(reference) {
			return inv, nil
		}
	}
	inv := ledger.InvoiceRef{ID: tx.repo.id(), CardID: cardID, ReferenceDate: reference, Status: ledger.InvoiceStatusOpen}
	tx.repo.invoices[inv.ID] = inv
	return inv, nil
}

func (tx *memoryTx) GetInvoiceForUpdate(ctx context.Context, house, invoiceID int64) (ledger.InvoiceRef, error) {
	return tx.GetInvoice(ctx, house, invoiceID)
}

func (tx *memoryTx) AddInvoiceValue(_ context.Context, invoiceID int64, delta shared.Cents) error {
	inv := tx.repo.invoices[invoiceID]
	inv.Value += delta
	tx.repo.invoices[invoiceID] = inv
	return nil
}

func (tx *memoryTx) UpdateInvoicePayment(_ context.Context, invoiceID int64, amountPaid shared.Cents, status string) error {
	inv := tx.repo.invoices[invoiceID]
	inv.AmountPaid = amountPaid
	inv.Status = status
	tx.repo.invoices[invoiceID] = inv
	return nil
}

func (tx *memoryTx) InsertTransaction(_ context.Context, t ledger.Transaction) (int64, error) {
	t.ID = tx.repo.id()
	tx.repo.transactions[t.ID] = t
	return t.ID, nil
}

func (tx *memoryTx) InsertItems(_ context.Context, transactionID int64, items []ledger.ItemInput) error {
	tx.repo.items[transactionID] = append(tx.repo.items[transactionID], items...)
	return nil
}

func (tx *memoryTx) GetTransactionForUpdate(_ context.Context, house, id int64) (*ledger.Transaction, error) {
	t, ok := tx.repo.transactions[id]
	if !ok || t.HouseID != house {
		return nil, ledger.ErrTransactionNotFound
	}
	return &t, nil
}

func (tx *memoryTx) UpdateTransaction(_ context.Context, t ledger.Transaction) error {
	tx.repo.transactions[t.ID] = t
	return nil
}

func (tx *memoryTx) DeleteTransaction(_ context.Context, id int64) error {
	delete(tx.repo.transactions, id)
	return nil
}

func (tx *memoryTx) ListPurchasedForUpdate(ctx context.Context, house int64) ([]Entry, error) {
	all, err := tx.repo.ListEntries(ctx, house)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if e.IsPurchased {
			out = append(out, e)
		}
	}
	return out, nil
}

func (tx *memoryTx) SourceName(_ context.Context, house int64, method ledger.PaymentMethod, sourceID int64) (string, error) {
	if method == ledger.MethodCreditCard {
		c, ok := tx.repo.cards[sourceID]
		if !ok || c.HouseID != house {
			return "", ledger.ErrCardNotFound
		}
		return c.Name, nil
	}
	a, ok := tx.repo.accounts[sourceID]
	if !ok || a.HouseID != house {
		return "", ledger.ErrAccountNotFound
	}
	return a.Name, nil
}

func (tx *memoryTx) GetOrCreateCategory(_ context.Context, _ int64, name string) (int64, error) {
	if id, ok := tx.repo.categories[name]; ok {
		return id, nil
	}
	id := tx.repo.id()
	tx.repo.categories[name] = id
	return id, nil
}

func (tx *memoryTx) AddInventoryQuantity(_ context.Context, _, productID int64, delta float64) error {
	row, ok := tx.repo.stock[productID]
	if !ok {
		row = stockRow{quantity: 0, minQuantity: 1}
	}
	row.quantity += delta
	tx.repo.stock[productID] = row
	return nil
}

func (tx *memoryTx) UpdateProductPrice(_ context.Context, productID int64, price shared.Cents) error {
	p := tx.repo.products[productID]
	p.estimatedPrice = price
	tx.repo.products[productID] = p
	return nil
}

func (tx *memoryTx) DeletePurchased(_ context.Context, house int64) error {
	for id, e := range tx.repo.entries {
		if e.HouseID == house && e.IsPurchased {
			delete(tx.repo.entries, id)
		}
	}
	return nil
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, ledger.NewService(nil, nil), nil)
}

func TestListDerivesEntryForLowStock(t *testing.T) {
	repo := newMemoryRepo()
	rice := repo.addProduct("Arroz", 25_90)
	repo.addStock(rice, 2, 5)
	svc := newTestService(repo)

	entries, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rice, entries[0].ProductID)
	assert.Equal(t, 5.0, entries[0].QuantityToBuy)
	assert.EqualValues(t, 25_90, entries[0].RealUnitPrice)
	assert.False(t, entries[0].IsPurchased)
}

func TestListIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	rice := repo.addProduct("Arroz", 25_90)
	repo.addStock(rice, 2, 5)
	svc := newTestService(repo)

	first, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, repo.entries, 1)
}

func TestListRemovesEntryAfterRestock(t *testing.T) {
	repo := newMemoryRepo()
	rice := repo.addProduct("Arroz", 25_90)
	repo.addStock(rice, 2, 5)
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)

	repo.addStock(rice, 6, 5)
	entries, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListKeepsPurchasedEntryAfterRestock(t *testing.T) {
	repo := newMemoryRepo()
	rice := repo.addProduct("Arroz", 25_90)
	repo.addStock(rice, 2, 5)
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	repo.markPurchased(rice, 24_00, 0, 5)

	repo.addStock(rice, 6, 5)
	entries, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsPurchased)
}

func TestListOrdersUnpurchasedFirstThenByName(t *testing.T) {
	repo := newMemoryRepo()
	rice := repo.addProduct("Arroz", 10_00)
	beans := repo.addProduct("Feijao", 8_00)
	coffee := repo.addProduct("Cafe", 15_00)
	repo.addStock(rice, 0, 1)
	repo.addStock(beans, 0, 1)
	repo.addStock(coffee, 0, 1)
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	repo.markPurchased(beans, 0, 0, 1)

	entries, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Arroz", entries[0].ProductName)
	assert.Equal(t, "Cafe", entries[1].ProductName)
	assert.Equal(t, "Feijao", entries[2].ProductName)
	assert.True(t, entries[2].IsPurchased)
}

func TestFinishEmptyCart(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(500_00, 0)
	svc := newTestService(repo)

	_, err := svc.Finish(context.Background(), houseID, FinishInput{
		Method:   ledger.MethodAccount,
		SourceID: account.ID,
		Total:    100_00,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestFinishWithAccount(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(500_00, 0)
	rice := repo.addProduct("Arroz", 25_90)
	beans := repo.addProduct("Feijao", 8_00)
	repo.markPurchased(rice, 24_00, 0, 2)
	repo.markPurchased(beans, 0, 7_50, 3)
	svc := newTestService(repo)

	summary, err := svc.Finish(context.Background(), houseID, FinishInput{
		Method:   ledger.MethodAccount,
		SourceID: account.ID,
		Total:    70_50,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 429_50, repo.accounts[account.ID].Balance)
	assert.Equal(t, 2, summary.ItemCount)

	transaction := repo.transactions[summary.TransactionID]
	assert.Equal(t, "Mercado (Conta)", transaction.Description)
	assert.Equal(t, ledger.TypeExpense, transaction.Type)
	assert.Equal(t, repo.categories[GroceryCategory], transaction.CategoryID)

	items := repo.items[summary.TransactionID]
	require.Len(t, items, 2)
	byName := map[string]ledger.ItemInput{}
	for _, item := range items {
		byName[item.Description] = item
	}
	assert.EqualValues(t, 48_00, byName["Arroz"].Value)
	assert.EqualValues(t, 22_50, byName["Feijao"].Value)

	// Stock restocked with defaults and prices learned.
	assert.Equal(t, 2.0, repo.stock[rice].quantity)
	assert.Equal(t, 1.0, repo.stock[rice].minQuantity)
	assert.EqualValues(t, 24_00, repo.products[rice].estimatedPrice)
	assert.EqualValues(t, 7_50, repo.products[beans].estimatedPrice)

	// Cart consumed.
	assert.Empty(t, repo.entries)
}

func TestFinishWithCard(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(1000_00, 1000_00, 10)
	rice := repo.addProduct("Arroz", 25_90)
	repo.markPurchased(rice, 25_90, 0, 1)
	svc := newTestService(repo)
	svc.now = func() time.Time { return time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC) }

	summary, err := svc.Finish(context.Background(), houseID, FinishInput{
		Method:   ledger.MethodCreditCard,
		SourceID: card.ID,
		Total:    25_90,
		Date:     time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 974_10, repo.cards[card.ID].LimitAvailable)
	transaction := repo.transactions[summary.TransactionID]
	require.NotZero(t, transaction.InvoiceID)
	// Checkout day 15 is past closing day 10, so the charge lands on
	// August's invoice.
	invoice := repo.invoices[transaction.InvoiceID]
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), invoice.ReferenceDate)
	assert.EqualValues(t, 25_90, invoice.Value)
	assert.Equal(t, "Mercado (Visa)", transaction.Description)
}

func TestFinishWithCardBackdatedKeepsCurrentInvoice(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(1000_00, 1000_00, 10)
	rice := repo.addProduct("Arroz", 25_90)
	repo.markPurchased(rice, 25_90, 0, 1)
	svc := newTestService(repo)
	svc.now = func() time.Time { return time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC) }

	summary, err := svc.Finish(context.Background(), houseID, FinishInput{
		Method:   ledger.MethodCreditCard,
		SourceID: card.ID,
		Total:    25_90,
		Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	transaction := repo.transactions[summary.TransactionID]
	// The transaction keeps the backdated purchase date but the invoice
	// month comes from the checkout day, never from the payload.
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), transaction.Date)
	invoice := repo.invoices[transaction.InvoiceID]
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), invoice.ReferenceDate)
}

func TestFinishInsufficientFundsRollsBack(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(10_00, 0)
	rice := repo.addProduct("Arroz", 25_90)
	repo.markPurchased(rice, 25_90, 0, 1)
	repo.addStock(rice, 0, 1)
	svc := newTestService(repo)

	_, err := svc.Finish(context.Background(), houseID, FinishInput{
		Method:   ledger.MethodAccount,
		SourceID: account.ID,
		Total:    25_90,
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	assert.EqualValues(t, 10_00, repo.accounts[account.ID].Balance)
	assert.Equal(t, 0.0, repo.stock[rice].quantity)
	assert.Len(t, repo.entries, 1)
}

func TestFinishFallsBackToEstimatedPrice(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(500_00, 0)
	rice := repo.addProduct("Arroz", 25_90)
	repo.markPurchased(rice, 0, 0, 2)
	svc := newTestService(repo)

	summary, err := svc.Finish(context.Background(), houseID, FinishInput{
		Method:   ledger.MethodAccount,
		SourceID: account.ID,
		Total:    51_80,
	})
	require.NoError(t, err)

	items := repo.items[summary.TransactionID]
	require.Len(t, items, 1)
	assert.EqualValues(t, 51_80, items[0].Value)
	// Estimate unchanged when the booked price equals it.
	assert.EqualValues(t, 25_90, repo.products[rice].estimatedPrice)
}

func TestUpdateEntry(t *testing.T) {
	repo := newMemoryRepo()
	rice := repo.addProduct("Arroz", 25_90)
	repo.addStock(rice, 0, 2)
	svc := newTestService(repo)

	entries, err := svc.List(context.Background(), houseID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	updated, err := svc.UpdateEntry(context.Background(), houseID, entries[0].ID, EntryInput{
		QuantityToBuy: 4,
		RealUnitPrice: 23_00,
		IsPurchased:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.QuantityToBuy)
	assert.True(t, updated.IsPurchased)
}
