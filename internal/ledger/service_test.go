package ledger

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

const houseID = int64(77)

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, nil)
}

func TestAccountExpenseDebitsBalance(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Padaria",
		Value:       2500,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(7500), repo.accounts[account.ID].Balance)
	require.Equal(t, account.ID, created.AccountID)
	require.Zero(t, created.InvoiceID)
}

func TestAccountExpenseRejectedBeyondPurchasingPower(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Compra grande",
		Value:       15000,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	// No state change on rejection.
	require.Equal(t, shared.Cents(10000), repo.accounts[account.ID].Balance)
	require.Empty(t, repo.transactions)
}

func TestAccountExpenseUsesOverdraftLimit(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 10000)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Aluguel",
		Value:       15000,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(-5000), repo.accounts[account.ID].Balance)
}

func TestIncomeCreditsBalance(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Salário",
		Value:       300000,
		Type:        TypeIncome,
		AccountID:   account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(310000), repo.accounts[account.ID].Balance)
}

func TestCrossHouseAccountIsNotFound(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(999, 10000, 0)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Intruso",
		Value:       100,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCardPurchaseWithInstallments(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(houseID, 100000, 100000, 10)
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), houseID, CreateInput{
		Description:  "Notebook",
		Value:        30000,
		Type:         TypeExpense,
		Method:       MethodCreditCard,
		CardID:       card.ID,
		Date:         day(2025, time.June, 15),
		Installments: 3,
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(70000), repo.cards[card.ID].LimitAvailable)
	require.Equal(t, "Notebook (1/3)", first.Description)
	require.Equal(t, shared.Cents(10000), first.Value)

	require.Len(t, repo.transactions, 3)
	var sum shared.Cents
	references := map[string]shared.Cents{}
	for _, transaction := range repo.transactions {
		sum += transaction.Value
		require.NotZero(t, transaction.InvoiceID)
		invoice := repo.invoices[transaction.InvoiceID]
		references[invoice.ReferenceDate.Format("2006-01")] += transaction.Value
	}
	require.Equal(t, shared.Cents(30000), sum)
	// Day 15 >= closing day 10, so each installment bills the month after
	// its nominal date.
	require.Equal(t, shared.Cents(10000), references["2025-07"])
	require.Equal(t, shared.Cents(10000), references["2025-08"])
	require.Equal(t, shared.Cents(10000), references["2025-09"])
	for _, invoice := range repo.invoices {
		require.Equal(t, InvoiceStatusOpen, invoice.Status)
	}
}

func TestCardPurchaseRejectedOverLimit(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(houseID, 100000, 20000, 10)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "TV",
		Value:       30000,
		Type:        TypeExpense,
		Method:      MethodCreditCard,
		CardID:      card.ID,
	})
	require.ErrorIs(t, err, ErrInsufficientCredit)
	require.Equal(t, shared.Cents(20000), repo.cards[card.ID].LimitAvailable)
	require.Empty(t, repo.transactions)
}

func TestSameMonthChargesAccumulateOnOneInvoice(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(houseID, 100000, 100000, 25)
	svc := newTestService(repo)
	ctx := context.Background()

	for _, value := range []shared.Cents{1000, 2500} {
		_, err := svc.Create(ctx, houseID, CreateInput{
			Description: "Mercado",
			Value:       value,
			Type:        TypeExpense,
			Method:      MethodCreditCard,
			CardID:      card.ID,
			Date:        day(2025, time.June, 3),
		})
		require.NoError(t, err)
	}
	require.Len(t, repo.invoices, 1)
	for _, invoice := range repo.invoices {
		require.Equal(t, shared.Cents(3500), invoice.Value)
	}
}

func TestInstallmentRemainderSumsExactly(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(houseID, 100000, 100000, 10)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description:  "Cadeira",
		Value:        10000,
		Type:         TypeExpense,
		Method:       MethodCreditCard,
		CardID:       card.ID,
		Date:         day(2025, time.June, 15),
		Installments: 3,
	})
	require.NoError(t, err)

	values := []shared.Cents{}
	for _, transaction := range repo.transactions {
		values = append(values, transaction.Value)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })
	require.Equal(t, []shared.Cents{3334, 3333, 3333}, values)
}

func TestHistoricalTransactionHasNoSideEffects(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Registro antigo",
		Value:       5000,
		Type:        TypeExpense,
	})
	require.NoError(t, err)
	require.Zero(t, created.AccountID)
	require.Zero(t, created.InvoiceID)
	require.Equal(t, shared.Cents(10000), repo.accounts[account.ID].Balance)
}

func TestItemsStoredAsGiven(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 100000, 0)
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), houseID, CreateInput{
		Description: "Feira",
		Value:       4000,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
		Items: []ItemInput{
			{Description: "Arroz", Value: 2500, Quantity: 1},
			{Description: "Feijão", Value: 900, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.items[created.ID], 2)
	require.Equal(t, "Arroz", repo.items[created.ID][0].Description)
}

func TestDeleteReversesAccountExpense(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, houseID, CreateInput{
		Description: "Farmácia",
		Value:       4000,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(6000), repo.accounts[account.ID].Balance)

	require.NoError(t, svc.Delete(ctx, houseID, created.ID))
	require.Equal(t, shared.Cents(10000), repo.accounts[account.ID].Balance)
	require.Empty(t, repo.transactions)
}

func TestDeleteReversesIncome(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, houseID, CreateInput{
		Description: "Freela",
		Value:       20000,
		Type:        TypeIncome,
		AccountID:   account.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, houseID, created.ID))
	// Strict inverse even though it could go negative.
	require.Equal(t, shared.Cents(10000), repo.accounts[account.ID].Balance)
}

func TestDeleteRestoresCardLimitCapped(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(houseID, 100000, 100000, 10)
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, houseID, CreateInput{
		Description: "Jantar",
		Value:       30000,
		Type:        TypeExpense,
		Method:      MethodCreditCard,
		CardID:      card.ID,
		Date:        day(2025, time.June, 15),
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(70000), repo.cards[card.ID].LimitAvailable)
	invoiceID := created.InvoiceID

	require.NoError(t, svc.Delete(ctx, houseID, created.ID))
	require.Equal(t, shared.Cents(100000), repo.cards[card.ID].LimitAvailable)
	require.Equal(t, shared.Cents(0), repo.invoices[invoiceID].Value)
}

func TestUpdateReversesOldValueAndAppliesNew(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, houseID, CreateInput{
		Description: "Luz",
		Value:       5000,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(5000), repo.accounts[account.ID].Balance)

	_, err = svc.Update(ctx, houseID, created.ID, UpdateInput{Description: "Luz", Value: 7000})
	require.NoError(t, err)
	require.Equal(t, shared.Cents(3000), repo.accounts[account.ID].Balance)
	require.Equal(t, shared.Cents(7000), repo.transactions[created.ID].Value)
}

func TestUpdateRejectedWhenNewValueExceedsFunds(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 10000, 0)
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, houseID, CreateInput{
		Description: "Internet",
		Value:       5000,
		Type:        TypeExpense,
		Method:      MethodAccount,
		AccountID:   account.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, houseID, created.ID, UpdateInput{Value: 20000})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	// Unit rolled back in real storage; the fake applies writes directly, so
	// only assert the stored value is untouched.
	require.Equal(t, shared.Cents(5000), repo.transactions[created.ID].Value)
}

func TestUpdateInstallmentValueRejected(t *testing.T) {
	repo := newMemoryRepo()
	card := repo.addCard(houseID, 100000, 100000, 10)
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, houseID, CreateInput{
		Description:  "Geladeira",
		Value:        90000,
		Type:         TypeExpense,
		Method:       MethodCreditCard,
		CardID:       card.ID,
		Date:         day(2025, time.June, 15),
		Installments: 3,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, houseID, created.ID, UpdateInput{Value: created.Value + 1})
	require.ErrorIs(t, err, ErrInstallmentImmutable)
}

func TestInstallmentsRequireCardExpense(t *testing.T) {
	repo := newMemoryRepo()
	account := repo.addAccount(houseID, 100000, 0)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), houseID, CreateInput{
		Description:  "Parcelado na conta",
		Value:        10000,
		Type:         TypeExpense,
		Method:       MethodAccount,
		AccountID:    account.ID,
		Installments: 3,
	})
	require.ErrorIs(t, err, ErrInvalidInstallments)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, houseID, CreateInput{Description: "x", Value: 0, Type: TypeExpense})
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.Create(ctx, houseID, CreateInput{Description: "x", Value: 100, Type: "TRANSFER"})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Create(ctx, houseID, CreateInput{Description: "x", Value: 100, Type: TypeExpense, Method: MethodAccount})
	require.ErrorIs(t, err, ErrMissingAccount)

	_, err = svc.Create(ctx, houseID, CreateInput{Description: "x", Value: 100, Type: TypeExpense, Method: MethodCreditCard})
	require.ErrorIs(t, err, ErrMissingCard)
}
