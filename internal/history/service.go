package history

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

const monthsBack = 12

// fallbackCategory names the breakdown bucket for uncategorized expenses.
const fallbackCategory = "Geral"

// Service builds the monthly analysis.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Monthly aggregates the last twelve months of visible transactions: income
// and expense totals, the per-category expense breakdown and the raw rows,
// newest month first. Months without movement still appear, zeroed.
func (s *Service) Monthly(ctx context.Context, houseID, userID int64) (*Report, error) {
	current := shared.MonthStart(s.now())
	since := shared.AddMonths(current, -(monthsBack - 1))

	transactions, err := s.repo.ListSince(ctx, houseID, userID, since)
	if err != nil {
		return nil, err
	}
	names, err := s.repo.CategoryNames(ctx, houseID)
	if err != nil {
		return nil, err
	}
	fixed, err := s.repo.ActiveBillsTotal(ctx, houseID)
	if err != nil {
		return nil, err
	}

	buckets := map[time.Time]*MonthSummary{}
	order := make([]time.Time, 0, monthsBack)
	for i := 0; i < monthsBack; i++ {
		month := shared.AddMonths(current, -i)
		buckets[month] = &MonthSummary{Month: month, Transactions: []ledger.Transaction{}}
		order = append(order, month)
	}

	categoryTotals := map[time.Time]map[int64]shared.Cents{}
	for _, t := range transactions {
		month := shared.MonthStart(t.Date)
		bucket, ok := buckets[month]
		if !ok {
			continue
		}
		bucket.Transactions = append(bucket.Transactions, t)
		if t.Type == ledger.TypeIncome {
			bucket.Income += t.Value
			continue
		}
		bucket.Expense += t.Value
		if categoryTotals[month] == nil {
			categoryTotals[month] = map[int64]shared.Cents{}
		}
		// Uncategorized expenses land in the fallback bucket so the
		// breakdown always sums to the month's expense total.
		categoryTotals[month][t.CategoryID] += t.Value
	}

	months := make([]MonthSummary, 0, monthsBack)
	for _, month := range order {
		bucket := buckets[month]
		bucket.Balance = bucket.Income - bucket.Expense
		for categoryID, total := range categoryTotals[month] {
			name := names[categoryID]
			if categoryID == 0 {
				name = fallbackCategory
			}
			bucket.Categories = append(bucket.Categories, CategoryTotal{
				CategoryID: categoryID,
				Name:       name,
				Total:      total,
			})
		}
		sort.Slice(bucket.Categories, func(i, j int) bool {
			if bucket.Categories[i].Total != bucket.Categories[j].Total {
				return bucket.Categories[i].Total > bucket.Categories[j].Total
			}
			return bucket.Categories[i].Name < bucket.Categories[j].Name
		})
		months = append(months, *bucket)
	}

	return &Report{EstimatedFixed: fixed, Months: months}, nil
}
