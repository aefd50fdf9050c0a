package ledger

import (
	"time"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Installment is one slice of a multi-month credit card purchase, bound to
// the monthly invoice given by the card's closing-day rule.
type Installment struct {
	Sequence  int
	Value     shared.Cents
	Date      time.Time
	Reference time.Time
}

// BuildPlan splits a purchase into count installments. Each installment is
// worth total/count cents; the division remainder is absorbed into the first
// installment so the plan sums to total exactly. Installment i is nominally
// dated i months after the purchase (clamped at month ends) and then assigned
// to its invoice month by the closing-day rule, so consecutive installments
// may land on non-consecutive invoices near month-length edges.
func BuildPlan(total shared.Cents, count int, purchase time.Time, closingDay int) []Installment {
	if count < 1 {
		count = 1
	}
	each := total / shared.Cents(count)
	remainder := total % shared.Cents(count)

	plan := make([]Installment, count)
	for i := 0; i < count; i++ {
		value := each
		if i == 0 {
			value += remainder
		}
		date := shared.AddMonths(purchase, i)
		plan[i] = Installment{
			Sequence:  i + 1,
			Value:     value,
			Date:      date,
			Reference: shared.ReferenceMonth(date, closingDay),
		}
	}
	return plan
}
