package core

import "time"

// MonthBucket sums income and expenses for one calendar month.
type MonthBucket struct {
	Month    string // short month name, "Jan".."Dec"
	Income   Money
	Expenses Money
}

// MonthlySummary buckets transactions into the twelve months of the given
// year, January through December. Transactions dated in any other year are
// excluded entirely; the chart always reflects a single calendar year.
func MonthlySummary(txs []Transaction, year int) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for m := 0; m < 12; m++ {
		buckets[m].Month = time.Month(m + 1).String()[:3]
	}

	for _, tx := range txs {
		if tx.Date.Year() != year {
			continue
		}
		b := &buckets[tx.Date.Month()-1]
		switch tx.Type {
		case Expense:
			b.Expenses.Cents += tx.Amount.Cents
		case Income:
			b.Income.Cents += tx.Amount.Cents
		}
	}

	return buckets
}
