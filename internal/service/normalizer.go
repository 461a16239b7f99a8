package service

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vanshika/vizdash/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeEntity collapses internal whitespace and trims the name.
func NormalizeEntity(name string) string {
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Normalized is the cleaned input of one ingest run.
type Normalized struct {
	Transactions []domain.AidTransaction
	// Dropped counts rows without a donor, a recipient or a finite amount.
	Dropped int
	// Merged counts rows folded into an earlier row with the same key.
	Merged int
}

type mergeKey struct {
	donor, recipient string
	year             int
}

// Normalize cleans entity names and sums rows sharing donor, recipient and
// year. Output keeps the order in which each key first appeared. Sentinel
// years are kept; the store decides how to treat them.
func Normalize(txs []domain.AidTransaction) Normalized {
	var out Normalized
	index := make(map[mergeKey]int, len(txs))
	sums := make([]decimal.Decimal, 0, len(txs))

	for _, tx := range txs {
		tx.Donor = NormalizeEntity(tx.Donor)
		tx.Recipient = NormalizeEntity(tx.Recipient)
		if tx.Donor == "" || tx.Recipient == "" || math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			out.Dropped++
			continue
		}

		key := mergeKey{donor: tx.Donor, recipient: tx.Recipient, year: tx.Year}
		if at, ok := index[key]; ok {
			sums[at] = sums[at].Add(decimal.NewFromFloat(tx.Amount))
			out.Merged++
			continue
		}
		index[key] = len(out.Transactions)
		out.Transactions = append(out.Transactions, tx)
		sums = append(sums, decimal.NewFromFloat(tx.Amount))
	}

	for i := range out.Transactions {
		out.Transactions[i].Amount = sums[i].InexactFloat64()
	}
	return out
}
