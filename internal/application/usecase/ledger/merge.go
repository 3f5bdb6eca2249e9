// Package ledger builds the merged, canonical transaction stream from the local
// ledger and the external clinical feed.
package ledger

import (
	"sort"
	"time"

	"github.com/clinic-finance/backend/internal/domain/entity"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// sourceRank orders same-date transactions: local rows before external rows.
var sourceRank = map[entity.TransactionSource]int{
	entity.SourceLocal:    0,
	entity.SourceExternal: 1,
}

type mergeEntry struct {
	tx   entity.Transaction
	rank int
	seq  int
}

// Merge concatenates the adapted sets, derives DaysCounter against now and orders the
// stream by date descending. Same-date ties are broken by source (local first) and
// then by position within that source, so the output does not depend on the order
// the sets are passed in. No de-duplication across sources is attempted.
func Merge(now time.Time, sets ...[]entity.Transaction) []entity.Transaction {
	total := 0
	for _, set := range sets {
		total += len(set)
	}

	entries := make([]mergeEntry, 0, total)
	seqBySource := make(map[entity.TransactionSource]int)
	for _, set := range sets {
		for _, tx := range set {
			tx.DaysCounter = valueobject.DaysBetween(tx.Date, now)
			entries = append(entries, mergeEntry{
				tx:   tx,
				rank: rankOf(tx.Source),
				seq:  seqBySource[tx.Source],
			})
			seqBySource[tx.Source]++
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.tx.Date.Equal(b.tx.Date) {
			return a.tx.Date.After(b.tx.Date)
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.seq < b.seq
	})

	merged := make([]entity.Transaction, len(entries))
	for i, e := range entries {
		merged[i] = e.tx
	}
	return merged
}

func rankOf(source entity.TransactionSource) int {
	if rank, ok := sourceRank[source]; ok {
		return rank
	}
	return len(sourceRank)
}
