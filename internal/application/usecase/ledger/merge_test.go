package ledger

import (
	"testing"
	"time"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func localTx(id string, d int) entity.Transaction {
	return entity.Transaction{ID: id, RawID: id, Source: entity.SourceLocal, Date: day(d)}
}

func externalTx(id string, d int) entity.Transaction {
	return entity.Transaction{ID: entity.ExternalIDPrefix + id, RawID: id, Source: entity.SourceExternal, Date: day(d)}
}

func ids(txs []entity.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMerge(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	local := []entity.Transaction{localTx("1", 17), localTx("2", 15), localTx("3", 17)}
	external := []entity.Transaction{externalTx("1", 16), externalTx("2", 17)}

	t.Run("orders by date then source then position", func(t *testing.T) {
		got := ids(Merge(now, local, external))
		want := []string{"1", "3", "ext-2", "ext-1", "2"}
		if !equalIDs(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("independent of argument order", func(t *testing.T) {
		a := ids(Merge(now, local, external))
		b := ids(Merge(now, external, local))
		if !equalIDs(a, b) {
			t.Errorf("expected same order, got %v and %v", a, b)
		}
	})

	t.Run("keeps colliding raw ids apart", func(t *testing.T) {
		merged := Merge(now, local, external)
		seen := map[string]bool{}
		for _, tx := range merged {
			if seen[tx.ID] {
				t.Fatalf("duplicate id %s", tx.ID)
			}
			seen[tx.ID] = true
		}
		if len(merged) != len(local)+len(external) {
			t.Errorf("expected %d entries, got %d", len(local)+len(external), len(merged))
		}
	})

	t.Run("derives days counter", func(t *testing.T) {
		merged := Merge(now, []entity.Transaction{localTx("9", 15)})
		if merged[0].DaysCounter != 3 {
			t.Errorf("expected 3 days, got %d", merged[0].DaysCounter)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Merge(now); len(got) != 0 {
			t.Errorf("expected empty stream, got %d", len(got))
		}
	})
}
