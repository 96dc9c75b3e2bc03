package arcade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/metrics"
	"github.com/tradepulse/arcade/internal/repository"
	"github.com/tradepulse/arcade/internal/tables"
)

// isoDate is the wire format for calendar days, always UTC.
const isoDate = "2006-01-02"

// poolUserID owns the cross-user shared pool aggregates. Locking its row
// serializes writers on the weekly key while readers stay unblocked.
const poolUserID = "__shared_pool__"

func pityKey(module domain.Module) string {
	return domain.StateKeyPity + ":" + string(module)
}

func poolWeekKey(weekStartISO string) string {
	return domain.StateKeySharedPool + ":" + weekStartISO
}

// txStateLoad reads and locks a (user, key) state blob inside the session's
// transaction. Returns false when the row does not exist yet.
func txStateLoad[T any](ctx context.Context, tx repository.Tx, userID, key string, dest *T) (bool, error) {
	row, err := tx.GetArcadeStateForUpdate(ctx, userID, key)
	if err != nil {
		return false, fmt.Errorf("failed to lock arcade state %s/%s: %w", userID, key, err)
	}
	if row == nil || len(row.Value) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(row.Value, dest); err != nil {
		return false, fmt.Errorf("failed to decode arcade state %s/%s: %w", userID, key, err)
	}
	return true, nil
}

// txStateSave writes a (user, key) state blob inside the transaction.
func txStateSave(ctx context.Context, tx repository.Tx, userID, key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode arcade state %s/%s: %w", userID, key, err)
	}
	if err := tx.UpsertArcadeState(ctx, userID, key, blob); err != nil {
		return fmt.Errorf("failed to upsert arcade state %s/%s: %w", userID, key, err)
	}
	return nil
}

// drawWithPity performs the table draw with the pity guarantee folded in.
// The primary draw is always recorded as roll/total. Once the persisted
// counter exceeds the cap, a second draw over the above-floor subset is
// recorded as rarity_roll/rarity_total and overrides the primary result.
// The counter resets on any above-floor outcome and grows on sub-floor ones.
func (s *service) drawWithPity(ctx context.Context, sess *session, table *tables.Table) (tables.Entry, error) {
	var pity domain.PityState
	if _, err := txStateLoad(ctx, sess.tx, sess.req.UserID, pityKey(sess.module), &pity); err != nil {
		return tables.Entry{}, err
	}

	entry := sess.pick(table)

	forced := s.config.PityCap > 0 && pity.Count >= s.config.PityCap
	if forced {
		subset, err := table.AboveFloor(s.config.PityFloor)
		if err == nil {
			entry = sess.pickSecondary(subset)
			metrics.PityForcedTotal.WithLabelValues(string(sess.module)).Inc()
		}
		// When nothing clears the floor the table has no pity tier; the
		// primary draw stands.
	}

	if tables.RarityRank(entry.Rarity) > tables.RarityRank(s.config.PityFloor) {
		pity.Count = 0
	} else {
		pity.Count++
	}

	if err := txStateSave(ctx, sess.tx, sess.req.UserID, pityKey(sess.module), pity); err != nil {
		return tables.Entry{}, err
	}
	return entry, nil
}

func dayISO(t time.Time) string {
	return t.UTC().Format(isoDate)
}

// daysBetween returns b - a in whole calendar days. Errors collapse to a
// large gap so malformed stored dates behave like a broken streak, never a
// free continuation.
func daysBetween(aISO, bISO string) int {
	a, errA := time.Parse(isoDate, aISO)
	b, errB := time.Parse(isoDate, bISO)
	if errA != nil || errB != nil {
		return 1 << 20
	}
	return int(b.Sub(a).Hours() / 24)
}
