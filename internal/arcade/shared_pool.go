package arcade

import (
	"context"
	"fmt"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
)

// poolBaselineCode marks weekly pool membership in baseline outcomes.
const poolBaselineCode = "shared_pool_member"

// ResolveSharedPool joins the user to the weekly shared pool and rolls the
// cohort boost. The baseline outcome records membership; the boost outcome
// carries the cohort-wide boost code. The first member's draw fixes the
// cohort boost for the whole week, so every later member sees the same
// boost code regardless of their own roll.
//
// Writers serialize on the per-week aggregate row; the weekStartISO rides
// in the derivation context so each week produces an independent draw.
func (s *service) ResolveSharedPool(ctx context.Context, req ClaimRequest, weekStartISO string) (*domain.Resolution, error) {
	if _, err := time.Parse(isoDate, weekStartISO); err != nil {
		return nil, fmt.Errorf("%w: invalid week start %q", domain.ErrInvalidInput, weekStartISO)
	}
	return s.resolve(ctx, req, domain.ModuleSharedPool, []string{weekStartISO}, func(ctx context.Context, sess *session) error {
		weekStart, _ := time.Parse(isoDate, weekStartISO)
		weekEnd := weekStart.AddDate(0, 0, 7)
		if sess.now.Before(weekStart) || !sess.now.Before(weekEnd) {
			return domain.ErrPoolNotOpen
		}

		// Lock the aggregate row so concurrent joiners serialize here.
		var week domain.SharedPoolWeek
		if _, err := txStateLoad(ctx, sess.tx, poolUserID, poolWeekKey(weekStartISO), &week); err != nil {
			return err
		}
		for _, member := range week.Members {
			if member == req.UserID {
				return domain.ErrAlreadyClaimedToday
			}
		}

		table, err := s.registry.Get(domain.ModuleSharedPool)
		if err != nil {
			return err
		}
		entry := sess.pick(table)

		boostSource := "cohort"
		boostRarity := ""
		if week.BoostCode == "" {
			// First member of the week fixes the cohort boost.
			week.BoostCode = entry.Code
			week.WeekStartISO = weekStartISO
			boostSource = "draw"
			boostRarity = entry.Rarity
		}
		week.Members = append(week.Members, req.UserID)
		if err := txStateSave(ctx, sess.tx, poolUserID, poolWeekKey(weekStartISO), week); err != nil {
			return err
		}

		sess.outcome = &domain.Outcome{
			Kind: domain.OutcomeKindPoolMember,
			Code: poolBaselineCode,
			Baseline: &domain.Outcome{
				Kind: domain.OutcomeKindPoolMember,
				Code: poolBaselineCode,
				Metadata: map[string]any{
					"week_start": weekStartISO,
				},
			},
			Boost: &domain.Outcome{
				Kind:   domain.OutcomeKindBoost,
				Code:   week.BoostCode,
				Rarity: boostRarity,
				Metadata: map[string]any{
					"boost_source": boostSource,
				},
			},
			Metadata: map[string]any{
				"week_start":   weekStartISO,
				"member_count": len(week.Members),
			},
		}
		return nil
	})
}
