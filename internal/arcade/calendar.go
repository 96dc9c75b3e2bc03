package arcade

import (
	"context"

	"github.com/tradepulse/arcade/internal/domain"
)

// ResolveCalendarDaily advances the login calendar streak and rolls the
// daily calendar reward. A one-day gap continues the streak; a two-day gap
// can be bridged by consuming a streak protector token; anything longer
// resets the streak to day one.
func (s *service) ResolveCalendarDaily(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleCalendarDaily, nil, func(ctx context.Context, sess *session) error {
		var streak domain.StreakState
		if _, err := txStateLoad(ctx, sess.tx, req.UserID, domain.StateKeyStreak, &streak); err != nil {
			return err
		}

		today := dayISO(sess.now)
		if streak.LastClaimDate == today {
			return domain.ErrAlreadyClaimedToday
		}

		protectorUsed := false
		switch gap := daysBetween(streak.LastClaimDate, today); {
		case streak.LastClaimDate == "" || gap > 2:
			streak.Days = 1
		case gap == 1:
			streak.Days++
		case gap == 2:
			// One missed day. A protector token, if held, bridges it.
			var protector domain.ProtectorState
			if _, err := txStateLoad(ctx, sess.tx, req.UserID, domain.StateKeyProtector, &protector); err != nil {
				return err
			}
			if protector.Tokens > 0 {
				protector.Tokens--
				protectorUsed = true
				streak.Days++
				if err := txStateSave(ctx, sess.tx, req.UserID, domain.StateKeyProtector, protector); err != nil {
					return err
				}
				sess.spend(domain.OutcomeKindProtector, "protector_consumed", 1)
			} else {
				streak.Days = 1
			}
		default:
			// gap <= 0 with a non-empty last date means clock skew or a
			// stored date in the future; treat it as a broken streak.
			streak.Days = 1
		}
		streak.LastClaimDate = today

		if err := txStateSave(ctx, sess.tx, req.UserID, domain.StateKeyStreak, streak); err != nil {
			return err
		}

		table, err := s.registry.Get(domain.ModuleCalendarDaily)
		if err != nil {
			return err
		}
		entry, err := s.drawWithPity(ctx, sess, table)
		if err != nil {
			return err
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(entry.Kind, domain.OutcomeKindCosmetic),
			Code:   entry.Code,
			Rarity: entry.Rarity,
			Metadata: map[string]any{
				"streak_days":    streak.Days,
				"protector_used": protectorUsed,
			},
		}
		return nil
	})
}

// ResolveStreakProtector draws a protector grant and banks the token. Tokens
// are consumed by the calendar module when a day is missed.
func (s *service) ResolveStreakProtector(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleStreakProtector, nil, func(ctx context.Context, sess *session) error {
		table, err := s.registry.Get(domain.ModuleStreakProtector)
		if err != nil {
			return err
		}
		entry := sess.pick(table)

		var protector domain.ProtectorState
		if _, err := txStateLoad(ctx, sess.tx, req.UserID, domain.StateKeyProtector, &protector); err != nil {
			return err
		}
		protector.Tokens++
		if err := txStateSave(ctx, sess.tx, req.UserID, domain.StateKeyProtector, protector); err != nil {
			return err
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(entry.Kind, domain.OutcomeKindProtector),
			Code:   entry.Code,
			Rarity: entry.Rarity,
			Metadata: map[string]any{
				"tokens_held": protector.Tokens,
			},
		}
		return nil
	})
}
