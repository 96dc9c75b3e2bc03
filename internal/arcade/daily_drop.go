package arcade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradepulse/arcade/internal/domain"
)

// ResolveDailyDrop grants the once-per-calendar-day drop. The second claim
// of a UTC day fails with already_claimed_today; the pity counter guarantees
// an above-floor result after a configured run of sub-floor days.
func (s *service) ResolveDailyDrop(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleDailyDrop, nil, func(ctx context.Context, sess *session) error {
		var claim domain.DailyClaimState
		if _, err := txStateLoad(ctx, sess.tx, req.UserID, domain.StateKeyDailyDrop, &claim); err != nil {
			return err
		}

		today := dayISO(sess.now)
		if claim.LastClaimDate == today {
			return domain.ErrAlreadyClaimedToday
		}

		table, err := s.registry.Get(domain.ModuleDailyDrop)
		if err != nil {
			return err
		}

		entry, err := s.drawWithPity(ctx, sess, table)
		if err != nil {
			return err
		}

		claim.LastClaimDate = today
		if err := txStateSave(ctx, sess.tx, req.UserID, domain.StateKeyDailyDrop, claim); err != nil {
			return err
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(entry.Kind, domain.OutcomeKindCosmetic),
			Code:   entry.Code,
			Rarity: entry.Rarity,
			Metadata: map[string]any{
				"claim_date": today,
			},
		}
		return nil
	})
}

func entryKind(kind, fallback string) string {
	if kind != "" {
		return kind
	}
	return fallback
}

// ResolveRarityWheel spins the weighted rarity wheel. Each spin costs shards
// (recorded in the ledger) and participates in the pity guarantee.
func (s *service) ResolveRarityWheel(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleRarityWheel, nil, func(ctx context.Context, sess *session) error {
		table, err := s.registry.Get(domain.ModuleRarityWheel)
		if err != nil {
			return err
		}

		entry, err := s.drawWithPity(ctx, sess, table)
		if err != nil {
			return err
		}

		if s.config.WheelShardCost > 0 {
			sess.spend(domain.OutcomeKindShards, "shards_spent", s.config.WheelShardCost)
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(entry.Kind, domain.OutcomeKindCosmetic),
			Code:   entry.Code,
			Rarity: entry.Rarity,
		}
		return nil
	})
}

// ResolveBoostDraft presents a deterministic draft of boosts and selects the
// first offer. The full offer list rides in the outcome metadata so the
// client can render the draft it was dealt.
func (s *service) ResolveBoostDraft(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleBoostDraft, nil, func(ctx context.Context, sess *session) error {
		table, err := s.registry.Get(domain.ModuleBoostDraft)
		if err != nil {
			return err
		}

		offerCount := s.config.DraftOffers
		if offerCount < 1 {
			offerCount = 1
		}
		if entries := len(table.Entries()); offerCount > entries {
			offerCount = entries
		}

		selected := sess.pick(table)
		offers := []string{selected.Code}
		seen := map[string]bool{selected.Code: true}

		// Further offers re-draw past duplicates; the stream is
		// deterministic, so the draft is reproducible from the audit.
		for len(offers) < offerCount {
			candidate := table.Pick(sess.stream.Uint64n(table.TotalWeight()))
			if seen[candidate.Code] {
				continue
			}
			seen[candidate.Code] = true
			offers = append(offers, candidate.Code)
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(selected.Kind, domain.OutcomeKindBoost),
			Code:   selected.Code,
			Rarity: selected.Rarity,
			Metadata: map[string]any{
				"offers": offers,
			},
		}
		return nil
	})
}

// LockVault seals the user's time vault. Opening it is a resolution once
// the lock window elapses.
func (s *service) LockVault(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}
	vault := domain.VaultState{LockedAtUnix: s.now().UTC().Unix()}
	blob, err := json.Marshal(vault)
	if err != nil {
		return err
	}
	if err := s.progRepo.UpsertArcadeState(ctx, userID, domain.StateKeyVault, blob); err != nil {
		return fmt.Errorf("failed to lock vault: %w", err)
	}
	return nil
}

// ResolveTimeVault opens a matured vault. A vault that was never locked or
// is still inside its window fails with vault_not_matured.
func (s *service) ResolveTimeVault(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleTimeVault, nil, func(ctx context.Context, sess *session) error {
		var vault domain.VaultState
		found, err := txStateLoad(ctx, sess.tx, req.UserID, domain.StateKeyVault, &vault)
		if err != nil {
			return err
		}
		if !found || vault.LockedAtUnix == 0 {
			return domain.ErrVaultNotMatured
		}

		maturesAt := vault.LockedAtUnix + int64(s.config.VaultLock.Seconds())
		if !vault.Matured && sess.now.Unix() < maturesAt {
			return domain.ErrVaultNotMatured
		}

		table, err := s.registry.Get(domain.ModuleTimeVault)
		if err != nil {
			return err
		}
		entry := sess.pick(table)

		// Vault consumed; the next cycle starts with a fresh lock.
		if err := txStateSave(ctx, sess.tx, req.UserID, domain.StateKeyVault, domain.VaultState{}); err != nil {
			return err
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(entry.Kind, domain.OutcomeKindBoost),
			Code:   entry.Code,
			Rarity: entry.Rarity,
			Metadata: map[string]any{
				"locked_at_unix": vault.LockedAtUnix,
			},
		}
		return nil
	})
}
