package arcade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/fairness"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/metrics"
	"github.com/tradepulse/arcade/internal/repository"
	"github.com/tradepulse/arcade/internal/tables"
)

// session carries one in-flight resolution through its transaction. Module
// resolvers read draws from the stream, set the outcome and queue extra
// ledger records; the shared resolve path owns everything else.
type session struct {
	req        ClaimRequest
	module     domain.Module
	contextVal []string
	commitment *domain.Commitment
	randomHash string
	stream     *fairness.DrawStream
	tx         repository.Tx
	now        time.Time

	outcome     *domain.Outcome
	roll        uint64
	total       uint64
	rarityRoll  *uint64
	rarityTotal *uint64
	xpAward     uint64
	extraSpends []*domain.ConsumptionRecord
}

// pick consumes the primary draw against table and records roll/total for
// the audit.
func (sess *session) pick(table *tables.Table) tables.Entry {
	sess.total = table.TotalWeight()
	sess.roll = sess.stream.Uint64n(sess.total)
	return table.Pick(sess.roll)
}

// pickSecondary consumes a second draw, recorded as rarity_roll/rarity_total.
func (sess *session) pickSecondary(table *tables.Table) tables.Entry {
	total := table.TotalWeight()
	roll := sess.stream.Uint64n(total)
	sess.rarityRoll = &roll
	sess.rarityTotal = &total
	return table.Pick(roll)
}

// spend queues an extra consumption record (e.g. shards) for the ledger.
func (sess *session) spend(kind, code string, quantity int) {
	sess.extraSpends = append(sess.extraSpends, &domain.ConsumptionRecord{
		UserID:      sess.req.UserID,
		Kind:        kind,
		Code:        code,
		Quantity:    quantity,
		ContextType: domain.ContextTypeClaim,
		ContextID:   sess.req.ActionID,
		Module:      sess.module,
	})
}

type resolverFunc func(ctx context.Context, sess *session) error

// resolve is the single resolve-and-commit path every module goes through.
// It owns the transaction boundary so each resolver gets the same
// exactly-once guarantee: precondition check, derivation, state mutation,
// ledger append and audit persist either all commit or none do.
func (s *service) resolve(ctx context.Context, req ClaimRequest, module domain.Module, contextVal []string, fn resolverFunc) (*domain.Resolution, error) {
	log := logger.FromContext(ctx)

	if err := validateRequest(req, module); err != nil {
		return nil, err
	}

	// Replay fast path, no transaction needed.
	if cached, ok := s.replayCache.Get(replayKey(req.UserID, module, req.ActionID)); ok {
		return cached, nil
	}
	if existing, err := s.repo.GetResolution(ctx, req.UserID, module, req.ActionID); err != nil {
		return nil, fmt.Errorf("failed to check existing resolution: %w", err)
	} else if existing != nil {
		s.replayCache.Add(replayKey(req.UserID, module, req.ActionID), existing)
		return existing, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin resolution transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Re-check inside the transaction; a concurrent claim may have landed
	// between the fast path and here.
	if existing, err := tx.GetResolution(ctx, req.UserID, module, req.ActionID); err != nil {
		return nil, fmt.Errorf("failed to re-check resolution: %w", err)
	} else if existing != nil {
		return existing, nil
	}

	commitment, err := s.loadCommitment(ctx, tx, req, module)
	if err != nil {
		return nil, err
	}

	in := fairness.DrawInput{
		ActionID:         req.ActionID,
		UserID:           req.UserID,
		Module:           module,
		Profile:          s.config.Profile,
		ServerSeedB64:    commitment.ServerSeedB64,
		ClientSeed:       commitment.ClientSeed,
		ClientCommitHash: commitment.ClientCommitHash,
		Context:          contextVal,
	}

	sess := &session{
		req:        req,
		module:     module,
		contextVal: contextVal,
		commitment: commitment,
		randomHash: in.RandomHex(),
		stream:     fairness.NewDrawStreamFor(in),
		tx:         tx,
		now:        s.now().UTC(),
		xpAward:    s.config.ClaimXP,
	}

	if err := fn(ctx, sess); err != nil {
		// Precondition failures roll back untouched; they never re-roll.
		metrics.ResolutionsTotal.WithLabelValues(string(module), metrics.ResultRejected).Inc()
		return nil, err
	}
	if sess.outcome == nil {
		return nil, fmt.Errorf("resolver for %s produced no outcome", module)
	}

	if sess.xpAward > 0 {
		if err := s.awardXP(ctx, tx, req.UserID, sess.xpAward); err != nil {
			return nil, err
		}
	}

	resolution := &domain.Resolution{
		UserID:   req.UserID,
		Module:   module,
		ActionID: req.ActionID,
		Outcome:  *sess.outcome,
		Audit: domain.ResolutionAudit{
			ClientCommitHash: commitment.ClientCommitHash,
			ServerCommitHash: commitment.ServerCommitHash,
			ServerSeedB64:    commitment.ServerSeedB64,
			RandomHash:       sess.randomHash,
			Roll:             sess.roll,
			Total:            sess.total,
			RarityRoll:       sess.rarityRoll,
			RarityTotal:      sess.rarityTotal,
		},
		ClientSeed: commitment.ClientSeed,
		Context:    contextVal,
		CreatedAt:  sess.now,
	}

	if err := tx.InsertResolution(ctx, resolution); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			// Lost an idempotent race; the winner's row is the result.
			repository.SafeRollback(ctx, tx)
			existing, getErr := s.repo.GetResolution(ctx, req.UserID, module, req.ActionID)
			if getErr != nil || existing == nil {
				return nil, fmt.Errorf("failed to load winning resolution: %w", getErr)
			}
			metrics.ResolutionsTotal.WithLabelValues(string(module), metrics.ResultReplayed).Inc()
			return existing, nil
		}
		return nil, fmt.Errorf("failed to persist resolution: %w", err)
	}

	records := append([]*domain.ConsumptionRecord{outcomeRecord(resolution)}, sess.extraSpends...)
	for _, record := range records {
		record.NormalizeQuantity()
		if err := tx.AppendConsumption(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to append consumption record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}

	s.replayCache.Add(replayKey(req.UserID, module, req.ActionID), resolution)
	metrics.ResolutionsTotal.WithLabelValues(string(module), metrics.ResultResolved).Inc()
	log.Info("Resolution committed",
		"module", module, "userID", req.UserID, "actionID", req.ActionID,
		"code", resolution.Outcome.Code, "roll", sess.roll, "total", sess.total)

	return resolution, nil
}

func validateRequest(req ClaimRequest, module domain.Module) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}
	if req.ActionID == "" {
		return fmt.Errorf("%w: empty action id", domain.ErrInvalidInput)
	}
	if req.ClientSeed == "" && req.Commitment == nil {
		return fmt.Errorf("%w: client seed is required", domain.ErrInvalidInput)
	}
	if !module.Valid() {
		return fmt.Errorf("%w: unknown module %q", domain.ErrInvalidInput, module)
	}
	return nil
}

// loadCommitment resolves the commitment for this action: caller-supplied,
// previously published via Commit, or freshly generated for the one-shot
// flow. Entropy failure aborts before any state is touched.
func (s *service) loadCommitment(ctx context.Context, tx repository.Tx, req ClaimRequest, module domain.Module) (*domain.Commitment, error) {
	if req.Commitment != nil {
		return req.Commitment, nil
	}

	row, err := tx.GetArcadeStateForUpdate(ctx, req.UserID, commitmentKey(module, req.ActionID))
	if err != nil {
		return nil, fmt.Errorf("failed to load stored commitment: %w", err)
	}
	if row != nil && len(row.Value) > 0 && string(row.Value) != "{}" {
		var commitment domain.Commitment
		if err := json.Unmarshal(row.Value, &commitment); err != nil {
			return nil, fmt.Errorf("failed to decode stored commitment: %w", err)
		}
		if commitment.ServerCommitHash != "" {
			return &commitment, nil
		}
	}

	return s.commitment(req.ClientSeed, req.ClientCommitHash)
}

func (s *service) awardXP(ctx context.Context, tx repository.Tx, userID string, delta uint64) error {
	state, err := tx.GetProgressionForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to lock progression state: %w", err)
	}
	state.XP += delta
	state.Tier = s.progCfg.TierForXP(state.XP, state.Prestige)
	if err := tx.SaveProgression(ctx, state); err != nil {
		return fmt.Errorf("failed to save progression state: %w", err)
	}
	return nil
}

func outcomeRecord(res *domain.Resolution) *domain.ConsumptionRecord {
	return &domain.ConsumptionRecord{
		UserID:      res.UserID,
		Kind:        res.Outcome.Kind,
		Code:        res.Outcome.Code,
		Rarity:      res.Outcome.Rarity,
		Quantity:    1,
		ContextType: domain.ContextTypeResolution,
		ContextID:   res.ActionID,
		Module:      res.Module,
		Metadata:    map[string]any{"random_hash": res.Audit.RandomHash},
	}
}
