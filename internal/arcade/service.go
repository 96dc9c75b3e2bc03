package arcade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/fairness"
	"github.com/tradepulse/arcade/internal/progression"
	"github.com/tradepulse/arcade/internal/repository"
	"github.com/tradepulse/arcade/internal/tables"
)

// ClaimRequest carries one inbound claim. Commitment may be pre-published
// via Commit; when nil the engine looks up a stored commitment for the
// action and otherwise commits and reveals in a single step.
type ClaimRequest struct {
	UserID           string
	ActionID         string
	ClientSeed       string
	ClientCommitHash string
	Commitment       *domain.Commitment
}

// Service defines the outcome resolution engine. Every Resolve method is
// idempotent by (user, module, action): replays return the persisted result
// without re-rolling, double-charging or double-crediting.
type Service interface {
	// Commit publishes a server commitment for an action before the client
	// acts on it. The commit hash is returned; the seed stays server-side
	// until the resolution reveals it.
	Commit(ctx context.Context, userID string, module domain.Module, actionID, clientSeed, clientCommitHash string) (*domain.Commitment, error)

	ResolveDailyDrop(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveRarityWheel(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveBoostDraft(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveTimeVault(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveCalendarDaily(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveStreakProtector(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveFlashMission(ctx context.Context, req ClaimRequest, missionID string) (*domain.Resolution, error)
	ResolveSharedPool(ctx context.Context, req ClaimRequest, weekStartISO string) (*domain.Resolution, error)
	ResolveAITier(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)
	ResolveInsightPack(ctx context.Context, req ClaimRequest) (*domain.Resolution, error)

	// LockVault seals a user's time vault; ResolveTimeVault opens it after
	// the lock window elapses.
	LockVault(ctx context.Context, userID string) error

	// StartFlashMission opens a claim window for a mission.
	StartFlashMission(ctx context.Context, userID, missionID string) error

	// GetResolution returns the persisted result for an action, if any.
	GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error)

	// Verify recomputes a persisted resolution's digest and commitment from
	// the revealed seed material. Any third party can do the same.
	Verify(resolution *domain.Resolution) bool
}

type service struct {
	repo     repository.Resolution
	progRepo repository.Progression
	registry *tables.Registry
	config   Config
	progCfg  progression.Config

	replayCache *lru.Cache[string, *domain.Resolution]

	// Injectable for tests
	now        func() time.Time
	commitment func(clientSeed, clientCommitHash string) (*domain.Commitment, error)
}

// NewService creates a new arcade resolution service
func NewService(repo repository.Resolution, progRepo repository.Progression, registry *tables.Registry, config Config, progCfg progression.Config) (Service, error) {
	size := config.ReplayCacheSize
	if size <= 0 {
		size = DefaultConfig().ReplayCacheSize
	}
	cache, err := lru.New[string, *domain.Resolution](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay cache: %w", err)
	}

	return &service{
		repo:        repo,
		progRepo:    progRepo,
		registry:    registry,
		config:      config,
		progCfg:     progCfg,
		replayCache: cache,
		now:         time.Now,
		commitment:  fairness.NewCommitment,
	}, nil
}

// Commit stores the commitment under the action's state key so the hash is
// published before the outcome-determining call. Entropy failure aborts with
// nothing persisted.
func (s *service) Commit(ctx context.Context, userID string, module domain.Module, actionID, clientSeed, clientCommitHash string) (*domain.Commitment, error) {
	if userID == "" || actionID == "" {
		return nil, fmt.Errorf("%w: user and action are required", domain.ErrInvalidInput)
	}
	if !module.Valid() {
		return nil, fmt.Errorf("%w: unknown module %q", domain.ErrInvalidInput, module)
	}

	commitment, err := s.commitment(clientSeed, clientCommitHash)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode commitment: %w", err)
	}
	if err := s.progRepo.UpsertArcadeState(ctx, userID, commitmentKey(module, actionID), blob); err != nil {
		return nil, fmt.Errorf("failed to store commitment: %w", err)
	}

	return commitment, nil
}

func (s *service) GetResolution(ctx context.Context, userID string, module domain.Module, actionID string) (*domain.Resolution, error) {
	if cached, ok := s.replayCache.Get(replayKey(userID, module, actionID)); ok {
		return cached, nil
	}
	res, err := s.repo.GetResolution(ctx, userID, module, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resolution: %w", err)
	}
	return res, nil
}

// Verify recomputes the full draw from the revealed seed. It checks both the
// commitment (hash(seed) == published hash) and the derivation (digest of
// the canonical input == random_hash).
func (s *service) Verify(resolution *domain.Resolution) bool {
	if resolution == nil {
		return false
	}
	audit := resolution.Audit
	if !fairness.VerifyReveal(audit.ServerSeedB64, audit.ServerCommitHash) {
		return false
	}

	in := fairness.DrawInput{
		ActionID:         resolution.ActionID,
		UserID:           resolution.UserID,
		Module:           resolution.Module,
		Profile:          s.config.Profile,
		ServerSeedB64:    audit.ServerSeedB64,
		ClientSeed:       resolution.ClientSeed,
		ClientCommitHash: audit.ClientCommitHash,
		Context:          resolution.Context,
	}

	return in.RandomHex() == audit.RandomHash
}

func replayKey(userID string, module domain.Module, actionID string) string {
	return userID + "|" + string(module) + "|" + actionID
}

func commitmentKey(module domain.Module, actionID string) string {
	return "commit:" + string(module) + ":" + actionID
}
