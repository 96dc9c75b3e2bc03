package arcade

import (
	"context"

	"github.com/tradepulse/arcade/internal/domain"
)

// ResolveAITier draws the response-detail tier for AI-assisted surfaces.
// The draw selects the verbosity bucket, never the content itself.
func (s *service) ResolveAITier(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleAITier, nil, func(ctx context.Context, sess *session) error {
		table, err := s.registry.Get(domain.ModuleAITier)
		if err != nil {
			return err
		}
		entry := sess.pick(table)

		sess.outcome = &domain.Outcome{
			Kind: domain.OutcomeKindAITier,
			Code: "ai_tier:" + entry.Code,
			Metadata: map[string]any{
				"tier": entry.Code,
			},
		}
		return nil
	})
}

// ResolveInsightPack draws an advisory insight category. Insight outcomes
// are text-based, so the disclaimer is mandatory in the metadata.
func (s *service) ResolveInsightPack(ctx context.Context, req ClaimRequest) (*domain.Resolution, error) {
	return s.resolve(ctx, req, domain.ModuleInsightPack, nil, func(ctx context.Context, sess *session) error {
		table, err := s.registry.Get(domain.ModuleInsightPack)
		if err != nil {
			return err
		}
		entry := sess.pick(table)

		sess.outcome = &domain.Outcome{
			Kind:   domain.OutcomeKindInsight,
			Code:   "insight:" + entry.Code,
			Rarity: entry.Rarity,
			Metadata: map[string]any{
				"topic":      entry.Code,
				"disclaimer": domain.InsightDisclaimer,
			},
		}
		return nil
	})
}
