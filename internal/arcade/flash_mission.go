package arcade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradepulse/arcade/internal/domain"
)

func missionKey(missionID string) string {
	return "flash_mission:" + missionID
}

type missionState struct {
	StartedAtUnix int64 `json:"started_at_unix"`
	Completed     bool  `json:"completed"`
}

// StartFlashMission opens the mission window for a user. Resolving after the
// window closes fails with mission_not_active.
func (s *service) StartFlashMission(ctx context.Context, userID, missionID string) error {
	if userID == "" || missionID == "" {
		return fmt.Errorf("%w: user id and mission id are required", domain.ErrInvalidInput)
	}
	state := missionState{StartedAtUnix: s.now().UTC().Unix()}
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.progRepo.UpsertArcadeState(ctx, userID, missionKey(missionID), blob); err != nil {
		return fmt.Errorf("failed to start mission %s: %w", missionID, err)
	}
	return nil
}

// ResolveFlashMission rolls the mission reward. The mission must have been
// started and must still be inside its completion window; a mission resolves
// at most once.
func (s *service) ResolveFlashMission(ctx context.Context, req ClaimRequest, missionID string) (*domain.Resolution, error) {
	if missionID == "" {
		return nil, fmt.Errorf("%w: empty mission id", domain.ErrInvalidInput)
	}
	return s.resolve(ctx, req, domain.ModuleFlashMission, []string{missionID}, func(ctx context.Context, sess *session) error {
		var mission missionState
		found, err := txStateLoad(ctx, sess.tx, req.UserID, missionKey(missionID), &mission)
		if err != nil {
			return err
		}
		if !found || mission.StartedAtUnix == 0 || mission.Completed {
			return domain.ErrMissionNotActive
		}

		deadline := mission.StartedAtUnix + int64(s.config.MissionWindow.Seconds())
		if sess.now.Unix() > deadline {
			return domain.ErrMissionNotActive
		}

		table, err := s.registry.Get(domain.ModuleFlashMission)
		if err != nil {
			return err
		}
		entry := sess.pick(table)

		mission.Completed = true
		if err := txStateSave(ctx, sess.tx, req.UserID, missionKey(missionID), mission); err != nil {
			return err
		}

		sess.outcome = &domain.Outcome{
			Kind:   entryKind(entry.Kind, domain.OutcomeKindBoost),
			Code:   entry.Code,
			Rarity: entry.Rarity,
			Metadata: map[string]any{
				"mission_id": missionID,
			},
		}
		return nil
	})
}
