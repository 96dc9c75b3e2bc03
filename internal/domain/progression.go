package domain

import (
	"encoding/json"
	"time"
)

// ProgressionState is a user's permanent advancement record. XP strictly
// increases except on prestige reset; Tier is a deterministic function of XP.
type ProgressionState struct {
	UserID   string `json:"user_id"`
	XP       uint64 `json:"xp"`
	Tier     int    `json:"tier"`
	Prestige int    `json:"prestige"`
}

// PrestigeResult reports the state on both sides of a prestige reset.
type PrestigeResult struct {
	Before ProgressionState `json:"before"`
	After  ProgressionState `json:"after"`
}

// ArcadeStateRow is one (user, key) scratch-space row. Value is an opaque
// JSON object; PatchState shallow-merges into it, last write wins.
type ArcadeStateRow struct {
	UserID    string          `json:"user_id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PityState tracks consecutive sub-threshold outcomes per module. Once Count
// exceeds the configured cap, the next draw is forced above the rarity floor.
type PityState struct {
	Count int `json:"count"`
}

// StreakState tracks the calendar-daily streak. LastClaimDate is an ISO date
// in UTC; a gap of more than one day resets Days unless a protector absorbs
// the miss.
type StreakState struct {
	Days          int    `json:"days"`
	LastClaimDate string `json:"last_claim_date"`
}

// ProtectorState tracks held streak protector tokens.
type ProtectorState struct {
	Tokens int `json:"tokens"`
}

// DailyClaimState records the last resolved calendar day for a once-per-day
// module.
type DailyClaimState struct {
	LastClaimDate string `json:"last_claim_date"`
}

// VaultState tracks a time vault: opened when the lock window elapses.
type VaultState struct {
	LockedAtUnix int64 `json:"locked_at_unix"`
	Matured      bool  `json:"matured"`
}

// SharedPoolWeek is the cross-user weekly aggregate. It is keyed by the week
// start date rather than by user; all participants read it but it is written
// under a single per-week key.
type SharedPoolWeek struct {
	WeekStartISO string   `json:"week_start_iso"`
	Members      []string `json:"members"`
	BoostCode    string   `json:"boost_code,omitempty"`
}
