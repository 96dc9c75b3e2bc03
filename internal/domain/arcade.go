package domain

import (
	"time"
)

// Commitment captures both halves of the commit-reveal scheme for a single
// action. ServerCommitHash is published before the action is accepted; the
// seed itself is revealed only after resolution.
type Commitment struct {
	ServerSeedB64    string `json:"server_seed_b64"`
	ServerCommitHash string `json:"server_commit_hash"`
	ClientSeed       string `json:"client_seed"`
	ClientCommitHash string `json:"client_commit_hash"`
}

// ResolutionAudit is the verifier-facing record of a single resolution.
// Given the revealed seed material any third party can recompute RandomHash
// and Roll and confirm the selected outcome.
type ResolutionAudit struct {
	ClientCommitHash string `json:"client_commit_hash"`
	ServerCommitHash string `json:"server_commit_hash"`
	ServerSeedB64    string `json:"server_seed_b64"`
	RandomHash       string `json:"random_hash"`
	Roll             uint64 `json:"roll"`
	Total            uint64 `json:"total"`
	RarityRoll       *uint64 `json:"rarity_roll,omitempty"`
	RarityTotal      *uint64 `json:"rarity_total,omitempty"`
}

// Outcome is the typed result of a resolution. Kind and Code are always set;
// Rarity and Metadata depend on the module. The shared pool module resolves
// to a baseline/boost pair carried in Baseline and Boost.
type Outcome struct {
	Kind     string         `json:"kind"`
	Code     string         `json:"code"`
	Rarity   string         `json:"rarity,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Baseline *Outcome       `json:"baseline,omitempty"`
	Boost    *Outcome       `json:"boost,omitempty"`
}

// Resolution is the persisted, terminal record for an action. Replays of the
// same (user, module, action) tuple return this row instead of re-rolling.
type Resolution struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Module    Module          `json:"module"`
	ActionID  string          `json:"action_id"`
	Outcome   Outcome         `json:"outcome"`
	Audit     ResolutionAudit `json:"audit"`
	ClientSeed string         `json:"client_seed"`
	Context   []string        `json:"context,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ClaimInput carries everything a resolver needs to resolve one action.
// Context holds module-specific material such as the shared pool week start,
// appended to the derivation in declared order.
type ClaimInput struct {
	UserID           string
	ActionID         string
	Profile          string
	ClientSeed       string
	ClientCommitHash string
	Context          []string
}
