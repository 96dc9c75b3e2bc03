package arcade

import "time"

// Config holds arcade engine tuning. Weights live in the outcome table file;
// everything here is likewise operator-supplied data, not an engine
// invariant.
type Config struct {
	// Profile names the tuning profile baked into every derivation, so two
	// deployments with different economies can never replay each other's
	// rolls.
	Profile string

	// PityCap is the number of consecutive sub-floor outcomes after which
	// the next draw is forced above the rarity floor.
	PityCap int

	// PityFloor is the rarity at or below which an outcome counts toward
	// pity.
	PityFloor string

	// ClaimXP is awarded per successful resolution.
	ClaimXP uint64

	// WheelShardCost is spent per rarity wheel spin.
	WheelShardCost int

	// DraftOffers is how many boosts a draft presents.
	DraftOffers int

	// VaultLock is how long a time vault stays sealed.
	VaultLock time.Duration

	// MissionWindow is how long a flash mission stays claimable once started.
	MissionWindow time.Duration

	// ReplayCacheSize bounds the LRU cache of revealed resolutions.
	ReplayCacheSize int
}

// DefaultConfig returns the tuning used when the operator supplies nothing.
func DefaultConfig() Config {
	return Config{
		Profile:         "default",
		PityCap:         10,
		PityFloor:       "uncommon",
		ClaimXP:         25,
		WheelShardCost:  50,
		DraftOffers:     3,
		VaultLock:       24 * time.Hour,
		MissionWindow:   15 * time.Minute,
		ReplayCacheSize: 4096,
	}
}
