package progression

// Config holds progression tuning. Thresholds are supplied by the operator,
// not hard-coded engine invariants.
type Config struct {
	// TierBaseXP scales the quadratic tier curve. Reaching tier t requires
	// TierBaseXP * t * t total XP.
	TierBaseXP uint64

	// MaxTier is the highest tier reachable at prestige 0.
	MaxTier int

	// MaxTierStep raises the tier ceiling by this much per prestige level.
	MaxTierStep int
}

// DefaultConfig returns the tuning used when the operator supplies nothing.
func DefaultConfig() Config {
	return Config{
		TierBaseXP:  100,
		MaxTier:     25,
		MaxTierStep: 0,
	}
}

// MaxTierFor returns the tier ceiling at a given prestige level.
func (c Config) MaxTierFor(prestige int) int {
	return c.MaxTier + c.MaxTierStep*prestige
}
