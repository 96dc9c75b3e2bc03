package progression

// NextTierXP returns the total XP required to advance past tier. Pure and
// exposed so client progress bars use the exact arithmetic the server
// advances with.
func (c Config) NextTierXP(tier int) uint64 {
	if tier < 0 {
		tier = 0
	}
	next := uint64(tier) + 1
	return c.TierBaseXP * next * next
}

// TierForXP maps total XP to a tier, capped at the prestige ceiling.
// Integer arithmetic only; the tier curve must evaluate identically on every
// platform.
func (c Config) TierForXP(xp uint64, prestige int) int {
	ceiling := c.MaxTierFor(prestige)
	tier := 0
	for tier < ceiling && xp >= c.NextTierXP(tier) {
		tier++
	}
	return tier
}
