package tables

// Rarity tiers in ascending order.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

var rarityRanks = map[string]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

// RarityRank maps a rarity name to its ordinal. Unknown or empty rarities
// rank lowest so they never satisfy a pity floor.
func RarityRank(rarity string) int {
	if rank, ok := rarityRanks[rarity]; ok {
		return rank
	}
	return -1
}
