package domain

// Module identifies an arcade module. Module names appear in derivation
// input, audit records and ledger rows, so they must never be renamed once
// resolutions have been persisted.
type Module string

const (
	ModuleDailyDrop       Module = "daily_drop"
	ModuleRarityWheel     Module = "rarity_wheel"
	ModuleBoostDraft      Module = "boost_draft"
	ModuleTimeVault       Module = "time_vault"
	ModuleCalendarDaily   Module = "calendar_daily"
	ModuleStreakProtector Module = "streak_protector"
	ModuleFlashMission    Module = "flash_mission"
	ModuleSharedPool      Module = "shared_pool"
	ModuleAITier          Module = "ai_tier"
	ModuleInsightPack     Module = "insight_pack"
)

// AllModules lists every arcade module in declaration order.
var AllModules = []Module{
	ModuleDailyDrop,
	ModuleRarityWheel,
	ModuleBoostDraft,
	ModuleTimeVault,
	ModuleCalendarDaily,
	ModuleStreakProtector,
	ModuleFlashMission,
	ModuleSharedPool,
	ModuleAITier,
	ModuleInsightPack,
}

// Valid reports whether m names a known arcade module.
func (m Module) Valid() bool {
	for _, known := range AllModules {
		if m == known {
			return true
		}
	}
	return false
}

// Outcome kinds
const (
	OutcomeKindCosmetic   = "cosmetic"
	OutcomeKindBoost      = "boost"
	OutcomeKindBadge      = "badge"
	OutcomeKindInsight    = "insight"
	OutcomeKindShards     = "shards"
	OutcomeKindPoolMember = "pool_member"
	OutcomeKindProtector  = "protector"
	OutcomeKindAITier     = "ai_tier"
)

// AITier buckets select response verbosity for AI-assisted surfaces.
// The draw picks the bucket, never the content.
type AITier string

const (
	AITierLow    AITier = "low"
	AITierMedium AITier = "medium"
	AITierHigh   AITier = "high"
)

// Arcade state keys. Each key namespaces an independent per-user state
// machine inside the arcade_state table.
const (
	StateKeyPity          = "pity"
	StateKeyStreak        = "streak"
	StateKeyDailyDrop     = "daily_drop"
	StateKeyProtector     = "streak_protector"
	StateKeyVault         = "time_vault"
	StateKeySharedPool    = "shared_pool" // per-week aggregate, keyed by week start
)

// Consumption context types
const (
	ContextTypeClaim      = "claim"
	ContextTypeResolution = "resolution"
	ContextTypeReEval     = "re_evaluation"
)

// InsightDisclaimer is attached to every advisory text outcome. Mandatory
// whenever the outcome is text-based.
const InsightDisclaimer = "For entertainment only. This is not financial advice."
