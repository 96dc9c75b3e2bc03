package domain

import "time"

// ConsumptionRecord is one append-only ledger row. Records are never updated
// or deleted; the resolution hot path only writes them.
type ConsumptionRecord struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"user_id"`
	Kind        string         `json:"kind"`
	Code        string         `json:"code"`
	Rarity      string         `json:"rarity,omitempty"`
	Quantity    int            `json:"quantity"`
	ContextType string         `json:"context_type"`
	ContextID   string         `json:"context_id,omitempty"`
	Module      Module         `json:"module,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NormalizeQuantity floors the quantity to an integer >= 1 at write time.
func (r *ConsumptionRecord) NormalizeQuantity() {
	if r.Quantity < 1 {
		r.Quantity = 1
	}
}
