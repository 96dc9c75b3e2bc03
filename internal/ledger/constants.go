package ledger

// DefaultHistoryLimit bounds review queries when the caller passes no limit.
const DefaultHistoryLimit = 100
