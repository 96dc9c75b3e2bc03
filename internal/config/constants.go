package config

const (
	// Configuration file paths
	ConfigPathOutcomeTables = "configs/outcome_tables.json"
)
