package ranking

import "github.com/hireflow/hireflow/internal/config"

// RankingConfig holds the keyword boost policy.
type RankingConfig struct {
	// BoostPerMatch is the score increase per keyword occurrence.
	BoostPerMatch float64
	// BoostCap is the maximum total boost for a single chunk.
	BoostCap float64
}

// DefaultRankingConfig returns the standard boost policy.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		BoostPerMatch: config.DefaultBoostPerMatch,
		BoostCap:      config.DefaultBoostCap,
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	if c.BoostPerMatch == 0 {
		c.BoostPerMatch = config.DefaultBoostPerMatch
	}
	if c.BoostCap == 0 {
		c.BoostCap = config.DefaultBoostCap
	}
}

// FromSearchConfig builds a RankingConfig from the search configuration.
func FromSearchConfig(cfg *config.SearchConfig) *RankingConfig {
	rc := &RankingConfig{
		BoostPerMatch: cfg.BoostPerMatch,
		BoostCap:      cfg.BoostCap,
	}
	rc.ApplyDefaults()
	return rc
}
