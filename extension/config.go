package extension

import "time"

// Config holds the Economy extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.economy" or "economy" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// VotingDelay is how long after submission a proposal opens for voting
	// (default: 24h).
	VotingDelay time.Duration `json:"voting_delay" mapstructure:"voting_delay" yaml:"voting_delay"`

	// VotingPeriod is how long voting stays open once started (default: 168h).
	VotingPeriod time.Duration `json:"voting_period" mapstructure:"voting_period" yaml:"voting_period"`

	// ProposalThreshold is the minimum token balance required to submit
	// a proposal (default: 10000).
	ProposalThreshold int64 `json:"proposal_threshold" mapstructure:"proposal_threshold" yaml:"proposal_threshold"`

	// TimelockDelay is the delay between queueing a passed proposal and
	// its earliest execution time (default: 48h).
	TimelockDelay time.Duration `json:"timelock_delay" mapstructure:"timelock_delay" yaml:"timelock_delay"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension expects a grove-backed store to be provided via
	// WithPostgres, WithSQLite, or WithMongo matching that database.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VotingDelay:       24 * time.Hour,
		VotingPeriod:      7 * 24 * time.Hour,
		ProposalThreshold: 10_000,
		TimelockDelay:     48 * time.Hour,
	}
}
