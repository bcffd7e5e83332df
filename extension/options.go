package extension

import (
	"time"

	"github.com/xraph/grove"

	economy "github.com/xraph/economy"
	"github.com/xraph/economy/plugin"
	"github.com/xraph/economy/store"
	"github.com/xraph/economy/store/mongo"
	"github.com/xraph/economy/store/postgres"
	"github.com/xraph/economy/store/sqlite"
)

// Option configures the Economy Forge extension.
type Option func(*Extension)

// WithStore sets the store for the economy engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithPostgres sets a PostgreSQL store backed by the given grove database.
func WithPostgres(db *grove.DB) Option {
	return func(e *Extension) {
		e.store = postgres.New(db)
		e.useGrove = true
	}
}

// WithSQLite sets a SQLite store backed by the given grove database.
func WithSQLite(db *grove.DB) Option {
	return func(e *Extension) {
		e.store = sqlite.New(db)
		e.useGrove = true
	}
}

// WithMongo sets a MongoDB store backed by the given grove database.
func WithMongo(db *grove.DB) Option {
	return func(e *Extension) {
		e.store = mongo.New(db)
		e.useGrove = true
	}
}

// WithEconomyOption passes an economy.Option through to the underlying engine.
func WithEconomyOption(opt economy.Option) Option {
	return func(e *Extension) {
		e.economyOpts = append(e.economyOpts, opt)
	}
}

// WithPlugin registers an economy plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.economyOpts = append(e.economyOpts, economy.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithVotingDelay sets how long after submission a proposal opens for voting.
func WithVotingDelay(d time.Duration) Option {
	return func(e *Extension) { e.config.VotingDelay = d }
}

// WithVotingPeriod sets how long voting stays open once started.
func WithVotingPeriod(d time.Duration) Option {
	return func(e *Extension) { e.config.VotingPeriod = d }
}

// WithProposalThreshold sets the minimum balance required to submit a proposal.
func WithProposalThreshold(threshold int64) Option {
	return func(e *Extension) { e.config.ProposalThreshold = threshold }
}

// WithTimelockDelay sets the delay between queueing and execution of proposals.
func WithTimelockDelay(d time.Duration) Option {
	return func(e *Extension) { e.config.TimelockDelay = d }
}

// WithGroveDatabase records the name of the grove.DB backing the store.
// Pass an empty string to indicate the default (unnamed) grove.DB.
func WithGroveDatabase(name string) Option {
	return func(e *Extension) {
		e.config.GroveDatabase = name
		e.useGrove = true
	}
}
