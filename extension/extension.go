// Package extension provides the Forge extension adapter for Economy.
//
// It implements the forge.Extension interface to integrate Economy
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.economy" or "economy" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	economy "github.com/xraph/economy"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/store"
	"github.com/xraph/economy/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "economy"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Usage-metered token economy engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Economy as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config      Config
	engine      *economy.Economy
	store       store.Store
	economyOpts []economy.Option
	useGrove    bool
}

// New creates a new Economy Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Economy instance.
// This is nil until Register is called.
func (e *Extension) Engine() *economy.Economy { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the economy engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build economy options from resolved config.
	opts := e.buildEconomyOpts()

	eng := economy.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*economy.Economy, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("economy: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("economy: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEconomyOpts constructs economy.Option values from the resolved config.
func (e *Extension) buildEconomyOpts() []economy.Option {
	opts := make([]economy.Option, 0, len(e.economyOpts)+1)

	params := governance.Params{
		VotingDelay:       e.config.VotingDelay,
		VotingPeriod:      e.config.VotingPeriod,
		ProposalThreshold: e.config.ProposalThreshold,
		TimelockDelay:     e.config.TimelockDelay,
	}
	opts = append(opts, economy.WithGovernanceParams(params))

	// Append any pass-through economy options.
	opts = append(opts, e.economyOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("economy: configuration is required but not found in config files; " +
				"ensure 'extensions.economy' or 'economy' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("economy: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("voting_delay", e.config.VotingDelay),
		forge.F("voting_period", e.config.VotingPeriod),
		forge.F("proposal_threshold", e.config.ProposalThreshold),
		forge.F("timelock_delay", e.config.TimelockDelay),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.economy" first (namespaced pattern).
	if cm.IsSet("extensions.economy") {
		if err := cm.Bind("extensions.economy", &cfg); err == nil {
			e.Logger().Debug("economy: loaded config from file",
				forge.F("key", "extensions.economy"),
			)
			return cfg, true
		}
		e.Logger().Warn("economy: failed to bind extensions.economy config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "economy" key.
	if cm.IsSet("economy") {
		if err := cm.Bind("economy", &cfg); err == nil {
			e.Logger().Debug("economy: loaded config from file",
				forge.F("key", "economy"),
			)
			return cfg, true
		}
		e.Logger().Warn("economy: failed to bind economy config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.VotingDelay == 0 {
		cfg.VotingDelay = defaults.VotingDelay
	}
	if cfg.VotingPeriod == 0 {
		cfg.VotingPeriod = defaults.VotingPeriod
	}
	if cfg.ProposalThreshold == 0 {
		cfg.ProposalThreshold = defaults.ProposalThreshold
	}
	if cfg.TimelockDelay == 0 {
		cfg.TimelockDelay = defaults.TimelockDelay
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.GroveDatabase == "" && programmaticConfig.GroveDatabase != "" {
		yamlConfig.GroveDatabase = programmaticConfig.GroveDatabase
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.VotingDelay == 0 && programmaticConfig.VotingDelay != 0 {
		yamlConfig.VotingDelay = programmaticConfig.VotingDelay
	}
	if yamlConfig.VotingPeriod == 0 && programmaticConfig.VotingPeriod != 0 {
		yamlConfig.VotingPeriod = programmaticConfig.VotingPeriod
	}
	if yamlConfig.ProposalThreshold == 0 && programmaticConfig.ProposalThreshold != 0 {
		yamlConfig.ProposalThreshold = programmaticConfig.ProposalThreshold
	}
	if yamlConfig.TimelockDelay == 0 && programmaticConfig.TimelockDelay != 0 {
		yamlConfig.TimelockDelay = programmaticConfig.TimelockDelay
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
