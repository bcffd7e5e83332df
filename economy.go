package economy

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/plugin"
	"github.com/xraph/economy/store"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/types"
)

// Economy is the main token-economy engine.
type Economy struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// now is the clock used for timestamps and timelock arithmetic.
	// Tests replace it via WithClock.
	now func() time.Time

	govParams governance.Params

	// usageSeq disambiguates usage records created within the same
	// timestamp. It feeds the content hash and is never persisted.
	usageSeq atomic.Uint64

	// mu serializes mutating operations. The engine follows a
	// validate-then-mutate discipline, so a single lock is enough to keep
	// read-check-write sequences atomic.
	mu sync.Mutex
}

// New creates a new Economy instance.
func New(s store.Store, opts ...Option) *Economy {
	e := &Economy{
		store:     s,
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		now:       time.Now,
		govParams: governance.DefaultParams(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Economy instance.
type Option func(*Economy)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Economy) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Economy) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock replaces the engine clock. Timelock and voting-window tests
// use this to advance time deterministically.
func WithClock(now func() time.Time) Option {
	return func(e *Economy) {
		e.now = now
	}
}

// WithGovernanceParams overrides the governance-gate parameters.
func WithGovernanceParams(p governance.Params) Option {
	return func(e *Economy) {
		e.govParams = p
	}
}

// Start migrates the store and initializes plugins.
func (e *Economy) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("economy started",
		"voting_delay", e.govParams.VotingDelay,
		"voting_period", e.govParams.VotingPeriod,
		"timelock_delay", e.govParams.TimelockDelay,
	)

	return nil
}

// Stop shuts down the Economy.
func (e *Economy) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// GovernanceParams returns the active governance-gate parameters.
func (e *Economy) GovernanceParams() governance.Params {
	return e.govParams
}

// ──────────────────────────────────────────────────
// Caller identity
// ──────────────────────────────────────────────────

type callerKey struct{}

// WithCaller returns a context carrying the caller address. Mutating
// operations read the caller from the context; the dispatching layer is
// responsible for authenticating it.
func WithCaller(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, callerKey{}, address)
}

// CallerFromContext extracts the caller address, or "" if absent.
func CallerFromContext(ctx context.Context) string {
	if v := ctx.Value(callerKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// caller returns the context caller or an error when it is missing.
func (e *Economy) caller(ctx context.Context) (string, error) {
	addr := CallerFromContext(ctx)
	if addr == "" {
		return "", ErrUnauthorized
	}
	return addr, nil
}

// requireCapability fails unless the address holds the capability.
func (e *Economy) requireCapability(ctx context.Context, address string, cap authority.Capability) error {
	ok, err := e.store.HasCapability(ctx, address, cap)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// ──────────────────────────────────────────────────
// Protocol genesis
// ──────────────────────────────────────────────────

// Initialize performs the one-time protocol genesis: it persists the token
// metadata, grants the bootstrap capabilities to the admin, and seeds the
// default minting-rate table. A second call fails with
// ErrAlreadyInitialized and changes nothing.
func (e *Economy) Initialize(ctx context.Context, g token.Genesis) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g.Admin == "" || g.Treasury == "" || g.LiquidityPool == "" {
		return ErrInvalidAddress
	}
	if g.Name == "" || g.Symbol == "" {
		return ValidationError{Field: "name", Message: "token name and symbol are required"}
	}

	now := e.now()
	meta := &token.Metadata{
		Entity:        types.NewEntityAt(now),
		Name:          g.Name,
		Symbol:        g.Symbol,
		Admin:         g.Admin,
		Treasury:      g.Treasury,
		LiquidityPool: g.LiquidityPool,
	}
	if err := e.store.InitProtocol(ctx, meta); err != nil {
		return err
	}

	// Bootstrap capabilities for the deploying admin. The resolver
	// capability is delegated explicitly afterwards.
	for _, c := range []authority.Capability{
		authority.CapabilityAdmin,
		authority.CapabilityMinter,
		authority.CapabilityGovernance,
		authority.CapabilityAirdrop,
	} {
		grant := &authority.Grant{
			Entity:     types.NewEntityAt(now),
			Capability: c,
			Address:    g.Admin,
			GrantedBy:  g.Admin,
		}
		if err := e.store.GrantCapability(ctx, grant); err != nil {
			return err
		}
	}

	for model, rate := range token.DefaultMintingRates() {
		if err := e.store.SetMintingRate(ctx, model, rate); err != nil {
			return err
		}
	}

	e.logger.Info("protocol initialized",
		"name", g.Name,
		"symbol", g.Symbol,
		"admin", g.Admin,
	)

	return nil
}

// Protocol returns the persisted protocol metadata.
func (e *Economy) Protocol(ctx context.Context) (*token.Metadata, error) {
	return e.store.GetProtocol(ctx)
}
