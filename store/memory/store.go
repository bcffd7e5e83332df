// Package memory provides an in-memory Store for tests and development.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/economy"
	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

type Store struct {
	mu sync.RWMutex

	// Protocol storage
	protocol *token.Metadata

	// Authority storage, keyed by address
	grants map[string]map[authority.Capability]*authority.Grant

	// Token storage
	balances   map[string]int64
	supply     int64
	allowances map[string]int64 // owner + "\x00" + spender
	rates      map[string]int64
	airdrops   map[string][]*token.AirdropEvent

	// Usage storage, keyed by hash, with per-consumer insertion order
	records       map[string]*usage.Record
	consumerIndex map[string][]string

	// Settlement storage, keyed by usage hash
	settlements map[string]*settlement.Settlement
	// settlementOrder preserves insertion order for listings
	settlementOrder []string

	// Staking storage, keyed by provider
	stakes map[string]*staking.Position

	// Treasury storage, keyed by denomination
	treasury map[string]int64

	// Governance storage
	proposals     map[string]*governance.Proposal
	proposalOrder []string
}

func New() *Store {
	return &Store{
		grants:        make(map[string]map[authority.Capability]*authority.Grant),
		balances:      make(map[string]int64),
		allowances:    make(map[string]int64),
		rates:         make(map[string]int64),
		airdrops:      make(map[string][]*token.AirdropEvent),
		records:       make(map[string]*usage.Record),
		consumerIndex: make(map[string][]string),
		settlements:   make(map[string]*settlement.Settlement),
		stakes:        make(map[string]*staking.Position),
		treasury:      make(map[string]int64),
		proposals:     make(map[string]*governance.Proposal),
	}
}

// Protocol Store implementation
func (s *Store) InitProtocol(_ context.Context, meta *token.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.protocol != nil {
		return economy.ErrAlreadyInitialized
	}
	cp := *meta
	s.protocol = &cp
	return nil
}

func (s *Store) GetProtocol(_ context.Context) (*token.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.protocol == nil {
		return nil, economy.ErrNotInitialized
	}
	cp := *s.protocol
	return &cp, nil
}

func (s *Store) UpdateProtocol(_ context.Context, meta *token.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.protocol == nil {
		return economy.ErrNotInitialized
	}
	cp := *meta
	s.protocol = &cp
	return nil
}

// Authority Store implementation
func (s *Store) GrantCapability(_ context.Context, g *authority.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caps, ok := s.grants[g.Address]
	if !ok {
		caps = make(map[authority.Capability]*authority.Grant)
		s.grants[g.Address] = caps
	}
	cp := *g
	caps[g.Capability] = &cp
	return nil
}

func (s *Store) RevokeCapability(_ context.Context, address string, cap authority.Capability) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caps, ok := s.grants[address]
	if !ok {
		return economy.ErrGrantNotFound
	}
	if _, ok := caps[cap]; !ok {
		return economy.ErrGrantNotFound
	}
	delete(caps, cap)
	return nil
}

func (s *Store) HasCapability(_ context.Context, address string, cap authority.Capability) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.grants[address][cap]
	return ok, nil
}

func (s *Store) CapabilitiesOf(_ context.Context, address string) ([]authority.Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]authority.Capability, 0)
	// Iterate the canonical order so listings are deterministic.
	for _, c := range authority.All {
		if _, ok := s.grants[address][c]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

// Balance Store implementation
func (s *Store) Balance(_ context.Context, address string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[address], nil
}

func (s *Store) Credit(_ context.Context, address string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[address] += amount
	return nil
}

func (s *Store) Debit(_ context.Context, address string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[address] < amount {
		return economy.ErrInsufficientBalance
	}
	s.balances[address] -= amount
	return nil
}

func (s *Store) TotalSupply(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.supply, nil
}

func (s *Store) AddSupply(_ context.Context, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supply += delta
	return nil
}

func allowanceKey(owner, spender string) string {
	return owner + "\x00" + spender
}

func (s *Store) SetAllowance(_ context.Context, owner, spender string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.allowances[allowanceKey(owner, spender)] = amount
	return nil
}

func (s *Store) Allowance(_ context.Context, owner, spender string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.allowances[allowanceKey(owner, spender)], nil
}

// Minting rate Store implementation
func (s *Store) MintingRate(_ context.Context, model string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[model]
	if !ok {
		return 0, economy.ErrRateNotSet
	}
	return rate, nil
}

func (s *Store) SetMintingRate(_ context.Context, model string, rate int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rates[model] = rate
	return nil
}

func (s *Store) ListMintingRates(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]int64, len(s.rates))
	for model, rate := range s.rates {
		result[model] = rate
	}
	return result, nil
}

// Airdrop Store implementation
func (s *Store) AddAirdropHistory(_ context.Context, ev *token.AirdropEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ev
	s.airdrops[ev.Recipient] = append(s.airdrops[ev.Recipient], &cp)
	return nil
}

func (s *Store) AirdropHistory(_ context.Context, recipient string) ([]*token.AirdropEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.airdrops[recipient]
	result := make([]*token.AirdropEvent, len(history))
	copy(result, history)
	return result, nil
}

// Usage Store implementation
func (s *Store) CreateUsage(_ context.Context, r *usage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.Hash]; exists {
		return economy.ErrAlreadyExists
	}
	cp := *r
	s.records[r.Hash] = &cp
	s.consumerIndex[r.Consumer] = append(s.consumerIndex[r.Consumer], r.Hash)
	return nil
}

func (s *Store) GetUsage(_ context.Context, hash string) (*usage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.records[hash]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, economy.ErrUsageNotFound
}

func (s *Store) ConsumerUsage(_ context.Context, consumer string, opts usage.PageOpts) ([]*usage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hashes := s.consumerIndex[consumer]

	start := opts.Offset
	if start > len(hashes) {
		start = len(hashes)
	}
	end := len(hashes)
	if opts.Limit > 0 && opts.Limit < end-start {
		end = start + opts.Limit
	}

	result := make([]*usage.Record, 0, end-start)
	for _, h := range hashes[start:end] {
		cp := *s.records[h]
		result = append(result, &cp)
	}
	return result, nil
}

// Settlement Store implementation
func (s *Store) CreateSettlement(_ context.Context, st *settlement.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.settlements[st.UsageHash]; exists {
		return economy.ErrSettlementExists
	}
	cp := *st
	s.settlements[st.UsageHash] = &cp
	s.settlementOrder = append(s.settlementOrder, st.UsageHash)
	return nil
}

func (s *Store) GetSettlement(_ context.Context, usageHash string) (*settlement.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.settlements[usageHash]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, economy.ErrSettlementNotFound
}

func (s *Store) UpdateSettlement(_ context.Context, st *settlement.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.settlements[st.UsageHash]; !exists {
		return economy.ErrSettlementNotFound
	}
	cp := *st
	s.settlements[st.UsageHash] = &cp
	return nil
}

func (s *Store) ListSettlements(_ context.Context, provider string, opts settlement.ListOpts) ([]*settlement.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*settlement.Settlement, 0)
	for _, h := range s.settlementOrder {
		st := s.settlements[h]
		if st.Provider != provider {
			continue
		}
		if opts.Status != nil && st.Status != *opts.Status {
			continue
		}
		cp := *st
		result = append(result, &cp)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

// Staking Store implementation
func (s *Store) GetStake(_ context.Context, provider string) (*staking.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.stakes[provider]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, economy.ErrStakeNotFound
}

func (s *Store) PutStake(_ context.Context, p *staking.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.stakes[p.Provider] = &cp
	return nil
}

// Treasury Store implementation
func (s *Store) TreasuryBalance(_ context.Context, denom string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.treasury[denom], nil
}

func (s *Store) TreasuryCredit(_ context.Context, denom string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.treasury[denom] += amount
	return nil
}

func (s *Store) TreasuryDebit(_ context.Context, denom string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.treasury[denom] < amount {
		return economy.ErrTreasuryInsufficient
	}
	s.treasury[denom] -= amount
	return nil
}

// Governance Store implementation
func (s *Store) CreateProposal(_ context.Context, p *governance.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.proposals[p.ID.String()]; exists {
		return economy.ErrAlreadyExists
	}
	s.proposals[p.ID.String()] = cloneProposal(p)
	s.proposalOrder = append(s.proposalOrder, p.ID.String())
	return nil
}

func (s *Store) GetProposal(_ context.Context, propID id.ProposalID) (*governance.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.proposals[propID.String()]; ok {
		return cloneProposal(p), nil
	}
	return nil, economy.ErrProposalNotFound
}

func (s *Store) UpdateProposal(_ context.Context, p *governance.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.proposals[p.ID.String()]; !exists {
		return economy.ErrProposalNotFound
	}
	s.proposals[p.ID.String()] = cloneProposal(p)
	return nil
}

func (s *Store) ListProposals(_ context.Context, opts governance.ListOpts) ([]*governance.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*governance.Proposal, 0)
	for _, pid := range s.proposalOrder {
		p := s.proposals[pid]
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		result = append(result, cloneProposal(p))
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// cloneProposal deep-copies the voter set and action list so callers cannot
// mutate stored state through a returned pointer.
func cloneProposal(p *governance.Proposal) *governance.Proposal {
	cp := *p
	cp.Actions = make([]governance.Action, len(p.Actions))
	copy(cp.Actions, p.Actions)
	cp.Voters = make(map[string]bool, len(p.Voters))
	for addr, voted := range p.Voters {
		cp.Voters[addr] = voted
	}
	if p.ETA != nil {
		eta := *p.ETA
		cp.ETA = &eta
	}
	return &cp
}
