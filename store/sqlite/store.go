// Package sqlite implements the Economy store on SQLite via Grove ORM.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	economy "github.com/xraph/economy"
	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	economystore "github.com/xraph/economy/store"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// compile-time interface check
var _ economystore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("economy/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("economy/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Protocol Store ====================

func (s *Store) InitProtocol(ctx context.Context, meta *token.Metadata) error {
	existing := new(protocolModel)
	err := s.sdb.NewSelect(existing).
		Where("id = ?", protocolKey).
		Scan(ctx)
	if err == nil {
		return economy.ErrAlreadyInitialized
	}
	if !isNoRows(err) {
		return err
	}

	m := toProtocolModel(meta)
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetProtocol(ctx context.Context) (*token.Metadata, error) {
	m := new(protocolModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", protocolKey).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, economy.ErrNotInitialized
		}
		return nil, err
	}
	return fromProtocolModel(m), nil
}

func (s *Store) UpdateProtocol(ctx context.Context, meta *token.Metadata) error {
	m := toProtocolModel(meta)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return economy.ErrNotInitialized
	}
	return nil
}

// ==================== Authority Store ====================

func (s *Store) GrantCapability(ctx context.Context, g *authority.Grant) error {
	m := &grantModel{
		Address:    g.Address,
		Capability: string(g.Capability),
		GrantedBy:  g.GrantedBy,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(address, capability) DO UPDATE").
		Set("granted_by = EXCLUDED.granted_by").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) RevokeCapability(ctx context.Context, address string, cap authority.Capability) error {
	res, err := s.sdb.NewDelete((*grantModel)(nil)).
		Where("address = ?", address).
		Where("capability = ?", string(cap)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return economy.ErrGrantNotFound
	}
	return nil
}

func (s *Store) HasCapability(ctx context.Context, address string, cap authority.Capability) (bool, error) {
	var count int64
	err := s.sdb.NewRaw(`
		SELECT COUNT(*) FROM economy_capabilities
		WHERE address = ? AND capability = ?
	`, address, string(cap)).Scan(ctx, &count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CapabilitiesOf(ctx context.Context, address string) ([]authority.Capability, error) {
	var models []grantModel
	err := s.sdb.NewSelect(&models).
		Where("address = ?", address).
		OrderExpr("capability ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	held := make(map[authority.Capability]bool, len(models))
	for i := range models {
		held[authority.Capability(models[i].Capability)] = true
	}
	result := make([]authority.Capability, 0, len(held))
	for _, c := range authority.All {
		if held[c] {
			result = append(result, c)
		}
	}
	return result, nil
}

// ==================== Balance Store ====================

func (s *Store) Balance(ctx context.Context, address string) (int64, error) {
	m := new(balanceModel)
	err := s.sdb.NewSelect(m).
		Where("address = ?", address).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return m.Balance, nil
}

func (s *Store) Credit(ctx context.Context, address string, amount int64) error {
	m := &balanceModel{Address: address, Balance: amount}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(address) DO UPDATE").
		Set("balance = economy_balances.balance + EXCLUDED.balance").
		Exec(ctx)
	return err
}

func (s *Store) Debit(ctx context.Context, address string, amount int64) error {
	res, err := s.sdb.NewUpdate((*balanceModel)(nil)).
		Set("balance = balance - ?", amount).
		Where("address = ?", address).
		Where("balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return economy.ErrInsufficientBalance
	}
	return nil
}

func (s *Store) TotalSupply(ctx context.Context) (int64, error) {
	m := new(supplyModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", supplyKey).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return m.Supply, nil
}

func (s *Store) AddSupply(ctx context.Context, delta int64) error {
	m := &supplyModel{ID: supplyKey, Supply: delta}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("supply = economy_supply.supply + EXCLUDED.supply").
		Exec(ctx)
	return err
}

func (s *Store) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	m := &allowanceModel{Owner: owner, Spender: spender, Amount: amount}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(owner, spender) DO UPDATE").
		Set("amount = EXCLUDED.amount").
		Exec(ctx)
	return err
}

func (s *Store) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	m := new(allowanceModel)
	err := s.sdb.NewSelect(m).
		Where("owner = ?", owner).
		Where("spender = ?", spender).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return m.Amount, nil
}

// ==================== Minting Rate Store ====================

func (s *Store) MintingRate(ctx context.Context, model string) (int64, error) {
	m := new(rateModel)
	err := s.sdb.NewSelect(m).
		Where("model = ?", model).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, economy.ErrRateNotSet
		}
		return 0, err
	}
	return m.Rate, nil
}

func (s *Store) SetMintingRate(ctx context.Context, model string, rate int64) error {
	m := &rateModel{Model: model, Rate: rate}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(model) DO UPDATE").
		Set("rate = EXCLUDED.rate").
		Exec(ctx)
	return err
}

func (s *Store) ListMintingRates(ctx context.Context) (map[string]int64, error) {
	var models []rateModel
	if err := s.sdb.NewSelect(&models).Scan(ctx); err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(models))
	for i := range models {
		result[models[i].Model] = models[i].Rate
	}
	return result, nil
}

// ==================== Airdrop Store ====================

func (s *Store) AddAirdropHistory(ctx context.Context, ev *token.AirdropEvent) error {
	m := &airdropModel{
		ID:        id.NewAirdropID().String(),
		BatchID:   ev.BatchID.String(),
		Recipient: ev.Recipient,
		Amount:    ev.Amount.Units,
		Reason:    ev.Reason,
		Timestamp: ev.Timestamp,
	}
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) AirdropHistory(ctx context.Context, recipient string) ([]*token.AirdropEvent, error) {
	var models []airdropModel
	err := s.sdb.NewSelect(&models).
		Where("recipient = ?", recipient).
		OrderExpr("timestamp ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*token.AirdropEvent, len(models))
	for i := range models {
		ev, err := fromAirdropModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ev
	}
	return result, nil
}

// ==================== Usage Store ====================

func (s *Store) CreateUsage(ctx context.Context, r *usage.Record) error {
	existing := new(usageModel)
	err := s.sdb.NewSelect(existing).
		Where("hash = ?", r.Hash).
		Scan(ctx)
	if err == nil {
		return economy.ErrAlreadyExists
	}
	if !isNoRows(err) {
		return err
	}

	m := toUsageModel(r)
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetUsage(ctx context.Context, hash string) (*usage.Record, error) {
	m := new(usageModel)
	err := s.sdb.NewSelect(m).
		Where("hash = ?", hash).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, economy.ErrUsageNotFound
		}
		return nil, err
	}
	return fromUsageModel(m), nil
}

func (s *Store) ConsumerUsage(ctx context.Context, consumer string, opts usage.PageOpts) ([]*usage.Record, error) {
	var models []usageModel
	q := s.sdb.NewSelect(&models).
		Where("consumer = ?", consumer).
		OrderExpr("created_at ASC, sequence ASC")

	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*usage.Record, len(models))
	for i := range models {
		result[i] = fromUsageModel(&models[i])
	}
	return result, nil
}

// ==================== Settlement Store ====================

func (s *Store) CreateSettlement(ctx context.Context, st *settlement.Settlement) error {
	existing := new(settlementModel)
	err := s.sdb.NewSelect(existing).
		Where("usage_hash = ?", st.UsageHash).
		Scan(ctx)
	if err == nil {
		return economy.ErrSettlementExists
	}
	if !isNoRows(err) {
		return err
	}

	m := toSettlementModel(st)
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetSettlement(ctx context.Context, usageHash string) (*settlement.Settlement, error) {
	m := new(settlementModel)
	err := s.sdb.NewSelect(m).
		Where("usage_hash = ?", usageHash).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, economy.ErrSettlementNotFound
		}
		return nil, err
	}
	return fromSettlementModel(m), nil
}

func (s *Store) UpdateSettlement(ctx context.Context, st *settlement.Settlement) error {
	m := toSettlementModel(st)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return economy.ErrSettlementNotFound
	}
	return nil
}

func (s *Store) ListSettlements(ctx context.Context, provider string, opts settlement.ListOpts) ([]*settlement.Settlement, error) {
	var models []settlementModel
	q := s.sdb.NewSelect(&models).Where("provider = ?", provider)

	if opts.Status != nil {
		q = q.Where("status = ?", int(*opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*settlement.Settlement, len(models))
	for i := range models {
		result[i] = fromSettlementModel(&models[i])
	}
	return result, nil
}

// ==================== Staking Store ====================

func (s *Store) GetStake(ctx context.Context, provider string) (*staking.Position, error) {
	m := new(stakeModel)
	err := s.sdb.NewSelect(m).
		Where("provider = ?", provider).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, economy.ErrStakeNotFound
		}
		return nil, err
	}
	return fromStakeModel(m), nil
}

func (s *Store) PutStake(ctx context.Context, p *staking.Position) error {
	m := toStakeModel(p)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(provider) DO UPDATE").
		Set("amount = EXCLUDED.amount").
		Set("tier = EXCLUDED.tier").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// ==================== Treasury Store ====================

func (s *Store) TreasuryBalance(ctx context.Context, denom string) (int64, error) {
	m := new(treasuryModel)
	err := s.sdb.NewSelect(m).
		Where("denom = ?", denom).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return m.Balance, nil
}

func (s *Store) TreasuryCredit(ctx context.Context, denom string, amount int64) error {
	m := &treasuryModel{Denom: denom, Balance: amount}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(denom) DO UPDATE").
		Set("balance = economy_treasury.balance + EXCLUDED.balance").
		Exec(ctx)
	return err
}

func (s *Store) TreasuryDebit(ctx context.Context, denom string, amount int64) error {
	res, err := s.sdb.NewUpdate((*treasuryModel)(nil)).
		Set("balance = balance - ?", amount).
		Where("denom = ?", denom).
		Where("balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return economy.ErrTreasuryInsufficient
	}
	return nil
}

// ==================== Governance Store ====================

func (s *Store) CreateProposal(ctx context.Context, p *governance.Proposal) error {
	m, err := toProposalModel(p)
	if err != nil {
		return err
	}
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetProposal(ctx context.Context, propID id.ProposalID) (*governance.Proposal, error) {
	m := new(proposalModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", propID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, economy.ErrProposalNotFound
		}
		return nil, err
	}
	return fromProposalModel(m)
}

func (s *Store) UpdateProposal(ctx context.Context, p *governance.Proposal) error {
	m, err := toProposalModel(p)
	if err != nil {
		return err
	}
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return economy.ErrProposalNotFound
	}
	return nil
}

func (s *Store) ListProposals(ctx context.Context, opts governance.ListOpts) ([]*governance.Proposal, error) {
	var models []proposalModel
	q := s.sdb.NewSelect(&models)

	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*governance.Proposal, len(models))
	for i := range models {
		p, err := fromProposalModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
