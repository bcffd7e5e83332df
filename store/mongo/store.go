// Package mongo implements the Economy store on MongoDB via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colProtocol     = "economy_protocol"
	colCapabilities = "economy_capabilities"
	colBalances     = "economy_balances"
	colSupply       = "economy_supply"
	colAllowances   = "economy_allowances"
	colRates        = "economy_minting_rates"
	colAirdrops     = "economy_airdrops"
	colUsage        = "economy_usage_records"
	colSettlements  = "economy_settlements"
	colStakes       = "economy_stakes"
	colTreasury     = "economy_treasury"
	colProposals    = "economy_proposals"
)

// compile-time interface check
var _ economystore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all economy collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("economy/mongo: migrate %s indexes: %w", col, err)
		}
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
	var existing protocolModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"_id": protocolKey}).
		Scan(ctx)
	if err == nil {
		return economy.ErrAlreadyInitialized
	}
	if !isNoDocuments(err) {
		return fmt.Errorf("economy/mongo: init protocol: %w", err)
	}

	m := toProtocolModel(meta)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("economy/mongo: init protocol: %w", err)
	}
	return nil
}

func (s *Store) GetProtocol(ctx context.Context) (*token.Metadata, error) {
	var m protocolModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": protocolKey}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, economy.ErrNotInitialized
		}
		return nil, fmt.Errorf("economy/mongo: get protocol: %w", err)
	}
	return fromProtocolModel(&m), nil
}

func (s *Store) UpdateProtocol(ctx context.Context, meta *token.Metadata) error {
	m := toProtocolModel(meta)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: update protocol: %w", err)
	}
	if res.MatchedCount() == 0 {
		return economy.ErrNotInitialized
	}
	return nil
}

// ==================== Authority Store ====================

func (s *Store) GrantCapability(ctx context.Context, g *authority.Grant) error {
	key := grantKey(g.Address, string(g.Capability))
	_, err := s.mdb.NewUpdate((*grantModel)(nil)).
		Filter(bson.M{"_id": key}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        key,
			"address":    g.Address,
			"capability": string(g.Capability),
			"granted_by": g.GrantedBy,
			"created_at": g.CreatedAt,
			"updated_at": g.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: grant capability: %w", err)
	}
	return nil
}

func (s *Store) RevokeCapability(ctx context.Context, address string, cap authority.Capability) error {
	res, err := s.mdb.NewDelete((*grantModel)(nil)).
		Filter(bson.M{"_id": grantKey(address, string(cap))}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: revoke capability: %w", err)
	}
	if res.DeletedCount() == 0 {
		return economy.ErrGrantNotFound
	}
	return nil
}

func (s *Store) HasCapability(ctx context.Context, address string, cap authority.Capability) (bool, error) {
	var m grantModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": grantKey(address, string(cap))}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return false, nil
		}
		return false, fmt.Errorf("economy/mongo: has capability: %w", err)
	}
	return true, nil
}

func (s *Store) CapabilitiesOf(ctx context.Context, address string) ([]authority.Capability, error) {
	var models []grantModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"address": address}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("economy/mongo: capabilities of: %w", err)
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
	var m balanceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": address}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("economy/mongo: balance: %w", err)
	}
	return m.Balance, nil
}

func (s *Store) Credit(ctx context.Context, address string, amount int64) error {
	_, err := s.mdb.NewUpdate((*balanceModel)(nil)).
		Filter(bson.M{"_id": address}).
		SetUpdate(bson.M{"$inc": bson.M{"balance": amount}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: credit: %w", err)
	}
	return nil
}

func (s *Store) Debit(ctx context.Context, address string, amount int64) error {
	res, err := s.mdb.NewUpdate((*balanceModel)(nil)).
		Filter(bson.M{"_id": address, "balance": bson.M{"$gte": amount}}).
		SetUpdate(bson.M{"$inc": bson.M{"balance": -amount}}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: debit: %w", err)
	}
	if res.MatchedCount() == 0 {
		return economy.ErrInsufficientBalance
	}
	return nil
}

func (s *Store) TotalSupply(ctx context.Context) (int64, error) {
	var m supplyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": supplyKey}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("economy/mongo: total supply: %w", err)
	}
	return m.Supply, nil
}

func (s *Store) AddSupply(ctx context.Context, delta int64) error {
	_, err := s.mdb.NewUpdate((*supplyModel)(nil)).
		Filter(bson.M{"_id": supplyKey}).
		SetUpdate(bson.M{"$inc": bson.M{"supply": delta}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: add supply: %w", err)
	}
	return nil
}

func (s *Store) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	key := allowanceKey(owner, spender)
	_, err := s.mdb.NewUpdate((*allowanceModel)(nil)).
		Filter(bson.M{"_id": key}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":     key,
			"owner":   owner,
			"spender": spender,
			"amount":  amount,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: set allowance: %w", err)
	}
	return nil
}

func (s *Store) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	var m allowanceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": allowanceKey(owner, spender)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("economy/mongo: allowance: %w", err)
	}
	return m.Amount, nil
}

// ==================== Minting Rate Store ====================

func (s *Store) MintingRate(ctx context.Context, model string) (int64, error) {
	var m rateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": model}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, economy.ErrRateNotSet
		}
		return 0, fmt.Errorf("economy/mongo: minting rate: %w", err)
	}
	return m.Rate, nil
}

func (s *Store) SetMintingRate(ctx context.Context, model string, rate int64) error {
	_, err := s.mdb.NewUpdate((*rateModel)(nil)).
		Filter(bson.M{"_id": model}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":  model,
			"rate": rate,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: set minting rate: %w", err)
	}
	return nil
}

func (s *Store) ListMintingRates(ctx context.Context) (map[string]int64, error) {
	var models []rateModel
	if err := s.mdb.NewFind(&models).Filter(bson.M{}).Scan(ctx); err != nil {
		return nil, fmt.Errorf("economy/mongo: list minting rates: %w", err)
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("economy/mongo: add airdrop history: %w", err)
	}
	return nil
}

func (s *Store) AirdropHistory(ctx context.Context, recipient string) ([]*token.AirdropEvent, error) {
	var models []airdropModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"recipient": recipient}).
		Sort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("economy/mongo: airdrop history: %w", err)
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
	var existing usageModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"_id": r.Hash}).
		Scan(ctx)
	if err == nil {
		return economy.ErrAlreadyExists
	}
	if !isNoDocuments(err) {
		return fmt.Errorf("economy/mongo: create usage: %w", err)
	}

	m := toUsageModel(r)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("economy/mongo: create usage: %w", err)
	}
	return nil
}

func (s *Store) GetUsage(ctx context.Context, hash string) (*usage.Record, error) {
	var m usageModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": hash}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, economy.ErrUsageNotFound
		}
		return nil, fmt.Errorf("economy/mongo: get usage: %w", err)
	}
	return fromUsageModel(&m), nil
}

func (s *Store) ConsumerUsage(ctx context.Context, consumer string, opts usage.PageOpts) ([]*usage.Record, error) {
	var models []usageModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{"consumer": consumer}).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "sequence", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("economy/mongo: consumer usage: %w", err)
	}

	result := make([]*usage.Record, len(models))
	for i := range models {
		result[i] = fromUsageModel(&models[i])
	}
	return result, nil
}

// ==================== Settlement Store ====================

func (s *Store) CreateSettlement(ctx context.Context, st *settlement.Settlement) error {
	var existing settlementModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"_id": st.UsageHash}).
		Scan(ctx)
	if err == nil {
		return economy.ErrSettlementExists
	}
	if !isNoDocuments(err) {
		return fmt.Errorf("economy/mongo: create settlement: %w", err)
	}

	m := toSettlementModel(st)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("economy/mongo: create settlement: %w", err)
	}
	return nil
}

func (s *Store) GetSettlement(ctx context.Context, usageHash string) (*settlement.Settlement, error) {
	var m settlementModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": usageHash}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, economy.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("economy/mongo: get settlement: %w", err)
	}
	return fromSettlementModel(&m), nil
}

func (s *Store) UpdateSettlement(ctx context.Context, st *settlement.Settlement) error {
	m := toSettlementModel(st)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.UsageHash}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: update settlement: %w", err)
	}
	if res.MatchedCount() == 0 {
		return economy.ErrSettlementNotFound
	}
	return nil
}

func (s *Store) ListSettlements(ctx context.Context, provider string, opts settlement.ListOpts) ([]*settlement.Settlement, error) {
	var models []settlementModel

	filter := bson.M{"provider": provider}
	if opts.Status != nil {
		filter["status"] = int(*opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("economy/mongo: list settlements: %w", err)
	}

	result := make([]*settlement.Settlement, len(models))
	for i := range models {
		result[i] = fromSettlementModel(&models[i])
	}
	return result, nil
}

// ==================== Staking Store ====================

func (s *Store) GetStake(ctx context.Context, provider string) (*staking.Position, error) {
	var m stakeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": provider}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, economy.ErrStakeNotFound
		}
		return nil, fmt.Errorf("economy/mongo: get stake: %w", err)
	}
	return fromStakeModel(&m), nil
}

func (s *Store) PutStake(ctx context.Context, p *staking.Position) error {
	m := toStakeModel(p)
	_, err := s.mdb.NewUpdate((*stakeModel)(nil)).
		Filter(bson.M{"_id": m.Provider}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        m.Provider,
			"amount":     m.Amount,
			"tier":       m.Tier,
			"created_at": m.CreatedAt,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: put stake: %w", err)
	}
	return nil
}

// ==================== Treasury Store ====================

func (s *Store) TreasuryBalance(ctx context.Context, denom string) (int64, error) {
	var m treasuryModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": denom}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("economy/mongo: treasury balance: %w", err)
	}
	return m.Balance, nil
}

func (s *Store) TreasuryCredit(ctx context.Context, denom string, amount int64) error {
	_, err := s.mdb.NewUpdate((*treasuryModel)(nil)).
		Filter(bson.M{"_id": denom}).
		SetUpdate(bson.M{"$inc": bson.M{"balance": amount}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: treasury credit: %w", err)
	}
	return nil
}

func (s *Store) TreasuryDebit(ctx context.Context, denom string, amount int64) error {
	res, err := s.mdb.NewUpdate((*treasuryModel)(nil)).
		Filter(bson.M{"_id": denom, "balance": bson.M{"$gte": amount}}).
		SetUpdate(bson.M{"$inc": bson.M{"balance": -amount}}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: treasury debit: %w", err)
	}
	if res.MatchedCount() == 0 {
		return economy.ErrTreasuryInsufficient
	}
	return nil
}

// ==================== Governance Store ====================

func (s *Store) CreateProposal(ctx context.Context, p *governance.Proposal) error {
	m := toProposalModel(p)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("economy/mongo: create proposal: %w", err)
	}
	return nil
}

func (s *Store) GetProposal(ctx context.Context, propID id.ProposalID) (*governance.Proposal, error) {
	var m proposalModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": propID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, economy.ErrProposalNotFound
		}
		return nil, fmt.Errorf("economy/mongo: get proposal: %w", err)
	}
	return fromProposalModel(&m)
}

func (s *Store) UpdateProposal(ctx context.Context, p *governance.Proposal) error {
	m := toProposalModel(p)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("economy/mongo: update proposal: %w", err)
	}
	if res.MatchedCount() == 0 {
		return economy.ErrProposalNotFound
	}
	return nil
}

func (s *Store) ListProposals(ctx context.Context, opts governance.ListOpts) ([]*governance.Proposal, error) {
	var models []proposalModel

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("economy/mongo: list proposals: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all economy collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colProtocol: {},
		colCapabilities: {
			{Keys: bson.D{{Key: "address", Value: 1}}},
		},
		colBalances: {},
		colSupply:   {},
		colAllowances: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		colRates: {},
		colAirdrops: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "batch_id", Value: 1}}},
		},
		colUsage: {
			{Keys: bson.D{{Key: "consumer", Value: 1}, {Key: "created_at", Value: 1}, {Key: "sequence", Value: 1}}},
			{Keys: bson.D{{Key: "provider", Value: 1}}},
		},
		colSettlements: {
			{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "status", Value: 1}}},
		},
		colStakes:   {},
		colTreasury: {},
		colProposals: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}
}
