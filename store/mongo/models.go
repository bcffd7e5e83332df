package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/types"
	"github.com/xraph/economy/usage"
)

// ==================== Protocol model ====================

// protocolKey is the document id of the single protocol document.
const protocolKey = "protocol"

type protocolModel struct {
	grove.BaseModel `grove:"table:economy_protocol"`

	ID            string    `grove:"id,pk"          bson:"_id"`
	Name          string    `grove:"name"           bson:"name"`
	Symbol        string    `grove:"symbol"         bson:"symbol"`
	Admin         string    `grove:"admin"          bson:"admin"`
	Treasury      string    `grove:"treasury"       bson:"treasury"`
	LiquidityPool string    `grove:"liquidity_pool" bson:"liquidity_pool"`
	CreatedAt     time.Time `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"     bson:"updated_at"`
}

func toProtocolModel(m *token.Metadata) *protocolModel {
	return &protocolModel{
		ID:            protocolKey,
		Name:          m.Name,
		Symbol:        m.Symbol,
		Admin:         m.Admin,
		Treasury:      m.Treasury,
		LiquidityPool: m.LiquidityPool,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromProtocolModel(m *protocolModel) *token.Metadata {
	return &token.Metadata{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Name:          m.Name,
		Symbol:        m.Symbol,
		Admin:         m.Admin,
		Treasury:      m.Treasury,
		LiquidityPool: m.LiquidityPool,
	}
}

// ==================== Authority model ====================

// Grants use a composite document id of "address:capability".
type grantModel struct {
	grove.BaseModel `grove:"table:economy_capabilities"`

	ID         string    `grove:"id,pk"      bson:"_id"`
	Address    string    `grove:"address"    bson:"address"`
	Capability string    `grove:"capability" bson:"capability"`
	GrantedBy  string    `grove:"granted_by" bson:"granted_by"`
	CreatedAt  time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at" bson:"updated_at"`
}

func grantKey(address, capability string) string {
	return address + ":" + capability
}

// ==================== Token models ====================

type balanceModel struct {
	grove.BaseModel `grove:"table:economy_balances"`

	Address string `grove:"address,pk" bson:"_id"`
	Balance int64  `grove:"balance"    bson:"balance"`
}

// supplyKey is the document id of the single supply document.
const supplyKey = "total"

type supplyModel struct {
	grove.BaseModel `grove:"table:economy_supply"`

	ID     string `grove:"id,pk"  bson:"_id"`
	Supply int64  `grove:"supply" bson:"supply"`
}

// Allowances use a composite document id of "owner:spender".
type allowanceModel struct {
	grove.BaseModel `grove:"table:economy_allowances"`

	ID      string `grove:"id,pk"   bson:"_id"`
	Owner   string `grove:"owner"   bson:"owner"`
	Spender string `grove:"spender" bson:"spender"`
	Amount  int64  `grove:"amount"  bson:"amount"`
}

func allowanceKey(owner, spender string) string {
	return owner + ":" + spender
}

type rateModel struct {
	grove.BaseModel `grove:"table:economy_minting_rates"`

	Model string `grove:"model,pk" bson:"_id"`
	Rate  int64  `grove:"rate"     bson:"rate"`
}

type airdropModel struct {
	grove.BaseModel `grove:"table:economy_airdrops"`

	ID        string    `grove:"id,pk"     bson:"_id"`
	BatchID   string    `grove:"batch_id"  bson:"batch_id"`
	Recipient string    `grove:"recipient" bson:"recipient"`
	Amount    int64     `grove:"amount"    bson:"amount"`
	Reason    string    `grove:"reason"    bson:"reason"`
	Timestamp time.Time `grove:"timestamp" bson:"timestamp"`
}

func fromAirdropModel(m *airdropModel) (*token.AirdropEvent, error) {
	batchID, err := id.ParseAirdropID(m.BatchID)
	if err != nil {
		return nil, err
	}
	return &token.AirdropEvent{
		BatchID:   batchID,
		Recipient: m.Recipient,
		Amount:    types.Share(m.Amount),
		Reason:    m.Reason,
		Timestamp: m.Timestamp,
	}, nil
}

// ==================== Usage model ====================

type usageModel struct {
	grove.BaseModel `grove:"table:economy_usage_records"`

	Hash            string    `grove:"hash,pk"          bson:"_id"`
	Model           string    `grove:"model"            bson:"model"`
	PromptUnits     int64     `grove:"prompt_units"     bson:"prompt_units"`
	CompletionUnits int64     `grove:"completion_units" bson:"completion_units"`
	Consumer        string    `grove:"consumer"         bson:"consumer"`
	Provider        string    `grove:"provider"         bson:"provider"`
	Sequence        uint64    `grove:"sequence"         bson:"sequence"`
	CreatedAt       time.Time `grove:"created_at"       bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"       bson:"updated_at"`
}

func toUsageModel(r *usage.Record) *usageModel {
	return &usageModel{
		Hash:            r.Hash,
		Model:           r.Model,
		PromptUnits:     r.PromptUnits,
		CompletionUnits: r.CompletionUnits,
		Consumer:        r.Consumer,
		Provider:        r.Provider,
		Sequence:        r.Sequence,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func fromUsageModel(m *usageModel) *usage.Record {
	return &usage.Record{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Hash:            m.Hash,
		Model:           m.Model,
		PromptUnits:     m.PromptUnits,
		CompletionUnits: m.CompletionUnits,
		Consumer:        m.Consumer,
		Provider:        m.Provider,
		Sequence:        m.Sequence,
	}
}

// ==================== Settlement model ====================

type settlementModel struct {
	grove.BaseModel `grove:"table:economy_settlements"`

	UsageHash     string     `grove:"usage_hash,pk"  bson:"_id"`
	Consumer      string     `grove:"consumer"       bson:"consumer"`
	Provider      string     `grove:"provider"       bson:"provider"`
	Amount        int64      `grove:"amount"         bson:"amount"`
	Status        int        `grove:"status"         bson:"status"`
	DisputeReason string     `grove:"dispute_reason" bson:"dispute_reason"`
	ResolvedAt    *time.Time `grove:"resolved_at"    bson:"resolved_at,omitempty"`
	CreatedAt     time.Time  `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time  `grove:"updated_at"     bson:"updated_at"`
}

func toSettlementModel(s *settlement.Settlement) *settlementModel {
	return &settlementModel{
		UsageHash:     s.UsageHash,
		Consumer:      s.Consumer,
		Provider:      s.Provider,
		Amount:        s.Amount,
		Status:        int(s.Status),
		DisputeReason: s.DisputeReason,
		ResolvedAt:    s.ResolvedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func fromSettlementModel(m *settlementModel) *settlement.Settlement {
	return &settlement.Settlement{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UsageHash:     m.UsageHash,
		Consumer:      m.Consumer,
		Provider:      m.Provider,
		Amount:        m.Amount,
		Status:        settlement.Status(m.Status),
		DisputeReason: m.DisputeReason,
		ResolvedAt:    m.ResolvedAt,
	}
}

// ==================== Staking model ====================

type stakeModel struct {
	grove.BaseModel `grove:"table:economy_stakes"`

	Provider  string    `grove:"provider,pk" bson:"_id"`
	Amount    int64     `grove:"amount"      bson:"amount"`
	Tier      int       `grove:"tier"        bson:"tier"`
	CreatedAt time.Time `grove:"created_at"  bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"  bson:"updated_at"`
}

func toStakeModel(p *staking.Position) *stakeModel {
	return &stakeModel{
		Provider:  p.Provider,
		Amount:    p.Amount,
		Tier:      p.Tier,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromStakeModel(m *stakeModel) *staking.Position {
	return &staking.Position{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Provider: m.Provider,
		Amount:   m.Amount,
		Tier:     m.Tier,
	}
}

// ==================== Treasury model ====================

type treasuryModel struct {
	grove.BaseModel `grove:"table:economy_treasury"`

	Denom   string `grove:"denom,pk" bson:"_id"`
	Balance int64  `grove:"balance"  bson:"balance"`
}

// ==================== Governance model ====================

type actionModel struct {
	Kind    string `bson:"kind"`
	Model   string `bson:"model,omitempty"`
	Rate    int64  `bson:"rate,omitempty"`
	Address string `bson:"address,omitempty"`
	Denom   string `bson:"denom,omitempty"`
	Amount  int64  `bson:"amount,omitempty"`
}

type proposalModel struct {
	grove.BaseModel `grove:"table:economy_proposals"`

	ID             string          `grove:"id,pk"            bson:"_id"`
	Proposer       string          `grove:"proposer"         bson:"proposer"`
	Description    string          `grove:"description"      bson:"description"`
	Actions        []actionModel   `grove:"actions"          bson:"actions"`
	Status         string          `grove:"status"           bson:"status"`
	VotingStartsAt time.Time       `grove:"voting_starts_at" bson:"voting_starts_at"`
	VotingEndsAt   time.Time       `grove:"voting_ends_at"   bson:"voting_ends_at"`
	ETA            *time.Time      `grove:"eta"              bson:"eta,omitempty"`
	ForVotes       int64           `grove:"for_votes"        bson:"for_votes"`
	AgainstVotes   int64           `grove:"against_votes"    bson:"against_votes"`
	Voters         map[string]bool `grove:"voters"           bson:"voters"`
	CreatedAt      time.Time       `grove:"created_at"       bson:"created_at"`
	UpdatedAt      time.Time       `grove:"updated_at"       bson:"updated_at"`
}

func toProposalModel(p *governance.Proposal) *proposalModel {
	actions := make([]actionModel, len(p.Actions))
	for i, a := range p.Actions {
		actions[i] = actionModel{
			Kind:    string(a.Kind),
			Model:   a.Model,
			Rate:    a.Rate,
			Address: a.Address,
			Denom:   a.Denom,
			Amount:  a.Amount,
		}
	}
	voters := make(map[string]bool, len(p.Voters))
	for k, v := range p.Voters {
		voters[k] = v
	}
	return &proposalModel{
		ID:             p.ID.String(),
		Proposer:       p.Proposer,
		Description:    p.Description,
		Actions:        actions,
		Status:         string(p.Status),
		VotingStartsAt: p.VotingStartsAt,
		VotingEndsAt:   p.VotingEndsAt,
		ETA:            p.ETA,
		ForVotes:       p.ForVotes,
		AgainstVotes:   p.AgainstVotes,
		Voters:         voters,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromProposalModel(m *proposalModel) (*governance.Proposal, error) {
	propID, err := id.ParseProposalID(m.ID)
	if err != nil {
		return nil, err
	}

	actions := make([]governance.Action, len(m.Actions))
	for i, a := range m.Actions {
		actions[i] = governance.Action{
			Kind:    governance.ActionKind(a.Kind),
			Model:   a.Model,
			Rate:    a.Rate,
			Address: a.Address,
			Denom:   a.Denom,
			Amount:  a.Amount,
		}
	}
	voters := make(map[string]bool, len(m.Voters))
	for k, v := range m.Voters {
		voters[k] = v
	}

	return &governance.Proposal{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             propID,
		Proposer:       m.Proposer,
		Description:    m.Description,
		Actions:        actions,
		Status:         governance.Status(m.Status),
		VotingStartsAt: m.VotingStartsAt,
		VotingEndsAt:   m.VotingEndsAt,
		ETA:            m.ETA,
		ForVotes:       m.ForVotes,
		AgainstVotes:   m.AgainstVotes,
		Voters:         voters,
	}, nil
}
