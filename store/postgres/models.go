package postgres

import (
	"encoding/json"
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

// protocolKey is the primary key of the single protocol row.
const protocolKey = "protocol"

type protocolModel struct {
	grove.BaseModel `grove:"table:economy_protocol"`

	ID            string    `grove:"id,pk"`
	Name          string    `grove:"name"`
	Symbol        string    `grove:"symbol"`
	Admin         string    `grove:"admin"`
	Treasury      string    `grove:"treasury"`
	LiquidityPool string    `grove:"liquidity_pool"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
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

type grantModel struct {
	grove.BaseModel `grove:"table:economy_capabilities"`

	Address    string    `grove:"address,pk"`
	Capability string    `grove:"capability,pk"`
	GrantedBy  string    `grove:"granted_by"`
	CreatedAt  time.Time `grove:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"`
}

// ==================== Token models ====================

type balanceModel struct {
	grove.BaseModel `grove:"table:economy_balances"`

	Address string `grove:"address,pk"`
	Balance int64  `grove:"balance"`
}

// supplyKey is the primary key of the single supply row.
const supplyKey = "total"

type supplyModel struct {
	grove.BaseModel `grove:"table:economy_supply"`

	ID     string `grove:"id,pk"`
	Supply int64  `grove:"supply"`
}

type allowanceModel struct {
	grove.BaseModel `grove:"table:economy_allowances"`

	Owner   string `grove:"owner,pk"`
	Spender string `grove:"spender,pk"`
	Amount  int64  `grove:"amount"`
}

type rateModel struct {
	grove.BaseModel `grove:"table:economy_minting_rates"`

	Model string `grove:"model,pk"`
	Rate  int64  `grove:"rate"`
}

type airdropModel struct {
	grove.BaseModel `grove:"table:economy_airdrops"`

	ID        string    `grove:"id,pk"`
	BatchID   string    `grove:"batch_id"`
	Recipient string    `grove:"recipient"`
	Amount    int64     `grove:"amount"`
	Reason    string    `grove:"reason"`
	Timestamp time.Time `grove:"timestamp"`
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

	Hash            string    `grove:"hash,pk"`
	Model           string    `grove:"model"`
	PromptUnits     int64     `grove:"prompt_units"`
	CompletionUnits int64     `grove:"completion_units"`
	Consumer        string    `grove:"consumer"`
	Provider        string    `grove:"provider"`
	Sequence        uint64    `grove:"sequence"`
	CreatedAt       time.Time `grove:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"`
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

	UsageHash     string     `grove:"usage_hash,pk"`
	Consumer      string     `grove:"consumer"`
	Provider      string     `grove:"provider"`
	Amount        int64      `grove:"amount"`
	Status        int        `grove:"status"`
	DisputeReason string     `grove:"dispute_reason"`
	ResolvedAt    *time.Time `grove:"resolved_at"`
	CreatedAt     time.Time  `grove:"created_at"`
	UpdatedAt     time.Time  `grove:"updated_at"`
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

	Provider  string    `grove:"provider,pk"`
	Amount    int64     `grove:"amount"`
	Tier      int       `grove:"tier"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
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

	Denom   string `grove:"denom,pk"`
	Balance int64  `grove:"balance"`
}

// ==================== Governance model ====================

type proposalModel struct {
	grove.BaseModel `grove:"table:economy_proposals"`

	ID             string          `grove:"id,pk"`
	Proposer       string          `grove:"proposer"`
	Description    string          `grove:"description"`
	Actions        json.RawMessage `grove:"actions,type:jsonb"`
	Status         string          `grove:"status"`
	VotingStartsAt time.Time       `grove:"voting_starts_at"`
	VotingEndsAt   time.Time       `grove:"voting_ends_at"`
	ETA            *time.Time      `grove:"eta"`
	ForVotes       int64           `grove:"for_votes"`
	AgainstVotes   int64           `grove:"against_votes"`
	Voters         json.RawMessage `grove:"voters,type:jsonb"`
	CreatedAt      time.Time       `grove:"created_at"`
	UpdatedAt      time.Time       `grove:"updated_at"`
}

func toProposalModel(p *governance.Proposal) (*proposalModel, error) {
	actions, err := json.Marshal(p.Actions)
	if err != nil {
		return nil, err
	}
	voters, err := json.Marshal(p.Voters)
	if err != nil {
		return nil, err
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
	}, nil
}

func fromProposalModel(m *proposalModel) (*governance.Proposal, error) {
	propID, err := id.ParseProposalID(m.ID)
	if err != nil {
		return nil, err
	}

	var actions []governance.Action
	if len(m.Actions) > 0 {
		if err := json.Unmarshal(m.Actions, &actions); err != nil {
			return nil, err
		}
	}
	voters := make(map[string]bool)
	if len(m.Voters) > 0 {
		if err := json.Unmarshal(m.Voters, &voters); err != nil {
			return nil, err
		}
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
