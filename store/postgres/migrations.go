package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Economy store.
// The group is append-only: upgraded engines run against the same schema
// plus whatever later migrations add.
var Migrations = migrate.NewGroup("economy")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_economy_protocol",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_protocol (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL DEFAULT '',
    symbol         TEXT NOT NULL DEFAULT '',
    admin          TEXT NOT NULL DEFAULT '',
    treasury       TEXT NOT NULL DEFAULT '',
    liquidity_pool TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS economy_protocol`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_economy_capabilities",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_capabilities (
    address    TEXT NOT NULL,
    capability TEXT NOT NULL,
    granted_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (address, capability)
);

CREATE INDEX IF NOT EXISTS idx_economy_caps_address ON economy_capabilities (address);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS economy_capabilities`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_economy_token_tables",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_balances (
    address TEXT PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS economy_supply (
    id     TEXT PRIMARY KEY,
    supply BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS economy_allowances (
    owner   TEXT NOT NULL,
    spender TEXT NOT NULL,
    amount  BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (owner, spender)
);

CREATE TABLE IF NOT EXISTS economy_minting_rates (
    model TEXT PRIMARY KEY,
    rate  BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS economy_airdrops (
    id        TEXT PRIMARY KEY,
    batch_id  TEXT NOT NULL DEFAULT '',
    recipient TEXT NOT NULL DEFAULT '',
    amount    BIGINT NOT NULL DEFAULT 0,
    reason    TEXT NOT NULL DEFAULT '',
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_economy_airdrops_recipient ON economy_airdrops (recipient, timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS economy_airdrops;
DROP TABLE IF EXISTS economy_minting_rates;
DROP TABLE IF EXISTS economy_allowances;
DROP TABLE IF EXISTS economy_supply;
DROP TABLE IF EXISTS economy_balances;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_economy_usage_records",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_usage_records (
    hash             TEXT PRIMARY KEY,
    model            TEXT NOT NULL DEFAULT '',
    prompt_units     BIGINT NOT NULL DEFAULT 0,
    completion_units BIGINT NOT NULL DEFAULT 0,
    consumer         TEXT NOT NULL DEFAULT '',
    provider         TEXT NOT NULL DEFAULT '',
    sequence         BIGINT NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_economy_usage_consumer ON economy_usage_records (consumer, created_at, sequence);
CREATE INDEX IF NOT EXISTS idx_economy_usage_provider ON economy_usage_records (provider);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS economy_usage_records`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_economy_settlements",
			Version: "20250101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_settlements (
    usage_hash     TEXT PRIMARY KEY,
    consumer       TEXT NOT NULL DEFAULT '',
    provider       TEXT NOT NULL DEFAULT '',
    amount         BIGINT NOT NULL DEFAULT 0,
    status         INT NOT NULL DEFAULT 0,
    dispute_reason TEXT NOT NULL DEFAULT '',
    resolved_at    TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_economy_settlements_provider ON economy_settlements (provider, created_at);
CREATE INDEX IF NOT EXISTS idx_economy_settlements_status ON economy_settlements (provider, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS economy_settlements`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_economy_stakes_treasury",
			Version: "20250101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_stakes (
    provider   TEXT PRIMARY KEY,
    amount     BIGINT NOT NULL DEFAULT 0,
    tier       INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS economy_treasury (
    denom   TEXT PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS economy_treasury;
DROP TABLE IF EXISTS economy_stakes;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_economy_proposals",
			Version: "20250101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS economy_proposals (
    id               TEXT PRIMARY KEY,
    proposer         TEXT NOT NULL DEFAULT '',
    description      TEXT NOT NULL DEFAULT '',
    actions          JSONB NOT NULL DEFAULT '[]',
    status           TEXT NOT NULL DEFAULT 'pending',
    voting_starts_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    voting_ends_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    eta              TIMESTAMPTZ,
    for_votes        BIGINT NOT NULL DEFAULT 0,
    against_votes    BIGINT NOT NULL DEFAULT 0,
    voters           JSONB NOT NULL DEFAULT '{}',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_economy_proposals_status ON economy_proposals (status, created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS economy_proposals`)
				return err
			},
		},
	)
}
