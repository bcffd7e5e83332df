package economy

import (
	"context"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/types"
)

// ──────────────────────────────────────────────────
// Capability Management
// ──────────────────────────────────────────────────

// GrantCapability grants a capability to an address. The caller must hold
// the admin capability.
func (e *Economy) GrantCapability(ctx context.Context, cap authority.Capability, address string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityAdmin); err != nil {
		return err
	}
	if !cap.Valid() {
		return ErrInvalidCapability
	}
	if address == "" {
		return ErrInvalidAddress
	}

	grant := &authority.Grant{
		Entity:     types.NewEntityAt(e.now()),
		Capability: cap,
		Address:    address,
		GrantedBy:  caller,
	}
	if err := e.store.GrantCapability(ctx, grant); err != nil {
		return err
	}

	e.plugins.EmitCapabilityGranted(ctx, grant)
	e.logger.Info("capability granted",
		"capability", cap,
		"address", address,
		"granted_by", caller,
	)
	return nil
}

// RevokeCapability revokes a capability from an address. The caller must
// hold the admin capability.
func (e *Economy) RevokeCapability(ctx context.Context, cap authority.Capability, address string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityAdmin); err != nil {
		return err
	}
	if !cap.Valid() {
		return ErrInvalidCapability
	}

	if err := e.store.RevokeCapability(ctx, address, cap); err != nil {
		return err
	}

	e.plugins.EmitCapabilityRevoked(ctx, address, cap)
	e.logger.Info("capability revoked",
		"capability", cap,
		"address", address,
		"revoked_by", caller,
	)
	return nil
}

// HasCapability reports whether an address holds a capability.
func (e *Economy) HasCapability(ctx context.Context, cap authority.Capability, address string) (bool, error) {
	return e.store.HasCapability(ctx, address, cap)
}

// CapabilitiesOf returns all capabilities held by an address, in canonical
// order.
func (e *Economy) CapabilitiesOf(ctx context.Context, address string) ([]authority.Capability, error) {
	return e.store.CapabilitiesOf(ctx, address)
}
