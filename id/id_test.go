package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/economy/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"ProposalID", id.NewProposalID, "prop_"},
		{"AirdropID", id.NewAirdropID, "drop_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixProposal)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixProposal {
		t.Errorf("expected prefix %q, got %q", id.PrefixProposal, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"ProposalID", id.NewProposalID, id.ParseProposalID},
		{"AirdropID", id.NewAirdropID, id.ParseAirdropID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round trip: got %q, want %q", parsed.String(), original.String())
			}
		})
	}
}

func TestParseWrongPrefix(t *testing.T) {
	proposal := id.NewProposalID()
	if _, err := id.ParseAirdropID(proposal.String()); err == nil {
		t.Error("expected error parsing proposal ID as airdrop ID")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"",
		"not-a-typeid",
		"prop_",
		"prop_!!!!",
	}

	for _, s := range tests {
		if _, err := id.Parse(s); err == nil {
			t.Errorf("expected error parsing %q", s)
		}
	}
}

func TestNilID(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Error("expected Nil to be nil")
	}
	if id.Nil.String() != "" {
		t.Errorf("expected empty string, got %q", id.Nil.String())
	}
	if id.Nil.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", id.Nil.Prefix())
	}
}

func TestTextMarshaling(t *testing.T) {
	original := id.NewAirdropID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", decoded.String(), original.String())
	}
}

func TestSQLRoundTrip(t *testing.T) {
	original := id.NewProposalID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded id.ID
	if err := decoded.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", decoded.String(), original.String())
	}

	// Nil maps to NULL.
	nv, err := id.Nil.Value()
	if err != nil {
		t.Fatalf("nil value: %v", err)
	}
	if nv != nil {
		t.Errorf("expected NULL for Nil ID, got %v", nv)
	}

	var fromNull id.ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !fromNull.IsNil() {
		t.Error("expected Nil after scanning NULL")
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := id.NewProposalID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}
