package migration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ValidatorRecord is a validator as exported by the source ledger
type ValidatorRecord struct {
	OperatorAddress string `json:"operator_address"`
	DelegatorShares string `json:"delegator_shares"`
	Tokens          string `json:"tokens"`
}

// DelegationRecord is a delegation as exported by the source ledger
type DelegationRecord struct {
	DelegatorAddress string `json:"delegator_address"`
	ValidatorAddress string `json:"validator_address"`
	Shares           string `json:"shares"`
}

// Snapshot is the part of an exported source genesis the migration reads.
type Snapshot struct {
	Validators  []ValidatorRecord
	Delegations []DelegationRecord
}

type exportedGenesis struct {
	AppState *struct {
		Staking *struct {
			Validators  []ValidatorRecord  `json:"validators"`
			Delegations []DelegationRecord `json:"delegations"`
		} `json:"staking"`
	} `json:"app_state"`
}

// ParseSnapshot extracts validators and delegations from an exported genesis.
// Both arrays must be present; they may be empty.
func ParseSnapshot(data []byte) (Snapshot, error) {
	if !utf8.Valid(data) {
		return Snapshot{}, fmt.Errorf("%w: exported genesis: invalid UTF-8", ErrParse)
	}

	var exported exportedGenesis
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&exported); err != nil {
		return Snapshot{}, fmt.Errorf("%w: exported genesis: %w", ErrParse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("%w: exported genesis: trailing data after document", ErrParse)
	}

	switch {
	case exported.AppState == nil:
		return Snapshot{}, fmt.Errorf("%w: %w: app_state", ErrParse, ErrMissingField)
	case exported.AppState.Staking == nil:
		return Snapshot{}, fmt.Errorf("%w: %w: app_state.staking", ErrParse, ErrMissingField)
	case exported.AppState.Staking.Validators == nil:
		return Snapshot{}, fmt.Errorf("%w: %w: app_state.staking.validators", ErrParse, ErrMissingField)
	case exported.AppState.Staking.Delegations == nil:
		return Snapshot{}, fmt.Errorf("%w: %w: app_state.staking.delegations", ErrParse, ErrMissingField)
	}

	snap := Snapshot{
		Validators:  exported.AppState.Staking.Validators,
		Delegations: exported.AppState.Staking.Delegations,
	}

	for i, v := range snap.Validators {
		if err := requireFields(
			field{"operator_address", v.OperatorAddress},
			field{"delegator_shares", v.DelegatorShares},
			field{"tokens", v.Tokens},
		); err != nil {
			return Snapshot{}, fmt.Errorf("validator %d: %w", i, err)
		}
	}
	for i, d := range snap.Delegations {
		if err := requireFields(
			field{"delegator_address", d.DelegatorAddress},
			field{"validator_address", d.ValidatorAddress},
			field{"shares", d.Shares},
		); err != nil {
			return Snapshot{}, fmt.Errorf("delegation %d: %w", i, err)
		}
	}

	return snap, nil
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %w: %s", ErrParse, ErrMissingField, f.name)
		}
	}
	return nil
}
