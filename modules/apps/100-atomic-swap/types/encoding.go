package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"
)

// mustMarshalCanonicalJSON returns the JSON encoding of v. Struct fields are encoded
// in declaration order, so two equal values always encode to the same bytes.
// NOTE: sdk.MustSortJSON is not used as it round trips numbers through float64 and
// would corrupt nanosecond timestamps.
func mustMarshalCanonicalJSON(v any) []byte {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("failed to marshal %T: %w", v, err))
	}

	return bz
}

// unmarshalStrictJSON decodes bz into v rejecting unknown fields and trailing data.
func unmarshalStrictJSON(bz []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(bz))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot unmarshal %T: %v", v, err)
	}
	if decoder.More() {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "trailing data after %T", v)
	}

	return nil
}

// MustMarshalOrder returns the store encoding of an order.
func MustMarshalOrder(order Order) []byte {
	return mustMarshalCanonicalJSON(order)
}

// UnmarshalOrder decodes an order from its store encoding.
func UnmarshalOrder(bz []byte) (Order, error) {
	var order Order
	if err := unmarshalStrictJSON(bz, &order); err != nil {
		return Order{}, err
	}

	return order, nil
}

// MustUnmarshalOrder decodes an order from its store encoding and panics on failure.
func MustUnmarshalOrder(bz []byte) Order {
	order, err := UnmarshalOrder(bz)
	if err != nil {
		panic(err)
	}

	return order
}

// MustMarshalGenesis returns the JSON encoding of a genesis state.
func MustMarshalGenesis(gs GenesisState) []byte {
	return mustMarshalCanonicalJSON(gs)
}

// UnmarshalGenesis decodes a genesis state from its JSON encoding.
func UnmarshalGenesis(bz []byte) (GenesisState, error) {
	var gs GenesisState
	if err := unmarshalStrictJSON(bz, &gs); err != nil {
		return GenesisState{}, err
	}

	return gs, nil
}
