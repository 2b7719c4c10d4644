package types

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
)

// GenesisOrder is an order together with the local channel it is stored under.
type GenesisOrder struct {
	ChannelId string `json:"channel_id"`
	Order     Order  `json:"order"`
}

// GenesisState defines the atomic swap module's genesis state.
type GenesisState struct {
	PortId        string         `json:"port_id"`
	Params        Params         `json:"params"`
	Orders        []GenesisOrder `json:"orders"`
	TotalEscrowed sdk.Coins      `json:"total_escrowed"`
}

// NewGenesisState creates a new atomic swap GenesisState instance.
func NewGenesisState(portID string, params Params, orders []GenesisOrder, totalEscrowed sdk.Coins) *GenesisState {
	return &GenesisState{
		PortId:        portID,
		Params:        params,
		Orders:        orders,
		TotalEscrowed: totalEscrowed,
	}
}

// DefaultGenesisState returns a GenesisState with "swap" as the default PortID.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		PortId:        PortID,
		Params:        DefaultParams(),
		Orders:        []GenesisOrder{},
		TotalEscrowed: sdk.Coins{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := host.PortIdentifierValidator(gs.PortId); err != nil {
		return err
	}

	seen := make(map[string]bool, len(gs.Orders))
	for _, entry := range gs.Orders {
		if err := host.ChannelIdentifierValidator(entry.ChannelId); err != nil {
			return err
		}
		if err := entry.Order.Validate(); err != nil {
			return err
		}

		key := string(OrderKey(entry.ChannelId, entry.Order.Id))
		if seen[key] {
			return errorsmod.Wrapf(ErrOrderConflict, "duplicate order %s on channel %s", entry.Order.Id, entry.ChannelId)
		}
		seen[key] = true
	}

	return gs.TotalEscrowed.Validate() // will fail if there are duplicates for any denom
}
