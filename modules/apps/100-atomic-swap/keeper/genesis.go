package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// InitGenesis initializes the atomic swap state and binds to PortID.
func (k Keeper) InitGenesis(ctx sdk.Context, state types.GenesisState) {
	if err := k.BindPort(ctx, state.PortId); err != nil {
		panic(fmt.Errorf("could not bind port %s: %w", state.PortId, err))
	}

	k.SetParams(ctx, state.Params)

	for _, entry := range state.Orders {
		if err := k.orders.CreateOrder(ctx, entry.ChannelId, entry.Order); err != nil {
			panic(err)
		}
	}

	// Every denom will have only one total escrow amount, since any
	// duplicate entry will fail validation in Validate of GenesisState
	for _, denomEscrow := range state.TotalEscrowed {
		k.SetTotalEscrowForDenom(ctx, denomEscrow)
	}
}

// ExportGenesis exports the atomic swap module's portID, params, orders and escrow totals
// into its genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		PortId:        k.GetPort(ctx),
		Params:        k.GetParams(ctx),
		Orders:        k.GetAllOrders(ctx),
		TotalEscrowed: k.GetAllTotalEscrowed(ctx),
	}
}
