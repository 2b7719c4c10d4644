package keeper

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// RegisterInvariants registers all atomic swap invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "total-escrow-per-denom",
		TotalEscrowPerDenomInvariants(k))
	ir.RegisterRoute(types.ModuleName, "order-consistency",
		OrderConsistencyInvariants(k))
}

// AllInvariants runs all invariants of the atomic swap module.
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := TotalEscrowPerDenomInvariants(k)(ctx)
		if stop {
			return res, stop
		}
		return OrderConsistencyInvariants(k)(ctx)
	}
}

// TotalEscrowPerDenomInvariants checks that the total amount escrowed for
// each denom is not smaller than the amount stored in the state entry.
func TotalEscrowPerDenomInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var actualTotalEscrowed sdk.Coins

		expectedTotalEscrowed := k.GetAllTotalEscrowed(ctx)

		portID := k.GetPort(ctx)
		swapChannels := k.channelKeeper.GetAllChannelsWithPortPrefix(ctx, portID)
		for _, channel := range swapChannels {
			escrowAddress := k.GetEscrowAddress(portID, channel.ChannelId)
			escrowBalances := k.bankKeeper.GetAllBalances(ctx, escrowAddress)

			actualTotalEscrowed = actualTotalEscrowed.Add(escrowBalances...)
		}

		// the actual escrowed amount must be greater than or equal to the expected amount for all denominations
		if !actualTotalEscrowed.IsAllGTE(expectedTotalEscrowed) {
			return sdk.FormatInvariant(
				types.ModuleName,
				"total escrow per denom invariance",
				fmt.Sprintf("found denom(s) with total escrow amount lower than expected:\nactual total escrowed: %s\nexpected total escrowed: %s", actualTotalEscrowed, expectedTotalEscrowed)), true
		}

		return "", false
	}
}

// OrderConsistencyInvariants checks that every stored order is well formed: its id is
// derived from its maker request and a completed order records its taker and completion time.
func OrderConsistencyInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var broken []string

		k.orders.IterateOrders(ctx, func(channelID string, order types.Order) bool {
			if err := order.Validate(); err != nil {
				broken = append(broken, fmt.Sprintf("%s/%s: %v", channelID, order.Id, err))
			}
			return false
		})

		if len(broken) > 0 {
			return sdk.FormatInvariant(
				types.ModuleName,
				"order consistency",
				fmt.Sprintf("found %d inconsistent order(s):\n%s", len(broken), strings.Join(broken, "\n"))), true
		}

		return "", false
	}
}
