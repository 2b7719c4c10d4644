package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
)

// BankKeeper defines the expected bank keeper: the ledger holding balances and performing
// atomic all-or-nothing transfers.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	GetSupply(ctx context.Context, denom string) sdk.Coin
	BlockedAddr(addr sdk.AccAddress) bool
}

// ChannelKeeper defines the expected IBC channel keeper
type ChannelKeeper interface {
	GetChannel(ctx sdk.Context, srcPort, srcChan string) (channel channeltypes.Channel, found bool)
	GetAllChannelsWithPortPrefix(ctx sdk.Context, portPrefix string) []channeltypes.IdentifiedChannel
}

// OrderStore persists the chain local copies of orders keyed by local channel and order id.
type OrderStore interface {
	// GetOrder returns the order stored under channelID and orderID.
	GetOrder(ctx context.Context, channelID, orderID string) (Order, bool)
	// SetOrder inserts or overwrites an order.
	SetOrder(ctx context.Context, channelID string, order Order)
	// CreateOrder inserts an order and fails with ErrOrderConflict if one already exists.
	CreateOrder(ctx context.Context, channelID string, order Order) error
	// IterateOrders calls cb for every stored order until cb returns true.
	IterateOrders(ctx context.Context, cb func(channelID string, order Order) (stop bool))
}
