package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v10/modules/core/05-port/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/internal/events"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/internal/telemetry"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

var _ types.MsgServer = (*Keeper)(nil)

// MakeSwap defines an rpc handler method for MsgMakeSwapRequest. The sell token is
// escrowed, the order is stored in the INITIAL status and a make packet is sent.
func (k Keeper) MakeSwap(goCtx context.Context, msg *types.MsgMakeSwapRequest) (*types.MsgMakeSwapResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if !k.GetParams(ctx).SwapEnabled {
		return nil, types.ErrSwapDisabled
	}

	maker, err := sdk.AccAddressFromBech32(msg.MakerAddress)
	if err != nil {
		return nil, err
	}

	if boundPort := k.GetPort(ctx); boundPort != msg.SourcePort {
		return nil, errorsmod.Wrapf(porttypes.ErrInvalidPort, "invalid source port %s, module is bound to %s", msg.SourcePort, boundPort)
	}

	channel, found := k.channelKeeper.GetChannel(ctx, msg.SourcePort, msg.SourceChannel)
	if !found {
		return nil, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", msg.SourcePort, msg.SourceChannel)
	}

	if blockTime := uint64(ctx.BlockTime().Unix()); msg.ExpirationTimestamp <= blockTime {
		return nil, errorsmod.Wrapf(types.ErrOrderExpired, "expiration timestamp %d is not after block time %d", msg.ExpirationTimestamp, blockTime)
	}

	cacheCtx, writeFn := ctx.CacheContext()

	order := types.NewOrder(msg)
	sequence, err := k.makeSwap(cacheCtx, maker, order)
	if err != nil {
		return nil, err
	}

	writeFn()

	events.EmitMakeSwapEvent(ctx, order.Id, msg)
	telemetry.ReportMakeSwap(msg.SourcePort, msg.SourceChannel, channel.Counterparty.PortId, channel.Counterparty.ChannelId, msg.SellToken)

	k.Logger(ctx).Info("IBC atomic swap order created", "order", order.Id, "maker", msg.MakerAddress, "sell", msg.SellToken, "buy", msg.BuyToken)

	return &types.MsgMakeSwapResponse{OrderId: order.Id, Sequence: sequence}, nil
}

func (k Keeper) makeSwap(ctx sdk.Context, maker sdk.AccAddress, order types.Order) (uint64, error) {
	msg := order.Maker

	if err := k.checkBalance(ctx, maker, msg.SellToken); err != nil {
		return 0, err
	}

	escrowAddress := k.GetEscrowAddress(msg.SourcePort, msg.SourceChannel)
	if err := k.escrowToken(ctx, maker, escrowAddress, msg.SellToken); err != nil {
		return 0, err
	}

	if err := k.orders.CreateOrder(ctx, msg.SourceChannel, order); err != nil {
		return 0, err
	}

	packetData := types.NewAtomicSwapPacketData(msg, "")
	return k.ics4Wrapper.SendPacket(ctx, msg.SourcePort, msg.SourceChannel, msg.TimeoutHeight, msg.TimeoutTimestamp, packetData.GetBytes())
}

// TakeSwap defines an rpc handler method for MsgTakeSwapRequest. The taker's sell token
// is escrowed, the order is marked as occupied and a take packet is sent to the maker chain.
func (k Keeper) TakeSwap(goCtx context.Context, msg *types.MsgTakeSwapRequest) (*types.MsgTakeSwapResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if !k.GetParams(ctx).SwapEnabled {
		return nil, types.ErrSwapDisabled
	}

	taker, err := sdk.AccAddressFromBech32(msg.TakerAddress)
	if err != nil {
		return nil, err
	}

	order, found := k.orders.GetOrder(ctx, msg.SourceChannel, msg.OrderId)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, msg.SourceChannel)
	}

	// the maker chain copy shares the id and may share the channel id with the taker copy
	if err := order.RequireSide(types.SideTaker); err != nil {
		return nil, err
	}

	if err := k.validateTake(ctx, order, msg); err != nil {
		return nil, err
	}

	if order.ChannelIdOnCounterpartyChain != msg.SourceChannel {
		return nil, errorsmod.Wrapf(types.ErrWrongChannel, "order %s is bound to channel %s, not %s", order.Id, order.ChannelIdOnCounterpartyChain, msg.SourceChannel)
	}

	channel, found := k.channelKeeper.GetChannel(ctx, order.PortIdOnCounterpartyChain, msg.SourceChannel)
	if !found {
		return nil, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", order.PortIdOnCounterpartyChain, msg.SourceChannel)
	}

	cacheCtx, writeFn := ctx.CacheContext()

	sequence, err := k.takeSwap(cacheCtx, taker, order, msg)
	if err != nil {
		return nil, err
	}

	writeFn()

	events.EmitTakeSwapEvent(ctx, msg)
	telemetry.ReportTakeSwap(order.PortIdOnCounterpartyChain, msg.SourceChannel, channel.Counterparty.PortId, channel.Counterparty.ChannelId, msg.SellToken)

	k.Logger(ctx).Info("IBC atomic swap order taken", "order", order.Id, "taker", msg.TakerAddress, "sell", msg.SellToken)

	return &types.MsgTakeSwapResponse{Sequence: sequence}, nil
}

func (k Keeper) takeSwap(ctx sdk.Context, taker sdk.AccAddress, order types.Order, msg *types.MsgTakeSwapRequest) (uint64, error) {
	if err := k.checkBalance(ctx, taker, msg.SellToken); err != nil {
		return 0, err
	}

	escrowAddress := k.GetEscrowAddress(order.PortIdOnCounterpartyChain, order.ChannelIdOnCounterpartyChain)
	if err := k.escrowToken(ctx, taker, escrowAddress, msg.SellToken); err != nil {
		return 0, err
	}

	order.Taker = msg
	k.orders.SetOrder(ctx, msg.SourceChannel, order)

	packetData := types.NewAtomicSwapPacketData(msg, "")
	return k.ics4Wrapper.SendPacket(ctx, order.PortIdOnCounterpartyChain, msg.SourceChannel, msg.TimeoutHeight, msg.TimeoutTimestamp, packetData.GetBytes())
}

// CancelSwap defines an rpc handler method for MsgCancelSwapRequest. Only a cancel packet
// is sent: the order is cancelled and the sell token refunded once the counterparty
// acknowledges the cancellation.
func (k Keeper) CancelSwap(goCtx context.Context, msg *types.MsgCancelSwapRequest) (*types.MsgCancelSwapResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if !k.GetParams(ctx).SwapEnabled {
		return nil, types.ErrSwapDisabled
	}

	order, found := k.orders.GetOrder(ctx, msg.SourceChannel, msg.OrderId)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, msg.SourceChannel)
	}

	if err := order.RequireSide(types.SideMaker); err != nil {
		return nil, err
	}

	if order.Maker.MakerAddress != msg.MakerAddress {
		return nil, errorsmod.Wrapf(types.ErrNotMaker, "%s is not the maker of order %s", msg.MakerAddress, order.Id)
	}

	if err := types.ValidateStatusTransition(order.Status, types.StatusCancel); err != nil {
		return nil, err
	}

	if order.Maker.SourceChannel != msg.SourceChannel {
		return nil, errorsmod.Wrapf(types.ErrWrongChannel, "order %s was made on channel %s, not %s", order.Id, order.Maker.SourceChannel, msg.SourceChannel)
	}

	channel, found := k.channelKeeper.GetChannel(ctx, order.Maker.SourcePort, order.Maker.SourceChannel)
	if !found {
		return nil, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", order.Maker.SourcePort, order.Maker.SourceChannel)
	}

	cacheCtx, writeFn := ctx.CacheContext()

	packetData := types.NewAtomicSwapPacketData(msg, "")
	sequence, err := k.ics4Wrapper.SendPacket(cacheCtx, order.Maker.SourcePort, order.Maker.SourceChannel, msg.TimeoutHeight, msg.TimeoutTimestamp, packetData.GetBytes())
	if err != nil {
		return nil, err
	}

	writeFn()

	events.EmitCancelSwapEvent(ctx, msg)
	telemetry.ReportCancelSwap(order.Maker.SourcePort, order.Maker.SourceChannel, channel.Counterparty.PortId, channel.Counterparty.ChannelId)

	k.Logger(ctx).Info("IBC atomic swap cancellation requested", "order", order.Id, "maker", msg.MakerAddress)

	return &types.MsgCancelSwapResponse{Sequence: sequence}, nil
}

// UpdateParams defines an rpc handler method for MsgUpdateParams. Updates the atomic swap
// parameters if the signer is the module authority.
func (k Keeper) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if k.GetAuthority() != msg.Signer {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnauthorized, "expected %s, got %s", k.GetAuthority(), msg.Signer)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	k.SetParams(ctx, msg.Params)

	return &types.MsgUpdateParamsResponse{}, nil
}

// validateTake runs the checks a take must pass on both chains: the order must be
// synchronised, unexpired, unoccupied and the take must match the buy side exactly.
func (Keeper) validateTake(ctx sdk.Context, order types.Order, msg *types.MsgTakeSwapRequest) error {
	if order.Status != types.StatusSync {
		return errorsmod.Wrapf(types.ErrInvalidOrderStatus, "order %s is %s, expected %s", order.Id, order.Status, types.StatusSync)
	}

	if blockTime := uint64(ctx.BlockTime().Unix()); order.IsExpired(blockTime) {
		return errorsmod.Wrapf(types.ErrOrderExpired, "order %s expired at %d, block time %d", order.Id, order.Maker.ExpirationTimestamp, blockTime)
	}

	if !types.CoinsMatch(msg.SellToken, order.Maker.BuyToken) {
		return errorsmod.Wrapf(types.ErrTokenMismatch, "got %s, order %s wants %s", msg.SellToken, order.Id, order.Maker.BuyToken)
	}

	if order.IsOccupied() {
		return errorsmod.Wrapf(types.ErrAlreadyTaken, "order %s is taken by %s", order.Id, order.Taker.TakerAddress)
	}

	if order.Maker.DesiredTaker != "" && order.Maker.DesiredTaker != msg.TakerAddress {
		return errorsmod.Wrapf(types.ErrNotDesignatedTaker, "order %s can only be taken by %s", order.Id, order.Maker.DesiredTaker)
	}

	return nil
}

func (k Keeper) checkBalance(ctx sdk.Context, owner sdk.AccAddress, token sdk.Coin) error {
	balance := k.bankKeeper.GetBalance(ctx, owner, token.Denom)
	if balance.Amount.LT(token.Amount) {
		return errorsmod.Wrapf(types.ErrInsufficientFunds, "%s has %s, needs %s", owner, balance, token)
	}
	return nil
}
