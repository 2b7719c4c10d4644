package keeper

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/internal/events"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/internal/telemetry"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// OnRecvPacket processes a swap message sent by the counterparty chain. The returned
// error is turned into an error acknowledgement by the caller, which also discards
// every state change made here.
//
// A make packet registers the order on this chain in the SYNC status, it cannot
// overwrite an existing order. A take packet settles the order: the maker's escrowed
// sell token is released to the taker. A cancel packet cancels an order that has not
// been taken yet.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet, msg types.SwapMessage) error {
	if !k.GetParams(ctx).SwapEnabled {
		return types.ErrSwapDisabled
	}

	switch msg := msg.(type) {
	case *types.MsgMakeSwapRequest:
		return k.onRecvMakeSwap(ctx, packet, msg)
	case *types.MsgTakeSwapRequest:
		return k.onRecvTakeSwap(ctx, packet, msg)
	case *types.MsgCancelSwapRequest:
		return k.onRecvCancelSwap(ctx, packet, msg)
	default:
		return errorsmod.Wrapf(types.ErrUnknownPacketType, "%T", msg)
	}
}

func (k Keeper) onRecvMakeSwap(ctx sdk.Context, packet channeltypes.Packet, msg *types.MsgMakeSwapRequest) error {
	if _, err := sdk.AccAddressFromBech32(msg.MakerReceivingAddress); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "maker receiving address %s: %v", msg.MakerReceivingAddress, err)
	}

	if msg.DesiredTaker != "" {
		if _, err := sdk.AccAddressFromBech32(msg.DesiredTaker); err != nil {
			return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "desired taker %s: %v", msg.DesiredTaker, err)
		}
	}

	if supply := k.bankKeeper.GetSupply(ctx, msg.BuyToken.Denom); !supply.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidBuyToken, "denom %s has no supply on this chain", msg.BuyToken.Denom)
	}

	order := types.NewTakerOrder(msg, packet.DestinationPort, packet.DestinationChannel)
	if err := k.orders.CreateOrder(ctx, packet.DestinationChannel, order); err != nil {
		return err
	}

	events.EmitOrderStatusEvent(ctx, order)
	return nil
}

func (k Keeper) onRecvTakeSwap(ctx sdk.Context, packet channeltypes.Packet, msg *types.MsgTakeSwapRequest) error {
	order, found := k.orders.GetOrder(ctx, packet.DestinationChannel, msg.OrderId)
	if !found {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, packet.DestinationChannel)
	}

	// only the maker side escrows the sell token being released
	if err := order.RequireSide(types.SideMaker); err != nil {
		return err
	}

	if err := k.validateTake(ctx, order, msg); err != nil {
		return err
	}

	receiver, err := sdk.AccAddressFromBech32(msg.TakerReceivingAddress)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "taker receiving address %s: %v", msg.TakerReceivingAddress, err)
	}

	escrowAddress := k.GetEscrowAddress(packet.DestinationPort, packet.DestinationChannel)
	if err := k.unescrowToken(ctx, escrowAddress, receiver, order.Maker.SellToken); err != nil {
		return err
	}

	order.Taker = msg
	order.Status = types.StatusComplete
	order.CompleteTimestamp = msg.CreationTimestamp
	k.orders.SetOrder(ctx, packet.DestinationChannel, order)

	events.EmitOrderStatusEvent(ctx, order)
	return nil
}

func (k Keeper) onRecvCancelSwap(ctx sdk.Context, packet channeltypes.Packet, msg *types.MsgCancelSwapRequest) error {
	order, found := k.orders.GetOrder(ctx, packet.DestinationChannel, msg.OrderId)
	if !found {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, packet.DestinationChannel)
	}

	if err := order.RequireSide(types.SideTaker); err != nil {
		return err
	}

	if order.Maker.MakerAddress != msg.MakerAddress {
		return errorsmod.Wrapf(types.ErrNotMaker, "%s is not the maker of order %s", msg.MakerAddress, order.Id)
	}

	if err := types.ValidateStatusTransition(order.Status, types.StatusCancel); err != nil {
		return err
	}

	// a take that is pending settlement wins over the cancellation
	if order.IsOccupied() {
		return errorsmod.Wrapf(types.ErrAlreadyTaken, "order %s is taken by %s", order.Id, order.Taker.TakerAddress)
	}

	order.Status = types.StatusCancel
	order.CancelTimestamp = msg.CreationTimestamp
	k.orders.SetOrder(ctx, packet.DestinationChannel, order)

	events.EmitOrderStatusEvent(ctx, order)
	return nil
}

// OnAcknowledgementPacket responds to the success or failure of a packet acknowledgement
// written on the receiving chain.
//
// If the acknowledgement was a success then the sending chain applies its side of the
// transition: a make moves the order to SYNC, a take releases the taker's escrow to the
// maker, a cancel refunds the maker. If the acknowledgement failed, the escrowed tokens of
// the packet are refunded.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, msg types.SwapMessage, ack channeltypes.Acknowledgement) error {
	switch ack.Response.(type) {
	case *channeltypes.Acknowledgement_Result:
		switch msg := msg.(type) {
		case *types.MsgMakeSwapRequest:
			return k.onMakeSwapAcknowledged(ctx, packet, msg)
		case *types.MsgTakeSwapRequest:
			return k.onTakeSwapAcknowledged(ctx, packet, msg)
		case *types.MsgCancelSwapRequest:
			return k.onCancelSwapAcknowledged(ctx, packet, msg)
		default:
			return errorsmod.Wrapf(types.ErrUnknownPacketType, "%T", msg)
		}
	case *channeltypes.Acknowledgement_Error:
		return k.refundPacketToken(ctx, packet, msg)
	default:
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected one of [%T, %T], got %T", channeltypes.Acknowledgement_Result{}, channeltypes.Acknowledgement_Error{}, ack.Response)
	}
}

func (k Keeper) onMakeSwapAcknowledged(ctx sdk.Context, packet channeltypes.Packet, msg *types.MsgMakeSwapRequest) error {
	orderID := types.GenerateOrderID(msg)
	order, found := k.orders.GetOrder(ctx, packet.SourceChannel, orderID)
	if !found {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", orderID, packet.SourceChannel)
	}

	if err := order.RequireSide(types.SideMaker); err != nil {
		return err
	}

	// a cancellation may already have been acknowledged
	if order.Status != types.StatusInitial {
		return nil
	}

	order.Status = types.StatusSync
	k.orders.SetOrder(ctx, packet.SourceChannel, order)

	events.EmitOrderStatusEvent(ctx, order)
	return nil
}

func (k Keeper) onTakeSwapAcknowledged(ctx sdk.Context, packet channeltypes.Packet, msg *types.MsgTakeSwapRequest) error {
	order, found := k.orders.GetOrder(ctx, packet.SourceChannel, msg.OrderId)
	if !found {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, packet.SourceChannel)
	}

	if err := order.RequireSide(types.SideTaker); err != nil {
		return err
	}

	if err := types.ValidateStatusTransition(order.Status, types.StatusComplete); err != nil {
		return err
	}

	receiver, err := sdk.AccAddressFromBech32(order.Maker.MakerReceivingAddress)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "maker receiving address %s: %v", order.Maker.MakerReceivingAddress, err)
	}

	escrowAddress := k.GetEscrowAddress(packet.SourcePort, packet.SourceChannel)
	if err := k.unescrowToken(ctx, escrowAddress, receiver, msg.SellToken); err != nil {
		return err
	}

	order.Taker = msg
	order.Status = types.StatusComplete
	order.CompleteTimestamp = msg.CreationTimestamp
	k.orders.SetOrder(ctx, packet.SourceChannel, order)

	events.EmitOrderStatusEvent(ctx, order)
	return nil
}

func (k Keeper) onCancelSwapAcknowledged(ctx sdk.Context, packet channeltypes.Packet, msg *types.MsgCancelSwapRequest) error {
	order, found := k.orders.GetOrder(ctx, packet.SourceChannel, msg.OrderId)
	if !found {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, packet.SourceChannel)
	}

	if err := order.RequireSide(types.SideMaker); err != nil {
		return err
	}

	if err := types.ValidateStatusTransition(order.Status, types.StatusCancel); err != nil {
		return err
	}

	maker, err := sdk.AccAddressFromBech32(order.Maker.MakerAddress)
	if err != nil {
		return err
	}

	escrowAddress := k.GetEscrowAddress(packet.SourcePort, packet.SourceChannel)
	if err := k.unescrowToken(ctx, escrowAddress, maker, order.Maker.SellToken); err != nil {
		return err
	}

	order.Status = types.StatusCancel
	order.CancelTimestamp = msg.CreationTimestamp
	k.orders.SetOrder(ctx, packet.SourceChannel, order)

	events.EmitRefundEvent(ctx, order.Id, order.Maker.MakerAddress, order.Maker.SellToken)
	events.EmitOrderStatusEvent(ctx, order)
	return nil
}

// OnTimeoutPacket refunds the escrowed tokens of a packet that was never received.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet, msg types.SwapMessage) error {
	return k.refundPacketToken(ctx, packet, msg)
}

// refundPacketToken returns the tokens escrowed for a packet to their owner. A failed make
// cancels the order, a failed take releases the order so it can be taken again and a failed
// cancel leaves the order untouched.
func (k Keeper) refundPacketToken(ctx sdk.Context, packet channeltypes.Packet, msg types.SwapMessage) error {
	escrowAddress := k.GetEscrowAddress(packet.SourcePort, packet.SourceChannel)

	switch msg := msg.(type) {
	case *types.MsgMakeSwapRequest:
		orderID := types.GenerateOrderID(msg)
		order, found := k.orders.GetOrder(ctx, packet.SourceChannel, orderID)
		if !found {
			return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", orderID, packet.SourceChannel)
		}

		if err := order.RequireSide(types.SideMaker); err != nil {
			return err
		}

		if err := types.ValidateStatusTransition(order.Status, types.StatusCancel); err != nil {
			return err
		}

		maker, err := sdk.AccAddressFromBech32(msg.MakerAddress)
		if err != nil {
			return err
		}

		if err := k.unescrowToken(ctx, escrowAddress, maker, msg.SellToken); err != nil {
			return err
		}

		order.Status = types.StatusCancel
		order.CancelTimestamp = uint64(ctx.BlockTime().Unix())
		k.orders.SetOrder(ctx, packet.SourceChannel, order)

		events.EmitRefundEvent(ctx, order.Id, msg.MakerAddress, msg.SellToken)
		events.EmitOrderStatusEvent(ctx, order)
		telemetry.ReportRefund(packet.SourcePort, packet.SourceChannel, msg.Type(), msg.SellToken)
		return nil

	case *types.MsgTakeSwapRequest:
		order, found := k.orders.GetOrder(ctx, packet.SourceChannel, msg.OrderId)
		if !found {
			return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s on channel %s", msg.OrderId, packet.SourceChannel)
		}

		if err := order.RequireSide(types.SideTaker); err != nil {
			return err
		}

		if !order.IsOccupied() || !bytes.Equal(order.Taker.GetBytes(), msg.GetBytes()) {
			return errorsmod.Wrapf(types.ErrInvalidOrderStatus, "order %s is not occupied by the refunded take", order.Id)
		}

		taker, err := sdk.AccAddressFromBech32(msg.TakerAddress)
		if err != nil {
			return err
		}

		if err := k.unescrowToken(ctx, escrowAddress, taker, msg.SellToken); err != nil {
			return err
		}

		order.Taker = nil
		k.orders.SetOrder(ctx, packet.SourceChannel, order)

		events.EmitRefundEvent(ctx, order.Id, msg.TakerAddress, msg.SellToken)
		telemetry.ReportRefund(packet.SourcePort, packet.SourceChannel, msg.Type(), msg.SellToken)
		return nil

	case *types.MsgCancelSwapRequest:
		return nil

	default:
		return errorsmod.Wrapf(types.ErrUnknownPacketType, "%T", msg)
	}
}
