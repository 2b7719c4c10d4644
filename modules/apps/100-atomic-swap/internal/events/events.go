package events

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v10/modules/core/exported"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// EmitMakeSwapEvent emits an event for a locally created order.
func EmitMakeSwapEvent(ctx sdk.Context, orderID string, msg *types.MsgMakeSwapRequest) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeMakeSwap,
			sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
			sdk.NewAttribute(types.AttributeKeyMaker, msg.MakerAddress),
			sdk.NewAttribute(types.AttributeKeySellToken, msg.SellToken.String()),
			sdk.NewAttribute(types.AttributeKeyBuyToken, msg.BuyToken.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitTakeSwapEvent emits an event for a locally taken order.
func EmitTakeSwapEvent(ctx sdk.Context, msg *types.MsgTakeSwapRequest) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeTakeSwap,
			sdk.NewAttribute(types.AttributeKeyOrderID, msg.OrderId),
			sdk.NewAttribute(types.AttributeKeyTaker, msg.TakerAddress),
			sdk.NewAttribute(types.AttributeKeySellToken, msg.SellToken.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitCancelSwapEvent emits an event for a locally requested cancellation.
func EmitCancelSwapEvent(ctx sdk.Context, msg *types.MsgCancelSwapRequest) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeCancelSwap,
			sdk.NewAttribute(types.AttributeKeyOrderID, msg.OrderId),
			sdk.NewAttribute(types.AttributeKeyMaker, msg.MakerAddress),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitOnRecvPacketEvent emits an atomic swap packet event in the OnRecvPacket callback
func EmitOnRecvPacketEvent(ctx sdk.Context, packetData types.AtomicSwapPacketData, orderID string, ack ibcexported.Acknowledgement, ackErr error) {
	// ack is nil when the receive logic panicked
	success := ack != nil && ack.Success()
	eventAttributes := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPacketType, packetData.Type.String()),
		sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
		sdk.NewAttribute(types.AttributeKeyMemo, packetData.Memo),
		sdk.NewAttribute(types.AttributeKeyAckSuccess, strconv.FormatBool(success)),
	}

	if ackErr != nil {
		eventAttributes = append(eventAttributes, sdk.NewAttribute(types.AttributeKeyAckError, ackErr.Error()))
	}

	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypePacket,
			eventAttributes...,
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitOnAcknowledgementPacketEvent emits an atomic swap packet event in the OnAcknowledgementPacket callback
func EmitOnAcknowledgementPacketEvent(ctx sdk.Context, packetData types.AtomicSwapPacketData, orderID string, ack channeltypes.Acknowledgement) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypePacket,
			sdk.NewAttribute(types.AttributeKeyPacketType, packetData.Type.String()),
			sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
			sdk.NewAttribute(types.AttributeKeyMemo, packetData.Memo),
			sdk.NewAttribute(types.AttributeKeyAck, ack.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})

	switch resp := ack.Response.(type) {
	case *channeltypes.Acknowledgement_Result:
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePacket,
				sdk.NewAttribute(types.AttributeKeyAckSuccess, string(resp.Result)),
			),
		)
	case *channeltypes.Acknowledgement_Error:
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePacket,
				sdk.NewAttribute(types.AttributeKeyAckError, resp.Error),
			),
		)
	}
}

// EmitOnTimeoutEvent emits an atomic swap packet event in the OnTimeoutPacket callback
func EmitOnTimeoutEvent(ctx sdk.Context, packetData types.AtomicSwapPacketData, orderID string) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeTimeout,
			sdk.NewAttribute(types.AttributeKeyPacketType, packetData.Type.String()),
			sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
			sdk.NewAttribute(types.AttributeKeyMemo, packetData.Memo),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
		),
	})
}

// EmitRefundEvent emits an event when escrowed tokens are returned to their owner.
func EmitRefundEvent(ctx sdk.Context, orderID, receiver string, token sdk.Coin) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacket,
			sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
			sdk.NewAttribute(types.AttributeKeyRefundReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyRefundToken, token.String()),
		),
	)
}

// EmitOrderStatusEvent emits an event when an order changes status.
func EmitOrderStatusEvent(ctx sdk.Context, order types.Order) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacket,
			sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
			sdk.NewAttribute(types.AttributeKeyStatus, order.Status.String()),
		),
	)
}
