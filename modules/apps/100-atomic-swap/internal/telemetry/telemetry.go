package telemetry

import (
	"github.com/hashicorp/go-metrics"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	coremetrics "github.com/cosmos/ibc-go/v10/modules/core/metrics"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

const labelPacketType = "packet_type"

func reportSend(packetType types.SwapMessageType, sourcePort, sourceChannel, destinationPort, destinationChannel string, token *sdk.Coin) {
	labels := []metrics.Label{
		telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
		telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
		telemetry.NewLabel(coremetrics.LabelDestinationPort, destinationPort),
		telemetry.NewLabel(coremetrics.LabelDestinationChannel, destinationChannel),
		telemetry.NewLabel(labelPacketType, packetType.String()),
	}

	if token != nil && token.Amount.IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"tx", "msg", "ibc", types.ModuleName, "escrow"},
			float32(token.Amount.Int64()),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, token.Denom)},
		)
	}

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "send"},
		1,
		labels,
	)
}

// ReportMakeSwap records an outbound make packet and its escrowed sell token.
func ReportMakeSwap(sourcePort, sourceChannel, destinationPort, destinationChannel string, token sdk.Coin) {
	reportSend(types.TypeMakeSwap, sourcePort, sourceChannel, destinationPort, destinationChannel, &token)
}

// ReportTakeSwap records an outbound take packet and its escrowed sell token.
func ReportTakeSwap(sourcePort, sourceChannel, destinationPort, destinationChannel string, token sdk.Coin) {
	reportSend(types.TypeTakeSwap, sourcePort, sourceChannel, destinationPort, destinationChannel, &token)
}

// ReportCancelSwap records an outbound cancel packet.
func ReportCancelSwap(sourcePort, sourceChannel, destinationPort, destinationChannel string) {
	reportSend(types.TypeCancelSwap, sourcePort, sourceChannel, destinationPort, destinationChannel, nil)
}

// ReportOnRecvPacket records a successfully handled inbound packet.
func ReportOnRecvPacket(sourcePort, sourceChannel string, packetType types.SwapMessageType) {
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "receive"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
			telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
			telemetry.NewLabel(labelPacketType, packetType.String()),
		},
	)
}

// ReportRefund records escrowed tokens returned to their owner.
func ReportRefund(sourcePort, sourceChannel string, packetType types.SwapMessageType, token sdk.Coin) {
	if token.Amount.IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"ibc", types.ModuleName, "refund"},
			float32(token.Amount.Int64()),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, token.Denom)},
		)
	}

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "refund"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
			telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
			telemetry.NewLabel(labelPacketType, packetType.String()),
		},
	)
}
