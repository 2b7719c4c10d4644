package mock

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v10/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v10/modules/core/exported"
)

var _ porttypes.ICS4Wrapper = (*ICS4Wrapper)(nil)

// ICS4Wrapper stands in for core IBC below the application. Sent packets are recorded
// so that a test can relay them to the counterparty chain.
type ICS4Wrapper struct {
	channels  *ChannelKeeper
	sequences map[string]uint64

	// SentPackets holds every packet sent so far, in order.
	SentPackets []channeltypes.Packet
	// SendPacketErr, when set, is returned by SendPacket.
	SendPacketErr error
}

// NewICS4Wrapper returns an ICS4Wrapper sending packets over the channels of channelKeeper.
func NewICS4Wrapper(channelKeeper *ChannelKeeper) *ICS4Wrapper {
	return &ICS4Wrapper{
		channels:  channelKeeper,
		sequences: make(map[string]uint64),
	}
}

// SendPacket implements porttypes.ICS4Wrapper
func (w *ICS4Wrapper) SendPacket(
	ctx sdk.Context,
	sourcePort string,
	sourceChannel string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if w.SendPacketErr != nil {
		return 0, w.SendPacketErr
	}

	channel, found := w.channels.GetChannel(ctx, sourcePort, sourceChannel)
	if !found {
		return 0, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port ID (%s) channel ID (%s)", sourcePort, sourceChannel)
	}

	key := channelKey(sourcePort, sourceChannel)
	w.sequences[key]++
	sequence := w.sequences[key]

	packet := channeltypes.NewPacket(
		data, sequence,
		sourcePort, sourceChannel,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId,
		timeoutHeight, timeoutTimestamp,
	)
	w.SentPackets = append(w.SentPackets, packet)

	return sequence, nil
}

// WriteAcknowledgement implements porttypes.ICS4Wrapper
func (*ICS4Wrapper) WriteAcknowledgement(sdk.Context, ibcexported.PacketI, ibcexported.Acknowledgement) error {
	return nil
}

// GetAppVersion implements porttypes.ICS4Wrapper
func (w *ICS4Wrapper) GetAppVersion(ctx sdk.Context, portID, channelID string) (string, bool) {
	channel, found := w.channels.GetChannel(ctx, portID, channelID)
	if !found {
		return "", false
	}
	return channel.Version, true
}

// LastPacket returns the most recently sent packet.
func (w *ICS4Wrapper) LastPacket() channeltypes.Packet {
	if len(w.SentPackets) == 0 {
		panic("no packet sent")
	}
	return w.SentPackets[len(w.SentPackets)-1]
}
