package ibctesting

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v10/modules/core/exported"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// ConnectionID is the connection hop used for every test channel.
const ConnectionID = "connection-0"

// ChannelConfig holds the parameters proposed for a channel end.
type ChannelConfig struct {
	PortID  string
	Version string
	Order   channeltypes.Order
}

// NewChannelConfig returns the default atomic swap channel configuration.
func NewChannelConfig() *ChannelConfig {
	return &ChannelConfig{
		PortID:  types.PortID,
		Version: types.Version,
		Order:   channeltypes.UNORDERED,
	}
}

// Endpoint is a channel end on a TestChain.
type Endpoint struct {
	Chain        *TestChain
	Counterparty *Endpoint
	ChannelID    string

	ChannelConfig *ChannelConfig
}

// NewEndpoint constructs a new endpoint without the counterparty.
// CONTRACT: the counterparty endpoint must be set by the caller.
func NewEndpoint(chain *TestChain) *Endpoint {
	return &Endpoint{
		Chain:         chain,
		ChannelConfig: NewChannelConfig(),
	}
}

// ChanOpenInit runs the INIT step of the channel handshake on the endpoint's chain.
func (endpoint *Endpoint) ChanOpenInit() error {
	endpoint.ChannelID = endpoint.Chain.NextChannelID()

	version, err := endpoint.Chain.SwapModule.OnChanOpenInit(
		endpoint.Chain.GetContext(),
		endpoint.ChannelConfig.Order,
		[]string{ConnectionID},
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelID,
		channeltypes.NewCounterparty(endpoint.Counterparty.ChannelConfig.PortID, ""),
		endpoint.ChannelConfig.Version,
	)
	if err != nil {
		return err
	}

	endpoint.ChannelConfig.Version = version
	endpoint.setChannel(channeltypes.INIT, "")
	return nil
}

// ChanOpenTry runs the TRY step of the channel handshake on the endpoint's chain.
func (endpoint *Endpoint) ChanOpenTry() error {
	endpoint.ChannelID = endpoint.Chain.NextChannelID()

	version, err := endpoint.Chain.SwapModule.OnChanOpenTry(
		endpoint.Chain.GetContext(),
		endpoint.ChannelConfig.Order,
		[]string{ConnectionID},
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelID,
		channeltypes.NewCounterparty(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID),
		endpoint.Counterparty.ChannelConfig.Version,
	)
	if err != nil {
		return err
	}

	endpoint.ChannelConfig.Version = version
	endpoint.setChannel(channeltypes.TRYOPEN, endpoint.Counterparty.ChannelID)
	return nil
}

// ChanOpenAck runs the ACK step of the channel handshake on the endpoint's chain.
func (endpoint *Endpoint) ChanOpenAck() error {
	err := endpoint.Chain.SwapModule.OnChanOpenAck(
		endpoint.Chain.GetContext(),
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelID,
		endpoint.Counterparty.ChannelID,
		endpoint.Counterparty.ChannelConfig.Version,
	)
	if err != nil {
		return err
	}

	endpoint.ChannelConfig.Version = endpoint.Counterparty.ChannelConfig.Version
	endpoint.setChannel(channeltypes.OPEN, endpoint.Counterparty.ChannelID)
	return nil
}

// ChanOpenConfirm runs the CONFIRM step of the channel handshake on the endpoint's chain.
func (endpoint *Endpoint) ChanOpenConfirm() error {
	err := endpoint.Chain.SwapModule.OnChanOpenConfirm(
		endpoint.Chain.GetContext(),
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelID,
	)
	if err != nil {
		return err
	}

	endpoint.setChannel(channeltypes.OPEN, endpoint.Counterparty.ChannelID)
	return nil
}

// GetChannel returns the channel end stored for the endpoint.
func (endpoint *Endpoint) GetChannel() channeltypes.Channel {
	channel, found := endpoint.Chain.ChannelKeeper.GetChannel(endpoint.Chain.GetContext(), endpoint.ChannelConfig.PortID, endpoint.ChannelID)
	if !found {
		endpoint.Chain.Fatalf("channel %s/%s not found on %s", endpoint.ChannelConfig.PortID, endpoint.ChannelID, endpoint.Chain.ChainID)
	}
	return channel
}

// RecvPacket delivers a packet sent by the counterparty to the endpoint's application and
// returns the acknowledgement it wrote.
func (endpoint *Endpoint) RecvPacket(packet channeltypes.Packet) ibcexported.Acknowledgement {
	return endpoint.Chain.SwapModule.OnRecvPacket(endpoint.Chain.GetContext(), endpoint.ChannelConfig.Version, packet, endpoint.relayer())
}

// AcknowledgePacket delivers the acknowledgement of a packet sent by the endpoint.
func (endpoint *Endpoint) AcknowledgePacket(packet channeltypes.Packet, ack []byte) error {
	return endpoint.Chain.SwapModule.OnAcknowledgementPacket(endpoint.Chain.GetContext(), endpoint.ChannelConfig.Version, packet, ack, endpoint.relayer())
}

// TimeoutPacket notifies the endpoint that a packet it sent timed out.
func (endpoint *Endpoint) TimeoutPacket(packet channeltypes.Packet) error {
	return endpoint.Chain.SwapModule.OnTimeoutPacket(endpoint.Chain.GetContext(), endpoint.ChannelConfig.Version, packet, endpoint.relayer())
}

// RelayPacket delivers a packet sent by the endpoint to the counterparty and relays the
// written acknowledgement back. The acknowledgement is returned.
func (endpoint *Endpoint) RelayPacket(packet channeltypes.Packet) (ibcexported.Acknowledgement, error) {
	ack := endpoint.Counterparty.RecvPacket(packet)
	if err := endpoint.AcknowledgePacket(packet, ack.Acknowledgement()); err != nil {
		return ack, err
	}
	return ack, nil
}

// LastSentPacket returns the last packet sent by the endpoint's chain.
func (endpoint *Endpoint) LastSentPacket() channeltypes.Packet {
	return endpoint.Chain.ICS4Wrapper.LastPacket()
}

func (endpoint *Endpoint) setChannel(state channeltypes.State, counterpartyChannelID string) {
	channel := channeltypes.NewChannel(
		state,
		endpoint.ChannelConfig.Order,
		channeltypes.NewCounterparty(endpoint.Counterparty.ChannelConfig.PortID, counterpartyChannelID),
		[]string{ConnectionID},
		endpoint.ChannelConfig.Version,
	)
	endpoint.Chain.ChannelKeeper.SetChannel(endpoint.ChannelConfig.PortID, endpoint.ChannelID, channel)
}

func (endpoint *Endpoint) relayer() sdk.AccAddress {
	return endpoint.Chain.SenderAccounts[MaxAccounts-1]
}
