package types

import (
	"context"
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/ibcswap/ibc-swap/internal/validate"
)

// NonceLength is the number of decimal digits of a make swap nonce.
const NonceLength = 6

var (
	_ SwapMessage = (*MsgMakeSwapRequest)(nil)
	_ SwapMessage = (*MsgTakeSwapRequest)(nil)
	_ SwapMessage = (*MsgCancelSwapRequest)(nil)
)

// SwapMessage is the payload carried by an AtomicSwapPacketData. It is implemented
// only by MsgMakeSwapRequest, MsgTakeSwapRequest and MsgCancelSwapRequest.
type SwapMessage interface {
	Type() SwapMessageType
	// ValidateBasic checks the request as submitted on the sending chain.
	ValidateBasic() error
	// ValidatePacket checks the request as received by the counterparty chain, where
	// addresses of the sending chain cannot be decoded.
	ValidatePacket() error
	GetBytes() []byte

	isSwapMessage()
}

// MsgMakeSwapRequest creates a new order on the maker chain and escrows the sell token.
type MsgMakeSwapRequest struct {
	// the port on which the packet will be sent
	SourcePort string `json:"source_port"`
	// the channel by which the packet will be sent
	SourceChannel string   `json:"source_channel"`
	SellToken     sdk.Coin `json:"sell_token"`
	BuyToken      sdk.Coin `json:"buy_token"`
	// the sender address
	MakerAddress string `json:"maker_address"`
	// the sender's address on the destination chain
	MakerReceivingAddress string `json:"maker_receiving_address"`
	// if desired_taker is specified,
	// only the desired_taker is allowed to take this order
	// this is the address on the destination chain
	DesiredTaker        string `json:"desired_taker"`
	CreationTimestamp   uint64 `json:"creation_timestamp"`
	ExpirationTimestamp uint64 `json:"expiration_timestamp"`
	// Timeout height relative to the current block height.
	// The timeout is disabled when set to 0.
	TimeoutHeight clienttypes.Height `json:"timeout_height"`
	// Timeout timestamp in absolute nanoseconds since unix epoch.
	// The timeout is disabled when set to 0.
	TimeoutTimestamp uint64 `json:"timeout_timestamp"`
	// random decimal string making otherwise identical requests distinct
	Nonce string `json:"nonce"`
}

// NewMsgMakeSwapRequest creates a new MsgMakeSwapRequest instance
func NewMsgMakeSwapRequest(
	sourcePort, sourceChannel string,
	sellToken, buyToken sdk.Coin,
	makerAddress, makerReceivingAddress, desiredTaker string,
	creationTimestamp, expirationTimestamp uint64,
	timeoutHeight clienttypes.Height, timeoutTimestamp uint64,
	nonce string,
) *MsgMakeSwapRequest {
	return &MsgMakeSwapRequest{
		SourcePort:            sourcePort,
		SourceChannel:         sourceChannel,
		SellToken:             sellToken,
		BuyToken:              buyToken,
		MakerAddress:          makerAddress,
		MakerReceivingAddress: makerReceivingAddress,
		DesiredTaker:          desiredTaker,
		CreationTimestamp:     creationTimestamp,
		ExpirationTimestamp:   expirationTimestamp,
		TimeoutHeight:         timeoutHeight,
		TimeoutTimestamp:      timeoutTimestamp,
		Nonce:                 nonce,
	}
}

// Type implements SwapMessage
func (MsgMakeSwapRequest) Type() SwapMessageType { return TypeMakeSwap }

func (MsgMakeSwapRequest) isSwapMessage() {}

// ValidateBasic performs a basic check of the MsgMakeSwapRequest fields.
// NOTE: The receiving address and desired taker live on the counterparty chain, their
// format is not known to IBC and only their presence is checked.
func (msg MsgMakeSwapRequest) ValidateBasic() error {
	if err := validate.PortChannel(msg.SourcePort, msg.SourceChannel); err != nil {
		return err
	}
	if err := validateToken(msg.SellToken, "sell token"); err != nil {
		return err
	}
	if err := validateToken(msg.BuyToken, "buy token"); err != nil {
		return err
	}
	if err := validate.LocalAddress(msg.MakerAddress, "maker address"); err != nil {
		return err
	}
	if err := msg.validateCommon(); err != nil {
		return err
	}
	return validateTimeout(msg.TimeoutHeight, msg.TimeoutTimestamp)
}

// ValidatePacket implements SwapMessage
func (msg MsgMakeSwapRequest) ValidatePacket() error {
	if err := validate.PortChannel(msg.SourcePort, msg.SourceChannel); err != nil {
		return err
	}
	if err := validateToken(msg.SellToken, "sell token"); err != nil {
		return err
	}
	if err := validateToken(msg.BuyToken, "buy token"); err != nil {
		return err
	}
	if err := validate.RemoteAddress(msg.MakerAddress, "maker address"); err != nil {
		return err
	}
	return msg.validateCommon()
}

func (msg MsgMakeSwapRequest) validateCommon() error {
	if err := validate.RemoteAddress(msg.MakerReceivingAddress, "maker receiving address"); err != nil {
		return err
	}
	if msg.ExpirationTimestamp == 0 || msg.ExpirationTimestamp <= msg.CreationTimestamp {
		return errorsmod.Wrapf(ErrInvalidTimestamp, "expiration timestamp %d must be after creation timestamp %d", msg.ExpirationTimestamp, msg.CreationTimestamp)
	}
	return ValidateNonce(msg.Nonce)
}

// GetBytes returns the canonical encoding of the request.
func (msg MsgMakeSwapRequest) GetBytes() []byte {
	return mustMarshalCanonicalJSON(msg)
}

// MsgMakeSwapResponse defines the response of a MakeSwap handler.
type MsgMakeSwapResponse struct {
	OrderId  string `json:"order_id"`
	Sequence uint64 `json:"sequence"`
}

// MsgTakeSwapRequest takes an order on the counterparty chain and escrows the taker's sell token.
type MsgTakeSwapRequest struct {
	// the channel by which the packet will be sent
	SourceChannel string `json:"source_channel"`
	OrderId       string `json:"order_id"`
	// the tokens to be sold
	SellToken sdk.Coin `json:"sell_token"`
	// the sender address
	TakerAddress string `json:"taker_address"`
	// the sender's address on the destination chain
	TakerReceivingAddress string             `json:"taker_receiving_address"`
	CreationTimestamp     uint64             `json:"creation_timestamp"`
	TimeoutHeight         clienttypes.Height `json:"timeout_height"`
	TimeoutTimestamp      uint64             `json:"timeout_timestamp"`
}

// NewMsgTakeSwapRequest creates a new MsgTakeSwapRequest instance
func NewMsgTakeSwapRequest(
	sourceChannel, orderID string,
	sellToken sdk.Coin,
	takerAddress, takerReceivingAddress string,
	creationTimestamp uint64,
	timeoutHeight clienttypes.Height, timeoutTimestamp uint64,
) *MsgTakeSwapRequest {
	return &MsgTakeSwapRequest{
		SourceChannel:         sourceChannel,
		OrderId:               orderID,
		SellToken:             sellToken,
		TakerAddress:          takerAddress,
		TakerReceivingAddress: takerReceivingAddress,
		CreationTimestamp:     creationTimestamp,
		TimeoutHeight:         timeoutHeight,
		TimeoutTimestamp:      timeoutTimestamp,
	}
}

// Type implements SwapMessage
func (MsgTakeSwapRequest) Type() SwapMessageType { return TypeTakeSwap }

func (MsgTakeSwapRequest) isSwapMessage() {}

// ValidateBasic performs a basic check of the MsgTakeSwapRequest fields.
func (msg MsgTakeSwapRequest) ValidateBasic() error {
	if err := validate.Channel(msg.SourceChannel); err != nil {
		return err
	}
	if err := ValidateOrderID(msg.OrderId); err != nil {
		return err
	}
	if err := validateToken(msg.SellToken, "sell token"); err != nil {
		return err
	}
	if err := validate.LocalAddress(msg.TakerAddress, "taker address"); err != nil {
		return err
	}
	if err := msg.validateCommon(); err != nil {
		return err
	}
	return validateTimeout(msg.TimeoutHeight, msg.TimeoutTimestamp)
}

// ValidatePacket implements SwapMessage
func (msg MsgTakeSwapRequest) ValidatePacket() error {
	if err := validate.Channel(msg.SourceChannel); err != nil {
		return err
	}
	if err := ValidateOrderID(msg.OrderId); err != nil {
		return err
	}
	if err := validateToken(msg.SellToken, "sell token"); err != nil {
		return err
	}
	if err := validate.RemoteAddress(msg.TakerAddress, "taker address"); err != nil {
		return err
	}
	return msg.validateCommon()
}

func (msg MsgTakeSwapRequest) validateCommon() error {
	if err := validate.RemoteAddress(msg.TakerReceivingAddress, "taker receiving address"); err != nil {
		return err
	}
	if msg.CreationTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidTimestamp, "creation timestamp cannot be 0")
	}
	return nil
}

// GetBytes returns the canonical encoding of the request.
func (msg MsgTakeSwapRequest) GetBytes() []byte {
	return mustMarshalCanonicalJSON(msg)
}

// MsgTakeSwapResponse defines the response of a TakeSwap handler.
type MsgTakeSwapResponse struct {
	Sequence uint64 `json:"sequence"`
}

// MsgCancelSwapRequest asks the counterparty chain to cancel an order that has not been taken.
type MsgCancelSwapRequest struct {
	// the channel by which the packet will be sent
	SourceChannel     string             `json:"source_channel"`
	OrderId           string             `json:"order_id"`
	MakerAddress      string             `json:"maker_address"`
	CreationTimestamp uint64             `json:"creation_timestamp"`
	TimeoutHeight     clienttypes.Height `json:"timeout_height"`
	TimeoutTimestamp  uint64             `json:"timeout_timestamp"`
}

// NewMsgCancelSwapRequest creates a new MsgCancelSwapRequest instance
func NewMsgCancelSwapRequest(
	sourceChannel, orderID, makerAddress string,
	creationTimestamp uint64,
	timeoutHeight clienttypes.Height, timeoutTimestamp uint64,
) *MsgCancelSwapRequest {
	return &MsgCancelSwapRequest{
		SourceChannel:     sourceChannel,
		OrderId:           orderID,
		MakerAddress:      makerAddress,
		CreationTimestamp: creationTimestamp,
		TimeoutHeight:     timeoutHeight,
		TimeoutTimestamp:  timeoutTimestamp,
	}
}

// Type implements SwapMessage
func (MsgCancelSwapRequest) Type() SwapMessageType { return TypeCancelSwap }

func (MsgCancelSwapRequest) isSwapMessage() {}

// ValidateBasic performs a basic check of the MsgCancelSwapRequest fields.
func (msg MsgCancelSwapRequest) ValidateBasic() error {
	if err := validate.Channel(msg.SourceChannel); err != nil {
		return err
	}
	if err := ValidateOrderID(msg.OrderId); err != nil {
		return err
	}
	if err := validate.LocalAddress(msg.MakerAddress, "maker address"); err != nil {
		return err
	}
	if msg.CreationTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidTimestamp, "creation timestamp cannot be 0")
	}
	return validateTimeout(msg.TimeoutHeight, msg.TimeoutTimestamp)
}

// ValidatePacket implements SwapMessage
func (msg MsgCancelSwapRequest) ValidatePacket() error {
	if err := validate.Channel(msg.SourceChannel); err != nil {
		return err
	}
	if err := ValidateOrderID(msg.OrderId); err != nil {
		return err
	}
	if err := validate.RemoteAddress(msg.MakerAddress, "maker address"); err != nil {
		return err
	}
	if msg.CreationTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidTimestamp, "creation timestamp cannot be 0")
	}
	return nil
}

// GetBytes returns the canonical encoding of the request.
func (msg MsgCancelSwapRequest) GetBytes() []byte {
	return mustMarshalCanonicalJSON(msg)
}

// MsgCancelSwapResponse defines the response of a CancelSwap handler.
type MsgCancelSwapResponse struct {
	Sequence uint64 `json:"sequence"`
}

// MsgUpdateParams updates the module parameters. Only the module authority may submit it.
type MsgUpdateParams struct {
	Signer string `json:"signer"`
	Params Params `json:"params"`
}

// NewMsgUpdateParams creates a new MsgUpdateParams instance
func NewMsgUpdateParams(signer string, params Params) *MsgUpdateParams {
	return &MsgUpdateParams{
		Signer: signer,
		Params: params,
	}
}

// ValidateBasic performs a basic check of the MsgUpdateParams fields.
func (msg MsgUpdateParams) ValidateBasic() error {
	return validate.LocalAddress(msg.Signer, "signer")
}

// MsgUpdateParamsResponse defines the response of an UpdateParams handler.
type MsgUpdateParamsResponse struct{}

// MsgServer is the server API of the atomic swap module.
type MsgServer interface {
	MakeSwap(context.Context, *MsgMakeSwapRequest) (*MsgMakeSwapResponse, error)
	TakeSwap(context.Context, *MsgTakeSwapRequest) (*MsgTakeSwapResponse, error)
	CancelSwap(context.Context, *MsgCancelSwapRequest) (*MsgCancelSwapResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

// ValidateNonce checks that nonce is a NonceLength digit decimal string.
func ValidateNonce(nonce string) error {
	if len(nonce) != NonceLength {
		return errorsmod.Wrapf(ErrInvalidNonce, "expected %d digits, got %q", NonceLength, nonce)
	}
	for _, r := range nonce {
		if r < '0' || r > '9' {
			return errorsmod.Wrapf(ErrInvalidNonce, "nonce %q contains non decimal characters", nonce)
		}
	}
	return nil
}

// ValidateOrderID checks that id has the shape of an order identifier.
func ValidateOrderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "order id cannot be blank")
	}
	if len(id) != OrderIDLength {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "order id must be %d characters long, got %d", OrderIDLength, len(id))
	}
	return nil
}

func validateToken(token sdk.Coin, field string) error {
	if !token.IsValid() {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidCoins, "%s: %s", field, token.String())
	}
	if !token.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "%s amount must be strictly positive: %s", field, token.String())
	}
	return nil
}

func validateTimeout(timeoutHeight clienttypes.Height, timeoutTimestamp uint64) error {
	if timeoutHeight.IsZero() && timeoutTimestamp == 0 {
		return errorsmod.Wrap(ErrInvalidPacketTimeout, "timeout height and timeout timestamp cannot both be 0")
	}
	return nil
}
