package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// MaximumMemoLength is the maximum length of the packet memo in bytes.
const MaximumMemoLength = 32768

// SwapMessageType enumerates the kinds of atomic swap packets.
type SwapMessageType int32

const (
	// TypeUnspecified is the zero value and never valid on the wire.
	TypeUnspecified SwapMessageType = iota
	// TypeMakeSwap carries a MsgMakeSwapRequest.
	TypeMakeSwap
	// TypeTakeSwap carries a MsgTakeSwapRequest.
	TypeTakeSwap
	// TypeCancelSwap carries a MsgCancelSwapRequest.
	TypeCancelSwap
)

var swapMessageTypeNames = map[SwapMessageType]string{
	TypeUnspecified: "TYPE_UNSPECIFIED",
	TypeMakeSwap:    "TYPE_MSG_MAKE_SWAP",
	TypeTakeSwap:    "TYPE_MSG_TAKE_SWAP",
	TypeCancelSwap:  "TYPE_MSG_CANCEL_SWAP",
}

// SwapMessageTypes lists every valid packet type.
var SwapMessageTypes = []SwapMessageType{TypeMakeSwap, TypeTakeSwap, TypeCancelSwap}

// String implements fmt.Stringer
func (t SwapMessageType) String() string {
	if name, ok := swapMessageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SwapMessageType(%d)", int32(t))
}

// AtomicSwapPacketData is the envelope sent over an ICS-100 channel.
type AtomicSwapPacketData struct {
	Type SwapMessageType `json:"type"`
	// canonical encoding of the swap message selected by Type
	Data []byte `json:"data"`
	Memo string `json:"memo,omitempty"`
}

// NewAtomicSwapPacketData wraps msg into a packet envelope.
func NewAtomicSwapPacketData(msg SwapMessage, memo string) AtomicSwapPacketData {
	return AtomicSwapPacketData{
		Type: msg.Type(),
		Data: msg.GetBytes(),
		Memo: memo,
	}
}

// ValidateBasic checks that the envelope carries a known type and a payload.
func (pd AtomicSwapPacketData) ValidateBasic() error {
	if _, ok := swapMessageTypeNames[pd.Type]; !ok || pd.Type == TypeUnspecified {
		return errorsmod.Wrapf(ErrUnknownPacketType, "%s", pd.Type)
	}
	if len(pd.Data) == 0 {
		return errorsmod.Wrap(ErrInvalidPacketData, "packet data cannot be empty")
	}
	if len(pd.Memo) > MaximumMemoLength {
		return errorsmod.Wrapf(ErrInvalidPacketData, "memo must not exceed %d bytes", MaximumMemoLength)
	}
	return nil
}

// GetBytes is a helper for serialising
func (pd AtomicSwapPacketData) GetBytes() []byte {
	return mustMarshalCanonicalJSON(pd)
}

// Decode returns the swap message carried by the envelope.
func (pd AtomicSwapPacketData) Decode() (SwapMessage, error) {
	var msg SwapMessage
	switch pd.Type {
	case TypeMakeSwap:
		msg = &MsgMakeSwapRequest{}
	case TypeTakeSwap:
		msg = &MsgTakeSwapRequest{}
	case TypeCancelSwap:
		msg = &MsgCancelSwapRequest{}
	default:
		return nil, errorsmod.Wrapf(ErrUnknownPacketType, "%s", pd.Type)
	}

	if err := unmarshalStrictJSON(pd.Data, msg); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidPacketData, "cannot decode %s payload: %v", pd.Type, err)
	}

	return msg, nil
}

// UnmarshalPacketData decodes and validates an atomic swap envelope.
func UnmarshalPacketData(bz []byte) (AtomicSwapPacketData, error) {
	var data AtomicSwapPacketData
	if err := unmarshalStrictJSON(bz, &data); err != nil {
		return AtomicSwapPacketData{}, errorsmod.Wrapf(ErrInvalidPacketData, "cannot unmarshal ICS-100 packet data: %v", err)
	}

	if err := data.ValidateBasic(); err != nil {
		return AtomicSwapPacketData{}, err
	}

	return data, nil
}

// DecodePacket unmarshals an envelope and its swap message in one step.
func DecodePacket(bz []byte) (AtomicSwapPacketData, SwapMessage, error) {
	data, err := UnmarshalPacketData(bz)
	if err != nil {
		return AtomicSwapPacketData{}, nil, err
	}

	msg, err := data.Decode()
	if err != nil {
		return AtomicSwapPacketData{}, nil, err
	}

	return data, msg, nil
}

// OrderIDFromMessage returns the identifier of the order a swap message refers to.
func OrderIDFromMessage(msg SwapMessage) string {
	switch msg := msg.(type) {
	case *MsgMakeSwapRequest:
		return GenerateOrderID(msg)
	case *MsgTakeSwapRequest:
		return msg.OrderId
	case *MsgCancelSwapRequest:
		return msg.OrderId
	default:
		panic(fmt.Errorf("unexpected swap message %T", msg))
	}
}
