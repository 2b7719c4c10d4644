package types

import (
	"encoding/hex"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/cometbft/cometbft/crypto/tmhash"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// OrderIDLength is the length of the hex encoded order identifier.
const OrderIDLength = tmhash.Size * 2

// Status is the lifecycle state of a chain local copy of an order.
type Status int32

const (
	// StatusInitial is set on the maker chain until the make packet is acknowledged.
	StatusInitial Status = iota
	// StatusSync means both chains know the order and it can be taken.
	StatusSync
	// StatusCancel is terminal: the order was cancelled or its make packet failed.
	StatusCancel
	// StatusComplete is terminal: the order was settled.
	StatusComplete
)

var statusNames = map[Status]string{
	StatusInitial:  "INITIAL",
	StatusSync:     "SYNC",
	StatusCancel:   "CANCEL",
	StatusComplete: "COMPLETE",
}

// String implements fmt.Stringer
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, errorsmod.Wrapf(ErrInvalidOrderStatus, "unknown status %d", int32(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return errorsmod.Wrapf(ErrInvalidOrderStatus, "unknown status %q", string(text))
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancel || s == StatusComplete
}

// ValidateStatusTransition checks that an order may move from one status to another.
// Statuses only move forward: INITIAL -> SYNC -> COMPLETE, and INITIAL|SYNC -> CANCEL.
func ValidateStatusTransition(from, to Status) error {
	switch {
	case from == StatusInitial && (to == StatusSync || to == StatusCancel):
		return nil
	case from == StatusSync && (to == StatusComplete || to == StatusCancel):
		return nil
	default:
		return errorsmod.Wrapf(ErrInvalidOrderStatus, "cannot move order from %s to %s", from, to)
	}
}

// Side identifies which of the two chain local copies of an order is held.
type Side int32

const (
	// SideMaker is the copy on the chain where the order was made and the sell token is escrowed.
	SideMaker Side = iota
	// SideTaker is the copy registered on receipt of the make packet. Only it can be taken.
	SideTaker
)

var sideNames = map[Side]string{
	SideMaker: "MAKER",
	SideTaker: "TAKER",
}

// String implements fmt.Stringer
func (s Side) String() string {
	if name, ok := sideNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Side(%d)", int32(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Side) MarshalText() ([]byte, error) {
	name, ok := sideNames[s]
	if !ok {
		return nil, errorsmod.Wrapf(ErrWrongOrderSide, "unknown side %d", int32(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Side) UnmarshalText(text []byte) error {
	for side, name := range sideNames {
		if name == string(text) {
			*s = side
			return nil
		}
	}
	return errorsmod.Wrapf(ErrWrongOrderSide, "unknown side %q", string(text))
}

// Order is the chain local copy of an atomic swap order. The maker chain and the taker
// chain each own one copy; both share the same Id.
type Order struct {
	Id    string              `json:"id"`
	Maker *MsgMakeSwapRequest `json:"maker"`
	// set while the order is occupied by a take that is pending settlement or refund
	Taker  *MsgTakeSwapRequest `json:"taker,omitempty"`
	Status Status              `json:"status"`
	Side   Side                `json:"side"`
	// port and channel of the taker chain end, bound on receipt of the make packet. Empty
	// on the maker side.
	PortIdOnCounterpartyChain    string `json:"port_id_on_counterparty_chain,omitempty"`
	ChannelIdOnCounterpartyChain string `json:"channel_id_on_counterparty_chain,omitempty"`
	CancelTimestamp              uint64 `json:"cancel_timestamp,omitempty"`
	CompleteTimestamp            uint64 `json:"complete_timestamp,omitempty"`
}

// NewOrder creates the maker side copy of an order in the INITIAL status for the given
// make request.
func NewOrder(maker *MsgMakeSwapRequest) Order {
	return Order{
		Id:     GenerateOrderID(maker),
		Maker:  maker,
		Status: StatusInitial,
		Side:   SideMaker,
	}
}

// NewTakerOrder creates the taker side copy of an order received over the given local
// port and channel. It starts in the SYNC status.
func NewTakerOrder(maker *MsgMakeSwapRequest, portID, channelID string) Order {
	return Order{
		Id:                           GenerateOrderID(maker),
		Maker:                        maker,
		Status:                       StatusSync,
		Side:                         SideTaker,
		PortIdOnCounterpartyChain:    portID,
		ChannelIdOnCounterpartyChain: channelID,
	}
}

// RequireSide returns ErrWrongOrderSide unless the order is the copy held by side.
func (o Order) RequireSide(side Side) error {
	if o.Side != side {
		return errorsmod.Wrapf(ErrWrongOrderSide, "order %s is the %s side copy, expected %s", o.Id, o.Side, side)
	}
	return nil
}

// IsOccupied reports whether a take is pending on the order.
func (o Order) IsOccupied() bool {
	return o.Taker != nil
}

// IsExpired reports whether the order can no longer be taken at the given unix time.
func (o Order) IsExpired(blockTime uint64) bool {
	return blockTime >= o.Maker.ExpirationTimestamp
}

// Validate checks the structural invariants of an order.
func (o Order) Validate() error {
	if o.Maker == nil {
		return errorsmod.Wrap(ErrInvalidPacketData, "order has no maker request")
	}
	if id := GenerateOrderID(o.Maker); id != o.Id {
		return errorsmod.Wrapf(ErrOrderConflict, "order id %s does not match maker request id %s", o.Id, id)
	}
	if _, ok := statusNames[o.Status]; !ok {
		return errorsmod.Wrapf(ErrInvalidOrderStatus, "unknown status %d", int32(o.Status))
	}
	switch o.Side {
	case SideMaker:
		if o.PortIdOnCounterpartyChain != "" || o.ChannelIdOnCounterpartyChain != "" {
			return errorsmod.Wrapf(ErrWrongOrderSide, "maker side order %s must not bind a taker channel", o.Id)
		}
	case SideTaker:
		if o.PortIdOnCounterpartyChain == "" || o.ChannelIdOnCounterpartyChain == "" {
			return errorsmod.Wrapf(ErrWrongOrderSide, "taker side order %s has no taker channel", o.Id)
		}
		if o.Status == StatusInitial {
			return errorsmod.Wrapf(ErrInvalidOrderStatus, "taker side order %s cannot be %s", o.Id, o.Status)
		}
	default:
		return errorsmod.Wrapf(ErrWrongOrderSide, "unknown side %d", int32(o.Side))
	}
	if o.Status == StatusComplete && (o.Taker == nil || o.CompleteTimestamp == 0) {
		return errorsmod.Wrapf(ErrInvalidOrderStatus, "completed order %s must have a taker and a complete timestamp", o.Id)
	}
	if o.Taker != nil && o.Taker.OrderId != o.Id {
		return errorsmod.Wrapf(ErrOrderConflict, "taker references order %s, expected %s", o.Taker.OrderId, o.Id)
	}
	return nil
}

// GenerateOrderID derives the order identifier from the canonical encoding of the make
// request: the hex encoded SHA-256 digest of its bytes.
func GenerateOrderID(msg *MsgMakeSwapRequest) string {
	return hex.EncodeToString(tmhash.Sum(msg.GetBytes()))
}

// CoinsMatch reports whether two coins can settle against each other: same denom and
// same amount. Partial fills are not supported.
func CoinsMatch(a, b sdk.Coin) bool {
	return a.Denom == b.Denom && a.Amount.Equal(b.Amount)
}
