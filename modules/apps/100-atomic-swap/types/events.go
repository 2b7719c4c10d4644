package types

// IBC atomic swap events
const (
	EventTypeTimeout    = "timeout"
	EventTypePacket     = "atomic_swap_packet"
	EventTypeMakeSwap   = "make_swap"
	EventTypeTakeSwap   = "take_swap"
	EventTypeCancelSwap = "cancel_swap"

	AttributeKeyOrderID        = "order_id"
	AttributeKeyPacketType     = "packet_type"
	AttributeKeyMaker          = "maker"
	AttributeKeyTaker          = "taker"
	AttributeKeySellToken      = "sell_token"
	AttributeKeyBuyToken       = "buy_token"
	AttributeKeyStatus         = "status"
	AttributeKeyRefundReceiver = "refund_receiver"
	AttributeKeyRefundToken    = "refund_token"
	AttributeKeyAckSuccess     = "success"
	AttributeKeyAck            = "acknowledgement"
	AttributeKeyAckError       = "error"
	AttributeKeyMemo           = "memo"
)
