package types

import (
	errorsmod "cosmossdk.io/errors"
)

// IBC atomic swap sentinel errors
var (
	ErrInvalidPacketTimeout = errorsmod.Register(ModuleName, 2, "invalid packet timeout")
	ErrInvalidVersion       = errorsmod.Register(ModuleName, 3, "invalid ICS100 version")
	ErrInvalidAmount        = errorsmod.Register(ModuleName, 4, "invalid token amount")
	ErrMaxSwapChannels      = errorsmod.Register(ModuleName, 5, "max atomic swap channels")
	ErrSwapDisabled         = errorsmod.Register(ModuleName, 6, "atomic swaps are disabled on this chain")
	ErrInsufficientFunds    = errorsmod.Register(ModuleName, 7, "insufficient funds")
	ErrTransfer             = errorsmod.Register(ModuleName, 8, "token transfer failed")
	ErrOrderNotFound        = errorsmod.Register(ModuleName, 9, "order not found")
	ErrOrderExpired         = errorsmod.Register(ModuleName, 10, "order expired")
	ErrTokenMismatch        = errorsmod.Register(ModuleName, 11, "token does not match the order")
	ErrAlreadyTaken         = errorsmod.Register(ModuleName, 12, "order already taken")
	ErrNotDesignatedTaker   = errorsmod.Register(ModuleName, 13, "taker is not the designated taker of the order")
	ErrWrongChannel         = errorsmod.Register(ModuleName, 14, "order is not bound to the given channel")
	ErrNotMaker             = errorsmod.Register(ModuleName, 15, "sender is not the maker of the order")
	ErrInvalidOrderStatus   = errorsmod.Register(ModuleName, 16, "invalid order status")
	ErrOrderConflict        = errorsmod.Register(ModuleName, 17, "order already exists")
	ErrInvalidBuyToken      = errorsmod.Register(ModuleName, 18, "invalid buy token")
	ErrUnknownPacketType    = errorsmod.Register(ModuleName, 19, "unknown packet type")
	ErrInvalidNonce         = errorsmod.Register(ModuleName, 20, "invalid nonce")
	ErrInvalidTimestamp     = errorsmod.Register(ModuleName, 21, "invalid timestamp")
	ErrInvalidPacketData    = errorsmod.Register(ModuleName, 22, "invalid atomic swap packet data")
	ErrWrongOrderSide       = errorsmod.Register(ModuleName, 23, "operation not allowed on this side of the order")
)
