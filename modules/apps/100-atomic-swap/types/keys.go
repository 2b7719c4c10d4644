package types

import (
	"crypto/sha256"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the IBC atomic swap name
	ModuleName = "atomicswap"

	// Version defines the current version the IBC atomic swap module supports
	Version = "ics100-1"

	// PortID is the default port id that the atomic swap module binds to
	PortID = "swap"

	// StoreKey is the store key string for IBC atomic swap
	StoreKey = ModuleName

	// RouterKey is the message route for IBC atomic swap
	RouterKey = ModuleName

	// QuerierRoute is the querier route for IBC atomic swap
	QuerierRoute = ModuleName

	KeyTotalEscrowPrefix = "totalEscrowForDenom"
)

var (
	// PortKey defines the key to store the port ID in store
	PortKey = []byte{0x01}
	// OrderKeyPrefix defines the prefix under which orders are stored, keyed by channel and order id
	OrderKeyPrefix = []byte{0x02}
	// ParamsKey defines the key under which the module parameters are stored
	ParamsKey = []byte{0x03}
	// TotalEscrowKeyPrefix defines the prefix under which escrowed totals per denom are stored
	TotalEscrowKeyPrefix = []byte(KeyTotalEscrowPrefix)
)

// GetEscrowAddress returns the escrow address for the specified channel.
// The escrow address follows the format as outlined in ADR 028:
// https://github.com/cosmos/cosmos-sdk/blob/main/docs/architecture/adr-028-public-key-addresses.md
func GetEscrowAddress(portID, channelID string) sdk.AccAddress {
	// a slash is used to create domain separation between port and channel identifiers to
	// prevent address collisions between escrow addresses created for different channels
	contents := fmt.Sprintf("%s/%s", portID, channelID)

	// ADR 028 AddressHash construction
	preImage := []byte(Version)
	preImage = append(preImage, 0)
	preImage = append(preImage, contents...)
	hash := sha256.Sum256(preImage)
	return hash[:20]
}

// OrderKey returns the store key under which the order with the given id is stored for
// the given local channel.
func OrderKey(channelID, orderID string) []byte {
	return append(OrderChannelPrefix(channelID), []byte(orderID)...)
}

// OrderChannelPrefix returns the store prefix of all orders bound to the given local channel.
func OrderChannelPrefix(channelID string) []byte {
	return append(append([]byte{}, OrderKeyPrefix...), []byte(fmt.Sprintf("%s/", channelID))...)
}

// TotalEscrowForDenomKey returns the store key of under which the total amount of
// tokens in escrow is stored.
func TotalEscrowForDenomKey(denom string) []byte {
	return []byte(fmt.Sprintf("%s/%s", KeyTotalEscrowPrefix, denom))
}
