package validate

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	host "github.com/cosmos/ibc-go/v10/modules/core/24-host"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"
)

// PortChannel validates that the portID and channelID of a request are valid identifiers.
func PortChannel(portID, channelID string) error {
	if err := host.PortIdentifierValidator(portID); err != nil {
		return errorsmod.Wrap(err, "invalid source port ID")
	}

	if err := host.ChannelIdentifierValidator(channelID); err != nil {
		return errorsmod.Wrap(err, "invalid source channel ID")
	}

	return nil
}

// Channel validates that channelID is a valid channel identifier.
func Channel(channelID string) error {
	if err := host.ChannelIdentifierValidator(channelID); err != nil {
		return errorsmod.Wrap(err, "invalid source channel ID")
	}

	return nil
}

// LocalAddress validates that addr is a bech32 account address of this chain.
func LocalAddress(addr, field string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "%s could not be parsed as address: %v", field, err)
	}

	return nil
}

// RemoteAddress validates that addr is present. The format of addresses on the
// counterparty chain is not known to IBC and is not checked.
func RemoteAddress(addr, field string) error {
	if strings.TrimSpace(addr) == "" {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidAddress, "missing %s", field)
	}

	return nil
}
