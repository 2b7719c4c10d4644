package mock

import (
	"fmt"
	"sort"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

var _ types.ChannelKeeper = (*ChannelKeeper)(nil)

// ChannelKeeper keeps channel ends in memory.
type ChannelKeeper struct {
	channels map[string]channeltypes.IdentifiedChannel
}

// NewChannelKeeper returns an empty channel keeper.
func NewChannelKeeper() *ChannelKeeper {
	return &ChannelKeeper{channels: make(map[string]channeltypes.IdentifiedChannel)}
}

// SetChannel stores a channel end.
func (ck *ChannelKeeper) SetChannel(portID, channelID string, channel channeltypes.Channel) {
	ck.channels[channelKey(portID, channelID)] = channeltypes.NewIdentifiedChannel(portID, channelID, channel)
}

// GetChannel returns the channel end of portID and channelID.
func (ck *ChannelKeeper) GetChannel(_ sdk.Context, portID, channelID string) (channeltypes.Channel, bool) {
	identified, found := ck.channels[channelKey(portID, channelID)]
	if !found {
		return channeltypes.Channel{}, false
	}

	return channeltypes.Channel{
		State:          identified.State,
		Ordering:       identified.Ordering,
		Counterparty:   identified.Counterparty,
		ConnectionHops: identified.ConnectionHops,
		Version:        identified.Version,
	}, true
}

// GetAllChannelsWithPortPrefix returns every channel end whose port starts with portPrefix,
// ordered by port and channel.
func (ck *ChannelKeeper) GetAllChannelsWithPortPrefix(_ sdk.Context, portPrefix string) []channeltypes.IdentifiedChannel {
	keys := make([]string, 0, len(ck.channels))
	for key, channel := range ck.channels {
		if strings.HasPrefix(channel.PortId, portPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	channels := make([]channeltypes.IdentifiedChannel, 0, len(keys))
	for _, key := range keys {
		channels = append(channels, ck.channels[key])
	}
	return channels
}

func channelKey(portID, channelID string) string {
	return fmt.Sprintf("%s/%s", portID, channelID)
}
