package keeper

import (
	"errors"
	"fmt"
	"strings"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	porttypes "github.com/cosmos/ibc-go/v10/modules/core/05-port/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// Keeper defines the IBC atomic swap keeper
type Keeper struct {
	storeService corestore.KVStoreService
	orders       types.OrderStore

	ics4Wrapper   porttypes.ICS4Wrapper
	channelKeeper types.ChannelKeeper
	bankKeeper    types.BankKeeper

	escrowAddresses *escrowAddressCache

	// the address capable of executing a MsgUpdateParams message. Typically, this
	// should be the x/gov module account.
	authority string
}

// NewKeeper creates a new IBC atomic swap Keeper instance. The order store is passed
// explicitly so that every handler of the keeper reads and writes the same orders.
func NewKeeper(
	storeService corestore.KVStoreService,
	orderStore types.OrderStore,
	ics4Wrapper porttypes.ICS4Wrapper,
	channelKeeper types.ChannelKeeper,
	bankKeeper types.BankKeeper,
	authority string,
) Keeper {
	if orderStore == nil {
		panic(errors.New("order store must not be nil"))
	}

	if strings.TrimSpace(authority) == "" {
		panic(errors.New("authority must be non-empty"))
	}

	return Keeper{
		storeService:    storeService,
		orders:          orderStore,
		ics4Wrapper:     ics4Wrapper,
		channelKeeper:   channelKeeper,
		bankKeeper:      bankKeeper,
		escrowAddresses: newEscrowAddressCache(),
		authority:       authority,
	}
}

// SetICS4Wrapper sets the ICS4Wrapper. This function may be used after
// the keeper's creation to set the middleware which is above this module
// in the IBC application stack.
func (k *Keeper) SetICS4Wrapper(wrapper porttypes.ICS4Wrapper) {
	k.ics4Wrapper = wrapper
}

// GetICS4Wrapper returns the ICS4Wrapper.
func (k Keeper) GetICS4Wrapper() porttypes.ICS4Wrapper {
	return k.ics4Wrapper
}

// GetAuthority returns the atomic swap module's authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s-%s", "ibc", types.ModuleName))
}

// GetPort returns the portID the atomic swap module is bound to.
func (k Keeper) GetPort(ctx sdk.Context) string {
	store := k.storeService.OpenKVStore(ctx)
	bz, err := store.Get(types.PortKey)
	if err != nil {
		panic(err)
	}
	return string(bz)
}

// SetPort sets the portID for the atomic swap module.
func (k Keeper) SetPort(ctx sdk.Context, portID string) {
	store := k.storeService.OpenKVStore(ctx)
	if err := store.Set(types.PortKey, []byte(portID)); err != nil {
		panic(err)
	}
}

// BindPort binds the module to portID. The module binds exactly one port: binding
// the port it already owns is a no-op and binding any other port fails.
func (k Keeper) BindPort(ctx sdk.Context, portID string) error {
	if bound := k.GetPort(ctx); bound != "" {
		if bound != portID {
			return errorsmod.Wrapf(porttypes.ErrInvalidPort, "module is already bound to port %s, cannot bind %s", bound, portID)
		}
		return nil
	}

	k.SetPort(ctx, portID)
	return nil
}

// GetParams returns the current atomic swap module parameters.
func (k Keeper) GetParams(ctx sdk.Context) types.Params {
	store := k.storeService.OpenKVStore(ctx)
	bz, err := store.Get(types.ParamsKey)
	if err != nil {
		panic(err)
	}
	if len(bz) == 0 {
		return types.DefaultParams()
	}
	return types.NewParams(bz[0] == 1)
}

// SetParams sets the atomic swap module parameters.
func (k Keeper) SetParams(ctx sdk.Context, params types.Params) {
	store := k.storeService.OpenKVStore(ctx)

	value := []byte{0}
	if params.SwapEnabled {
		value = []byte{1}
	}

	if err := store.Set(types.ParamsKey, value); err != nil {
		panic(err)
	}
}

// GetOrder returns the order stored under the given local channel and order id.
func (k Keeper) GetOrder(ctx sdk.Context, channelID, orderID string) (types.Order, bool) {
	return k.orders.GetOrder(ctx, channelID, orderID)
}

// GetAllOrders returns every order in the store together with its local channel.
func (k Keeper) GetAllOrders(ctx sdk.Context) []types.GenesisOrder {
	var orders []types.GenesisOrder
	k.orders.IterateOrders(ctx, func(channelID string, order types.Order) bool {
		orders = append(orders, types.GenesisOrder{ChannelId: channelID, Order: order})
		return false
	})
	return orders
}

// GetChannelVersion returns the application version negotiated on the given channel end.
func (k Keeper) GetChannelVersion(ctx sdk.Context, portID, channelID string) (string, bool) {
	channel, found := k.channelKeeper.GetChannel(ctx, portID, channelID)
	if !found {
		return "", false
	}
	return channel.Version, true
}
