package keeper

import (
	"fmt"
	"strings"
	"sync"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// escrowAddressCache memoises escrow addresses per port and channel.
type escrowAddressCache struct {
	mu        sync.RWMutex
	addresses map[string]sdk.AccAddress
}

func newEscrowAddressCache() *escrowAddressCache {
	return &escrowAddressCache{addresses: make(map[string]sdk.AccAddress)}
}

func (c *escrowAddressCache) get(portID, channelID string) sdk.AccAddress {
	key := fmt.Sprintf("%s/%s", portID, channelID)

	c.mu.RLock()
	addr, ok := c.addresses[key]
	c.mu.RUnlock()
	if ok {
		return addr
	}

	addr = types.GetEscrowAddress(portID, channelID)

	c.mu.Lock()
	c.addresses[key] = addr
	c.mu.Unlock()

	return addr
}

// GetEscrowAddress returns the escrow account of the given channel end.
func (k Keeper) GetEscrowAddress(portID, channelID string) sdk.AccAddress {
	return k.escrowAddresses.get(portID, channelID)
}

// escrowToken will send the given token from the provided sender to the escrow address. It will also
// update the total escrowed amount by adding the escrowed token to the current total escrow.
func (k Keeper) escrowToken(ctx sdk.Context, sender, escrowAddress sdk.AccAddress, token sdk.Coin) error {
	if err := k.bankKeeper.SendCoins(ctx, sender, escrowAddress, sdk.NewCoins(token)); err != nil {
		return errorsmod.Wrapf(types.ErrTransfer, "unable to escrow %s from %s: %v", token, sender, err)
	}

	// track the total amount in escrow keyed by denomination to allow for efficient iteration
	currentTotalEscrow := k.GetTotalEscrowForDenom(ctx, token.GetDenom())
	newTotalEscrow := currentTotalEscrow.Add(token)
	k.SetTotalEscrowForDenom(ctx, newTotalEscrow)

	return nil
}

// unescrowToken will send the given token from the escrow address to the provided receiver. It will also
// update the total escrow by deducting the unescrowed token from the current total escrow.
func (k Keeper) unescrowToken(ctx sdk.Context, escrowAddress, receiver sdk.AccAddress, token sdk.Coin) error {
	if k.bankKeeper.BlockedAddr(receiver) {
		return errorsmod.Wrapf(types.ErrTransfer, "%s is not allowed to receive funds", receiver)
	}

	currentTotalEscrow := k.GetTotalEscrowForDenom(ctx, token.GetDenom())
	if !currentTotalEscrow.IsGTE(token) {
		return errorsmod.Wrapf(types.ErrTransfer, "unable to unescrow %s, only %s is tracked in escrow", token, currentTotalEscrow)
	}

	if err := k.bankKeeper.SendCoins(ctx, escrowAddress, receiver, sdk.NewCoins(token)); err != nil {
		// NOTE: this error is only expected to occur given an unexpected bug or a malicious
		// counterparty module. The bug may occur in bank or any part of the code that allows
		// the escrow address to be drained.
		return errorsmod.Wrapf(types.ErrTransfer, "unable to unescrow %s to %s: %v", token, receiver, err)
	}

	// track the total amount in escrow keyed by denomination to allow for efficient iteration
	newTotalEscrow := currentTotalEscrow.Sub(token)
	k.SetTotalEscrowForDenom(ctx, newTotalEscrow)

	return nil
}

// GetTotalEscrowForDenom gets the total amount of tokens in escrow for a denom.
func (k Keeper) GetTotalEscrowForDenom(ctx sdk.Context, denom string) sdk.Coin {
	store := k.storeService.OpenKVStore(ctx)
	bz, err := store.Get(types.TotalEscrowForDenomKey(denom))
	if err != nil {
		panic(err)
	}
	if len(bz) == 0 {
		return sdk.NewCoin(denom, sdkmath.ZeroInt())
	}

	amount := sdkmath.Int{}
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}

	return sdk.NewCoin(denom, amount)
}

// SetTotalEscrowForDenom stores the total amount of tokens held in escrow for a denom.
// A zero amount removes the entry from the store.
func (k Keeper) SetTotalEscrowForDenom(ctx sdk.Context, coin sdk.Coin) {
	if coin.Amount.IsNegative() {
		panic(fmt.Errorf("amount cannot be negative: %s", coin.Amount))
	}

	store := k.storeService.OpenKVStore(ctx)
	key := types.TotalEscrowForDenomKey(coin.Denom)

	if coin.Amount.IsZero() {
		if err := store.Delete(key); err != nil {
			panic(err)
		}
		return
	}

	bz, err := coin.Amount.Marshal()
	if err != nil {
		panic(err)
	}

	if err := store.Set(key, bz); err != nil {
		panic(err)
	}
}

// GetAllTotalEscrowed returns the escrow information for all the denominations.
func (k Keeper) GetAllTotalEscrowed(ctx sdk.Context) sdk.Coins {
	store := runtime.KVStoreAdapter(k.storeService.OpenKVStore(ctx))
	prefix := []byte(types.KeyTotalEscrowPrefix + "/")
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer closeIterator(iterator)

	escrows := sdk.NewCoins()
	for ; iterator.Valid(); iterator.Next() {
		denom := strings.TrimPrefix(string(iterator.Key()), string(prefix))
		if strings.TrimSpace(denom) == "" {
			continue // denom is empty string
		}

		amount := sdkmath.Int{}
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			continue // total escrow amount cannot be unmarshalled to integer
		}

		escrows = escrows.Add(sdk.NewCoin(denom, amount))
	}

	return escrows
}
