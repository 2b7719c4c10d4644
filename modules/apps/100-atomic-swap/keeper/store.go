package keeper

import (
	"context"
	"fmt"
	"strings"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

var _ types.OrderStore = (*OrderStore)(nil)

// OrderStore is the KV store backed implementation of types.OrderStore.
type OrderStore struct {
	storeService corestore.KVStoreService
}

// NewOrderStore returns an order store persisting orders in the module store.
func NewOrderStore(storeService corestore.KVStoreService) *OrderStore {
	return &OrderStore{storeService: storeService}
}

// GetOrder implements types.OrderStore
func (s *OrderStore) GetOrder(ctx context.Context, channelID, orderID string) (types.Order, bool) {
	store := s.storeService.OpenKVStore(ctx)
	bz, err := store.Get(types.OrderKey(channelID, orderID))
	if err != nil {
		panic(err)
	}
	if len(bz) == 0 {
		return types.Order{}, false
	}

	return types.MustUnmarshalOrder(bz), true
}

// SetOrder implements types.OrderStore
func (s *OrderStore) SetOrder(ctx context.Context, channelID string, order types.Order) {
	store := s.storeService.OpenKVStore(ctx)
	if err := store.Set(types.OrderKey(channelID, order.Id), types.MustMarshalOrder(order)); err != nil {
		panic(err)
	}
}

// CreateOrder implements types.OrderStore
func (s *OrderStore) CreateOrder(ctx context.Context, channelID string, order types.Order) error {
	store := s.storeService.OpenKVStore(ctx)
	has, err := store.Has(types.OrderKey(channelID, order.Id))
	if err != nil {
		panic(err)
	}
	if has {
		return errorsmod.Wrapf(types.ErrOrderConflict, "order %s already exists on channel %s", order.Id, channelID)
	}

	s.SetOrder(ctx, channelID, order)
	return nil
}

// IterateOrders implements types.OrderStore
func (s *OrderStore) IterateOrders(ctx context.Context, cb func(channelID string, order types.Order) bool) {
	store := runtime.KVStoreAdapter(s.storeService.OpenKVStore(ctx))
	iterator := storetypes.KVStorePrefixIterator(store, types.OrderKeyPrefix)
	defer closeIterator(iterator)

	for ; iterator.Valid(); iterator.Next() {
		channelID, _, err := parseOrderKey(iterator.Key())
		if err != nil {
			panic(err)
		}

		if cb(channelID, types.MustUnmarshalOrder(iterator.Value())) {
			break
		}
	}
}

// parseOrderKey splits a full order key into its channel and order id.
func parseOrderKey(key []byte) (string, string, error) {
	path := string(key[len(types.OrderKeyPrefix):])
	channelID, orderID, found := strings.Cut(path, "/")
	if !found {
		return "", "", fmt.Errorf("invalid order key %X", key)
	}
	return channelID, orderID, nil
}

func closeIterator(iterator storetypes.Iterator) {
	if err := iterator.Close(); err != nil {
		panic(err)
	}
}
