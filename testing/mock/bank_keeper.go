package mock

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

var _ types.BankKeeper = (*BankKeeper)(nil)

var (
	balancesPrefix = []byte("bank/balances/")
	supplyPrefix   = []byte("bank/supply/")
)

// BankKeeper is a minimal ledger persisted in a KV store of the test chain, so that
// writes are discarded together with the rest of a cached context.
type BankKeeper struct {
	storeKey storetypes.StoreKey
	blocked  map[string]bool
}

// NewBankKeeper returns a ledger persisting balances under storeKey.
func NewBankKeeper(storeKey storetypes.StoreKey) *BankKeeper {
	return &BankKeeper{
		storeKey: storeKey,
		blocked:  make(map[string]bool),
	}
}

// BlockAddress prevents addr from receiving funds.
func (bk *BankKeeper) BlockAddress(addr sdk.AccAddress) {
	bk.blocked[addr.String()] = true
}

// MintCoins credits amt to addr and increases the supply accordingly.
func (bk *BankKeeper) MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) {
	for _, coin := range amt {
		bk.setBalance(ctx, addr, bk.GetBalance(ctx, addr, coin.Denom).Add(coin))
		bk.setSupply(ctx, bk.GetSupply(ctx, coin.Denom).Add(coin))
	}
}

// SendCoins moves amt from fromAddr to toAddr. Either every coin moves or none does.
func (bk *BankKeeper) SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}

	for _, coin := range amt {
		if balance := bk.GetBalance(ctx, fromAddr, coin.Denom); balance.IsLT(coin) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "spendable balance %s is smaller than %s", balance, coin)
		}
	}

	for _, coin := range amt {
		bk.setBalance(ctx, fromAddr, bk.GetBalance(ctx, fromAddr, coin.Denom).Sub(coin))
		bk.setBalance(ctx, toAddr, bk.GetBalance(ctx, toAddr, coin.Denom).Add(coin))
	}

	return nil
}

// GetBalance returns the balance of addr in denom.
func (bk *BankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := bk.balances(ctx, addr).Get([]byte(denom))
	return sdk.NewCoin(denom, unmarshalAmount(bz))
}

// GetAllBalances returns every non-zero balance of addr.
func (bk *BankKeeper) GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins {
	iterator := bk.balances(ctx, addr).Iterator(nil, nil)
	defer iterator.Close()

	coins := sdk.NewCoins()
	for ; iterator.Valid(); iterator.Next() {
		coins = coins.Add(sdk.NewCoin(string(iterator.Key()), unmarshalAmount(iterator.Value())))
	}

	return coins
}

// GetSupply returns the total supply of denom.
func (bk *BankKeeper) GetSupply(ctx context.Context, denom string) sdk.Coin {
	bz := bk.supply(ctx).Get([]byte(denom))
	return sdk.NewCoin(denom, unmarshalAmount(bz))
}

// BlockedAddr reports whether addr may not receive funds.
func (bk *BankKeeper) BlockedAddr(addr sdk.AccAddress) bool {
	return bk.blocked[addr.String()]
}

func (bk *BankKeeper) setBalance(ctx context.Context, addr sdk.AccAddress, balance sdk.Coin) {
	store := bk.balances(ctx, addr)
	if balance.IsZero() {
		store.Delete([]byte(balance.Denom))
		return
	}
	store.Set([]byte(balance.Denom), marshalAmount(balance.Amount))
}

func (bk *BankKeeper) setSupply(ctx context.Context, supply sdk.Coin) {
	bk.supply(ctx).Set([]byte(supply.Denom), marshalAmount(supply.Amount))
}

func (bk *BankKeeper) balances(ctx context.Context, addr sdk.AccAddress) prefix.Store {
	key := append(append([]byte{}, balancesPrefix...), address.MustLengthPrefix(addr)...)
	return prefix.NewStore(sdk.UnwrapSDKContext(ctx).KVStore(bk.storeKey), key)
}

func (bk *BankKeeper) supply(ctx context.Context) prefix.Store {
	return prefix.NewStore(sdk.UnwrapSDKContext(ctx).KVStore(bk.storeKey), supplyPrefix)
}

func marshalAmount(amount sdkmath.Int) []byte {
	bz, err := amount.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}

func unmarshalAmount(bz []byte) sdkmath.Int {
	if len(bz) == 0 {
		return sdkmath.ZeroInt()
	}

	amount := sdkmath.Int{}
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}
	return amount
}
