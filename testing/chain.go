package ibctesting

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	storetypes "cosmossdk.io/store/types"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	atomicswap "github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/keeper"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
	"github.com/ibcswap/ibc-swap/testing/mock"
)

// MaxAccounts is the number of funded-ready sender accounts created for every chain.
const MaxAccounts = 10

// TestChain is a testing struct that wraps an atomic swap keeper and its collaborators
// over an in-memory multistore. The chain's context carries the current block header.
type TestChain struct {
	testing.TB

	Coordinator *Coordinator
	ChainID     string
	StoreKey    *storetypes.KVStoreKey

	BankKeeper    *mock.BankKeeper
	ChannelKeeper *mock.ChannelKeeper
	ICS4Wrapper   *mock.ICS4Wrapper

	SwapKeeper keeper.Keeper
	SwapModule atomicswap.IBCModule

	// SenderAccounts are plain accounts used as makers, takers and relayers.
	SenderAccounts []sdk.AccAddress

	ctx                 sdk.Context
	nextChannelSequence uint64
}

// NewTestChain initializes a new test chain with the atomic swap module bound to its
// default port and enabled.
func NewTestChain(tb testing.TB, coord *Coordinator, chainID string) *TestChain {
	tb.Helper()

	key := storetypes.NewKVStoreKey(types.StoreKey)
	tkey := storetypes.NewTransientStoreKey(fmt.Sprintf("transient_%s", types.StoreKey))
	testCtx := testutil.DefaultContextWithDB(tb, key, tkey)

	storeService := runtime.NewKVStoreService(key)
	channelKeeper := mock.NewChannelKeeper()
	ics4Wrapper := mock.NewICS4Wrapper(channelKeeper)
	bankKeeper := mock.NewBankKeeper(key)

	swapKeeper := keeper.NewKeeper(
		storeService,
		keeper.NewOrderStore(storeService),
		ics4Wrapper,
		channelKeeper,
		bankKeeper,
		authtypes.NewModuleAddress(govtypes.ModuleName).String(),
	)

	senders := make([]sdk.AccAddress, MaxAccounts)
	for i := range senders {
		senders[i] = sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
	}

	chain := &TestChain{
		TB:             tb,
		Coordinator:    coord,
		ChainID:        chainID,
		StoreKey:       key,
		BankKeeper:     bankKeeper,
		ChannelKeeper:  channelKeeper,
		ICS4Wrapper:    ics4Wrapper,
		SwapKeeper:     swapKeeper,
		SwapModule:     atomicswap.NewIBCModule(swapKeeper),
		SenderAccounts: senders,
	}

	chain.ctx = testCtx.Ctx.WithBlockHeader(cmtproto.Header{
		ChainID: chainID,
		Height:  1,
		Time:    coord.CurrentTime.UTC(),
	})

	swapKeeper.InitGenesis(chain.ctx, *types.DefaultGenesisState())

	return chain
}

// GetContext returns the context of the current block with a fresh event manager.
func (chain *TestChain) GetContext() sdk.Context {
	return chain.ctx.WithEventManager(sdk.NewEventManager())
}

// NextBlock moves the chain to the next block height at the coordinator's current time.
func (chain *TestChain) NextBlock() {
	header := chain.ctx.BlockHeader()
	header.Height++
	header.Time = chain.Coordinator.CurrentTime.UTC()
	chain.ctx = chain.ctx.WithBlockHeader(header)
}

// NextChannelID reserves and returns the next channel identifier of the chain.
func (chain *TestChain) NextChannelID() string {
	channelID := fmt.Sprintf("channel-%d", chain.nextChannelSequence)
	chain.nextChannelSequence++
	return channelID
}

// BlockTime returns the current block time in unix seconds.
func (chain *TestChain) BlockTime() uint64 {
	return uint64(chain.ctx.BlockTime().Unix())
}

// Fund mints coins to addr.
func (chain *TestChain) Fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	chain.BankKeeper.MintCoins(chain.GetContext(), addr, sdk.NewCoins(coins...))
}

// Balance returns the balance of addr in denom.
func (chain *TestChain) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return chain.BankKeeper.GetBalance(chain.GetContext(), addr, denom)
}

// GetOrder returns the order stored under the local channel and requires it to exist.
func (chain *TestChain) GetOrder(channelID, orderID string) types.Order {
	order, found := chain.SwapKeeper.GetOrder(chain.GetContext(), channelID, orderID)
	require.True(chain.TB, found, "order %s not found on %s/%s", orderID, chain.ChainID, channelID)
	return order
}
