package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/keeper"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

func (suite *KeeperTestSuite) TestInvariants() {
	var orderID string

	testCases := []struct {
		name      string
		malleate  func()
		expBroken bool
	}{
		{
			"success: escrow and orders are consistent",
			func() {},
			false,
		},
		{
			"success: escrow holds more than recorded",
			func() {
				suite.chainA.Fund(suite.escrowA(), sdk.NewCoin(sellDenom, sdkmath.NewInt(5)))
			},
			false,
		},
		{
			"failure: recorded escrow exceeds escrow balances",
			func() {
				suite.chainA.SwapKeeper.SetTotalEscrowForDenom(suite.chainA.GetContext(), sellToken.AddAmount(sdkmath.OneInt()))
			},
			true,
		},
		{
			"failure: order id does not match its maker request",
			func() {
				order := suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID)
				order.Maker.Nonce = nextNonce(order.Maker.Nonce)
				suite.setOrder(suite.chainA, suite.path.EndpointA.ChannelID, order)
			},
			true,
		},
		{
			"failure: maker side order bound to a taker channel",
			func() {
				order := suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID)
				order.PortIdOnCounterpartyChain = suite.path.EndpointB.ChannelConfig.PortID
				order.ChannelIdOnCounterpartyChain = suite.path.EndpointB.ChannelID
				suite.setOrder(suite.chainA, suite.path.EndpointA.ChannelID, order)
			},
			true,
		},
		{
			"failure: completed order without a taker",
			func() {
				order := suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID)
				order.Status = types.StatusComplete
				suite.setOrder(suite.chainA, suite.path.EndpointA.ChannelID, order)
			},
			true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			orderID = suite.syncOrder()

			tc.malleate()

			msg, broken := keeper.AllInvariants(&suite.chainA.SwapKeeper)(suite.chainA.GetContext())
			suite.Require().Equal(tc.expBroken, broken, msg)
		})
	}
}
