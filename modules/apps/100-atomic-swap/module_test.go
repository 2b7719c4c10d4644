package atomicswap_test

import (
	"encoding/json"

	atomicswap "github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap"
	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
	ibctesting "github.com/ibcswap/ibc-swap/testing"
)

func (suite *AtomicSwapTestSuite) TestGenesis() {
	basic := atomicswap.AppModuleBasic{}

	bz := basic.DefaultGenesis(nil)
	suite.Require().NoError(basic.ValidateGenesis(nil, nil, bz))

	suite.Require().Error(basic.ValidateGenesis(nil, nil, json.RawMessage(`{"port_id":"(invalid)"}`)))
	suite.Require().Error(basic.ValidateGenesis(nil, nil, json.RawMessage(`not json`)))

	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.Setup()

	msg := newMakeSwapMsg(suite, path)
	suite.chainA.Fund(suite.chainA.SenderAccounts[0], msg.SellToken)
	_, err := suite.chainA.SwapKeeper.MakeSwap(suite.chainA.GetContext(), msg)
	suite.Require().NoError(err)

	exported := atomicswap.NewAppModule(suite.chainA.SwapKeeper).ExportGenesis(suite.chainA.GetContext(), nil)
	suite.Require().NoError(basic.ValidateGenesis(nil, nil, exported))

	chainC := ibctesting.NewTestChain(suite.T(), suite.coordinator, ibctesting.GetChainID(3))
	appModule := atomicswap.NewAppModule(chainC.SwapKeeper)
	suite.Require().NotPanics(func() {
		appModule.InitGenesis(chainC.GetContext(), nil, exported)
	})
	suite.Require().Equal(string(exported), string(appModule.ExportGenesis(chainC.GetContext(), nil)))

	suite.Require().Panics(func() {
		appModule.InitGenesis(chainC.GetContext(), nil, json.RawMessage(`{`))
	})

	_, found := chainC.SwapKeeper.GetOrder(chainC.GetContext(), path.EndpointA.ChannelID, types.GenerateOrderID(msg))
	suite.Require().True(found)
}
