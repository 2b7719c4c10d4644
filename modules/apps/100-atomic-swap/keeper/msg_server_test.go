package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v10/modules/core/05-port/types"
	ibcerrors "github.com/cosmos/ibc-go/v10/modules/core/errors"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
	ibctesting "github.com/ibcswap/ibc-swap/testing"
)

func (suite *KeeperTestSuite) TestMakeSwap() {
	var msg *types.MsgMakeSwapRequest

	testCases := []struct {
		name     string
		malleate func()
		expError error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: with desired taker",
			func() {
				msg.DesiredTaker = suite.taker.String()
			},
			nil,
		},
		{
			"failure: invalid nonce",
			func() {
				msg.Nonce = "12ab56"
			},
			types.ErrInvalidNonce,
		},
		{
			"failure: swaps disabled",
			func() {
				suite.chainA.SwapKeeper.SetParams(suite.chainA.GetContext(), types.NewParams(false))
			},
			types.ErrSwapDisabled,
		},
		{
			"failure: source port is not the bound port",
			func() {
				msg.SourcePort = "transfer"
			},
			porttypes.ErrInvalidPort,
		},
		{
			"failure: channel does not exist",
			func() {
				msg.SourceChannel = "channel-100"
			},
			channeltypes.ErrChannelNotFound,
		},
		{
			"failure: order already expired",
			func() {
				msg.CreationTimestamp = suite.chainA.BlockTime() - 60
				msg.ExpirationTimestamp = suite.chainA.BlockTime()
			},
			types.ErrOrderExpired,
		},
		{
			"failure: insufficient funds",
			func() {
				msg.SellToken = sdk.NewCoin(sellDenom, sdkmath.NewInt(101))
			},
			types.ErrInsufficientFunds,
		},
		{
			"failure: send packet fails",
			func() {
				suite.chainA.ICS4Wrapper.SendPacketErr = ibcerrors.ErrInvalidRequest
			},
			ibcerrors.ErrInvalidRequest,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			msg = suite.newMakeSwapMsg()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			res, err := suite.chainA.SwapKeeper.MakeSwap(ctx, msg)

			makerBalance := suite.chainA.Balance(suite.maker, sellDenom)
			escrowBalance := suite.chainA.Balance(suite.escrowA(), sellDenom)
			totalEscrow := suite.chainA.SwapKeeper.GetTotalEscrowForDenom(suite.chainA.GetContext(), sellDenom)
			_, found := suite.chainA.SwapKeeper.GetOrder(suite.chainA.GetContext(), msg.SourceChannel, types.GenerateOrderID(msg))

			if tc.expError == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.GenerateOrderID(msg), res.OrderId)
				suite.Require().Equal(uint64(1), res.Sequence)

				suite.Require().True(makerBalance.IsZero())
				suite.Require().Equal(sellToken, escrowBalance)
				suite.Require().Equal(sellToken, totalEscrow)

				order := suite.chainA.GetOrder(msg.SourceChannel, res.OrderId)
				suite.Require().Equal(types.StatusInitial, order.Status)
				suite.Require().Equal(msg, order.Maker)
				suite.Require().Nil(order.Taker)

				packet := suite.chainA.ICS4Wrapper.LastPacket()
				suite.Require().Equal(suite.path.EndpointB.ChannelID, packet.DestinationChannel)
				data, sent, err := types.DecodePacket(packet.GetData())
				suite.Require().NoError(err)
				suite.Require().Equal(types.TypeMakeSwap, data.Type)
				suite.Require().Equal(msg, sent)

				parsedID, err := ibctesting.ParseOrderIDFromEvents(ctx.EventManager().Events())
				suite.Require().NoError(err)
				suite.Require().Equal(res.OrderId, parsedID)
			} else {
				suite.Require().ErrorIs(err, tc.expError)
				suite.Require().Nil(res)

				// nothing was escrowed or stored
				suite.Require().Equal(sellToken, makerBalance)
				suite.Require().True(escrowBalance.IsZero())
				suite.Require().True(totalEscrow.IsZero())
				suite.Require().False(found)
				suite.Require().Empty(suite.chainA.ICS4Wrapper.SentPackets)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestMakeSwapTwice() {
	msg := suite.newMakeSwapMsg()
	suite.chainA.Fund(suite.maker, sellToken)

	suite.makeSwap(msg)

	_, err := suite.chainA.SwapKeeper.MakeSwap(suite.chainA.GetContext(), msg)
	suite.Require().ErrorIs(err, types.ErrOrderConflict)

	// the second escrow was discarded with the failed transaction
	suite.Require().Equal(sellToken, suite.chainA.Balance(suite.maker, sellDenom))
	suite.Require().Equal(sellToken, suite.chainA.Balance(suite.escrowA(), sellDenom))
	suite.Require().Len(suite.chainA.ICS4Wrapper.SentPackets, 1)

	// a fresh nonce yields a distinct order
	msg.Nonce = nextNonce(msg.Nonce)
	suite.makeSwap(msg)
	suite.Require().True(suite.chainA.Balance(suite.maker, sellDenom).IsZero())
}

func (suite *KeeperTestSuite) TestTakeSwap() {
	var (
		orderID string
		msg     *types.MsgTakeSwapRequest
	)

	testCases := []struct {
		name     string
		malleate func()
		expError error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: taker is the desired taker",
			func() {
				order := suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID)
				order.Maker.DesiredTaker = suite.taker.String()
				suite.setOrder(suite.chainB, suite.path.EndpointB.ChannelID, order)
			},
			nil,
		},
		{
			"failure: swaps disabled",
			func() {
				suite.chainB.SwapKeeper.SetParams(suite.chainB.GetContext(), types.NewParams(false))
			},
			types.ErrSwapDisabled,
		},
		{
			"failure: order not found",
			func() {
				msg.OrderId = types.GenerateOrderID(suite.newMakeSwapMsg())
			},
			types.ErrOrderNotFound,
		},
		{
			"failure: order is not synchronised",
			func() {
				order := suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID)
				order.Status = types.StatusCancel
				suite.setOrder(suite.chainB, suite.path.EndpointB.ChannelID, order)
			},
			types.ErrInvalidOrderStatus,
		},
		{
			"failure: order expired",
			func() {
				suite.coordinator.IncrementTimeBy(2 * time.Hour)
			},
			types.ErrOrderExpired,
		},
		{
			"failure: token does not match the buy token",
			func() {
				msg.SellToken = sdk.NewCoin(buyDenom, sdkmath.NewInt(49))
			},
			types.ErrTokenMismatch,
		},
		{
			"failure: token denom does not match the buy token",
			func() {
				msg.SellToken = sdk.NewCoin("ujuno", buyToken.Amount)
			},
			types.ErrTokenMismatch,
		},
		{
			"failure: order already taken",
			func() {
				suite.chainB.Fund(suite.taker, buyToken)
				_, err := suite.chainB.SwapKeeper.TakeSwap(suite.chainB.GetContext(), suite.newTakeSwapMsg(orderID))
				suite.Require().NoError(err)
			},
			types.ErrAlreadyTaken,
		},
		{
			"failure: taker is not the desired taker",
			func() {
				order := suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID)
				order.Maker.DesiredTaker = suite.chainB.SenderAccounts[2].String()
				suite.setOrder(suite.chainB, suite.path.EndpointB.ChannelID, order)
			},
			types.ErrNotDesignatedTaker,
		},
		{
			"failure: order is bound to another channel",
			func() {
				order := suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID)
				order.ChannelIdOnCounterpartyChain = "channel-7"
				suite.setOrder(suite.chainB, suite.path.EndpointB.ChannelID, order)
			},
			types.ErrWrongChannel,
		},
		{
			"failure: order is the maker side copy",
			func() {
				order := suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID)
				order.Side = types.SideMaker
				suite.setOrder(suite.chainB, suite.path.EndpointB.ChannelID, order)
			},
			types.ErrWrongOrderSide,
		},
		{
			"failure: insufficient funds",
			func() {
				err := suite.chainB.BankKeeper.SendCoins(suite.chainB.GetContext(), suite.taker, suite.chainB.SenderAccounts[3], sdk.NewCoins(sdk.NewCoin(buyDenom, sdkmath.OneInt())))
				suite.Require().NoError(err)
			},
			types.ErrInsufficientFunds,
		},
		{
			"failure: send packet fails",
			func() {
				suite.chainB.ICS4Wrapper.SendPacketErr = ibcerrors.ErrInvalidRequest
			},
			ibcerrors.ErrInvalidRequest,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			orderID = suite.syncOrder()
			msg = suite.newTakeSwapMsg(orderID)

			tc.malleate()

			escrowBefore := suite.chainB.Balance(suite.escrowB(), buyDenom)
			takerBefore := suite.chainB.Balance(suite.taker, buyDenom)
			packetsBefore := len(suite.chainB.ICS4Wrapper.SentPackets)

			ctx := suite.chainB.GetContext()
			res, err := suite.chainB.SwapKeeper.TakeSwap(ctx, msg)

			if tc.expError == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(uint64(1), res.Sequence)

				suite.Require().Equal(escrowBefore.Add(buyToken), suite.chainB.Balance(suite.escrowB(), buyDenom))
				suite.Require().Equal(takerBefore.Sub(buyToken), suite.chainB.Balance(suite.taker, buyDenom))

				order := suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID)
				suite.Require().Equal(types.StatusSync, order.Status)
				suite.Require().Equal(msg, order.Taker)

				packet := suite.chainB.ICS4Wrapper.LastPacket()
				suite.Require().Equal(suite.path.EndpointB.ChannelID, packet.SourceChannel)
				suite.Require().Equal(suite.path.EndpointA.ChannelID, packet.DestinationChannel)
				_, sent, err := types.DecodePacket(packet.GetData())
				suite.Require().NoError(err)
				suite.Require().Equal(msg, sent)

				ibctesting.AssertEvents(&suite.Suite, sdk.Events{
					sdk.NewEvent(
						types.EventTypeTakeSwap,
						sdk.NewAttribute(types.AttributeKeyOrderID, orderID),
						sdk.NewAttribute(types.AttributeKeyTaker, msg.TakerAddress),
					),
				}, ctx.EventManager().Events())
			} else {
				suite.Require().ErrorIs(err, tc.expError)
				suite.Require().Nil(res)

				suite.Require().Equal(escrowBefore, suite.chainB.Balance(suite.escrowB(), buyDenom))
				suite.Require().Equal(takerBefore, suite.chainB.Balance(suite.taker, buyDenom))
				suite.Require().Len(suite.chainB.ICS4Wrapper.SentPackets, packetsBefore)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestCancelSwap() {
	var (
		orderID string
		msg     *types.MsgCancelSwapRequest
	)

	testCases := []struct {
		name     string
		malleate func()
		expError error
	}{
		{
			"success: synchronised order",
			func() {},
			nil,
		},
		{
			"success: order still in initial status",
			func() {
				suite.chainA.Fund(suite.maker, sellToken)
				orderID = suite.makeSwap(suite.newMakeSwapMsg())
				msg.OrderId = orderID
			},
			nil,
		},
		{
			"failure: swaps disabled",
			func() {
				suite.chainA.SwapKeeper.SetParams(suite.chainA.GetContext(), types.NewParams(false))
			},
			types.ErrSwapDisabled,
		},
		{
			"failure: order not found",
			func() {
				msg.OrderId = types.GenerateOrderID(suite.newMakeSwapMsg())
			},
			types.ErrOrderNotFound,
		},
		{
			"failure: sender is not the maker",
			func() {
				msg.MakerAddress = suite.chainA.SenderAccounts[2].String()
			},
			types.ErrNotMaker,
		},
		{
			"failure: order already cancelled",
			func() {
				order := suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID)
				order.Status = types.StatusCancel
				suite.setOrder(suite.chainA, suite.path.EndpointA.ChannelID, order)
			},
			types.ErrInvalidOrderStatus,
		},
		{
			"failure: order is the taker side copy",
			func() {
				order := suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID)
				order.Side = types.SideTaker
				suite.setOrder(suite.chainA, suite.path.EndpointA.ChannelID, order)
			},
			types.ErrWrongOrderSide,
		},
		{
			"failure: order was made on another channel",
			func() {
				order := suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID)
				order.Maker.SourceChannel = "channel-7"
				suite.setOrder(suite.chainA, suite.path.EndpointA.ChannelID, order)
			},
			types.ErrWrongChannel,
		},
		{
			"failure: send packet fails",
			func() {
				suite.chainA.ICS4Wrapper.SendPacketErr = ibcerrors.ErrInvalidRequest
			},
			ibcerrors.ErrInvalidRequest,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			orderID = suite.syncOrder()
			msg = suite.newCancelSwapMsg(orderID)

			tc.malleate()

			orderBefore, _ := suite.chainA.SwapKeeper.GetOrder(suite.chainA.GetContext(), suite.path.EndpointA.ChannelID, msg.OrderId)
			escrowBefore := suite.chainA.Balance(suite.escrowA(), sellDenom)
			packetsBefore := len(suite.chainA.ICS4Wrapper.SentPackets)

			res, err := suite.chainA.SwapKeeper.CancelSwap(suite.chainA.GetContext(), msg)

			// cancellation never changes local state before it is acknowledged
			orderAfter, _ := suite.chainA.SwapKeeper.GetOrder(suite.chainA.GetContext(), suite.path.EndpointA.ChannelID, msg.OrderId)
			suite.Require().Equal(orderBefore, orderAfter)
			suite.Require().Equal(escrowBefore, suite.chainA.Balance(suite.escrowA(), sellDenom))

			if tc.expError == nil {
				suite.Require().NoError(err)
				suite.Require().Len(suite.chainA.ICS4Wrapper.SentPackets, packetsBefore+1)
				suite.Require().Equal(res.Sequence, suite.chainA.ICS4Wrapper.LastPacket().Sequence)

				_, sent, err := types.DecodePacket(suite.chainA.ICS4Wrapper.LastPacket().GetData())
				suite.Require().NoError(err)
				suite.Require().Equal(msg, sent)
			} else {
				suite.Require().ErrorIs(err, tc.expError)
				suite.Require().Len(suite.chainA.ICS4Wrapper.SentPackets, packetsBefore)
			}
		})
	}
}

// escrowUnrelatedOrder makes an order on chainB so that chainB's escrow holds sellToken
// owned by a user unrelated to the path's maker and taker.
func (suite *KeeperTestSuite) escrowUnrelatedOrder() {
	owner := suite.chainB.SenderAccounts[3]
	suite.chainB.Fund(owner, sellToken)

	blockTime := suite.chainB.BlockTime()
	_, err := suite.chainB.SwapKeeper.MakeSwap(suite.chainB.GetContext(), types.NewMsgMakeSwapRequest(
		suite.path.EndpointB.ChannelConfig.PortID, suite.path.EndpointB.ChannelID,
		sellToken, buyToken,
		owner.String(), suite.chainA.SenderAccounts[3].String(), "",
		blockTime, blockTime+3600,
		clienttypes.NewHeight(1, 110), 0,
		types.NewNonce(),
	))
	suite.Require().NoError(err)
	suite.Require().Equal(sellToken, suite.chainB.Balance(suite.escrowB(), sellDenom))
}

// TestTakeSwapOnMakerChain takes an order through its maker chain copy. Both ends of the
// path use the same channel id, so the copy is found under the take's channel.
func (suite *KeeperTestSuite) TestTakeSwapOnMakerChain() {
	suite.Require().Equal(suite.path.EndpointA.ChannelID, suite.path.EndpointB.ChannelID)

	suite.escrowUnrelatedOrder()
	orderID := suite.syncOrder()

	// the maker pays the buy token on its own chain
	receiver := suite.chainB.SenderAccounts[4]
	suite.chainA.Fund(suite.maker, buyToken)
	msg := types.NewMsgTakeSwapRequest(
		suite.path.EndpointA.ChannelID, orderID,
		buyToken,
		suite.maker.String(), receiver.String(),
		suite.chainA.BlockTime(),
		clienttypes.NewHeight(1, 110), 0,
	)
	packetsBefore := len(suite.chainA.ICS4Wrapper.SentPackets)

	_, err := suite.chainA.SwapKeeper.TakeSwap(suite.chainA.GetContext(), msg)
	suite.Require().ErrorIs(err, types.ErrWrongOrderSide)

	suite.Require().Len(suite.chainA.ICS4Wrapper.SentPackets, packetsBefore)
	suite.Require().Equal(buyToken, suite.chainA.Balance(suite.maker, buyDenom))
	suite.Require().Equal(sellToken, suite.chainA.Balance(suite.escrowA(), sellDenom))
	suite.Require().Nil(suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID).Taker)

	// a take packet for the order does not release chainB's escrow either
	ack := suite.path.EndpointB.RecvPacket(newPacket(suite.path.EndpointA, 2, msg))
	suite.Require().False(ack.Success())

	suite.Require().Equal(sellToken, suite.chainB.Balance(suite.escrowB(), sellDenom))
	suite.Require().True(suite.chainB.Balance(receiver, sellDenom).IsZero())
	suite.Require().Equal(types.StatusSync, suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID).Status)
}

// TestCancelSwapOnTakerChain cancels an order through its taker chain copy. Both chains
// share the address prefix and the channel id, so the copy matches the maker and channel
// of the request.
func (suite *KeeperTestSuite) TestCancelSwapOnTakerChain() {
	suite.Require().Equal(suite.path.EndpointA.ChannelID, suite.path.EndpointB.ChannelID)

	suite.escrowUnrelatedOrder()
	orderID := suite.syncOrder()

	msg := types.NewMsgCancelSwapRequest(
		suite.path.EndpointB.ChannelID, orderID, suite.maker.String(),
		suite.chainB.BlockTime(),
		clienttypes.NewHeight(1, 110), 0,
	)
	packetsBefore := len(suite.chainB.ICS4Wrapper.SentPackets)

	_, err := suite.chainB.SwapKeeper.CancelSwap(suite.chainB.GetContext(), msg)
	suite.Require().ErrorIs(err, types.ErrWrongOrderSide)
	suite.Require().Len(suite.chainB.ICS4Wrapper.SentPackets, packetsBefore)

	// a cancel packet sent from chainB does not cancel the maker copy
	packet := newPacket(suite.path.EndpointB, 2, msg)
	ack := suite.path.EndpointA.RecvPacket(packet)
	suite.Require().False(ack.Success())

	// acknowledging it on chainB does not refund from chainB's escrow
	err = suite.chainB.SwapKeeper.OnAcknowledgementPacket(suite.chainB.GetContext(), packet, msg, channeltypes.NewResultAcknowledgement([]byte{byte(1)}))
	suite.Require().ErrorIs(err, types.ErrWrongOrderSide)

	suite.Require().Equal(types.StatusSync, suite.chainA.GetOrder(suite.path.EndpointA.ChannelID, orderID).Status)
	suite.Require().Equal(types.StatusSync, suite.chainB.GetOrder(suite.path.EndpointB.ChannelID, orderID).Status)
	suite.Require().Equal(sellToken, suite.chainA.Balance(suite.escrowA(), sellDenom))
	suite.Require().Equal(sellToken, suite.chainB.Balance(suite.escrowB(), sellDenom))
	suite.Require().True(suite.chainB.Balance(suite.maker, sellDenom).IsZero())
}

func (suite *KeeperTestSuite) TestUpdateParams() {
	testCases := []struct {
		name     string
		signer   string
		expError error
	}{
		{"success: authority updates params", suite.chainA.SwapKeeper.GetAuthority(), nil},
		{"failure: signer is not the authority", suite.maker.String(), ibcerrors.ErrUnauthorized},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest() // reset

			msg := types.NewMsgUpdateParams(tc.signer, types.NewParams(false))
			_, err := suite.chainA.SwapKeeper.UpdateParams(suite.chainA.GetContext(), msg)

			if tc.expError == nil {
				suite.Require().NoError(err)
				suite.Require().False(suite.chainA.SwapKeeper.GetParams(suite.chainA.GetContext()).SwapEnabled)
			} else {
				suite.Require().ErrorIs(err, tc.expError)
				suite.Require().True(suite.chainA.SwapKeeper.GetParams(suite.chainA.GetContext()).SwapEnabled)
			}
		})
	}
}

// nextNonce returns a nonce different from nonce.
func nextNonce(nonce string) string {
	if nonce == "000000" {
		return "000001"
	}
	return "000000"
}
