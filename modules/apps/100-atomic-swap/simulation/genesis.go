package simulation

import (
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// RandomizedGenState generates a random GenesisState for the atomic swap module.
func RandomizedGenState(simState *module.SimulationState) {
	swapEnabled := simState.Rand.Intn(10) > 0

	genesis := types.NewGenesisState(types.PortID, types.NewParams(swapEnabled), []types.GenesisOrder{}, nil)
	simState.GenState[types.ModuleName] = types.MustMarshalGenesis(*genesis)
}
