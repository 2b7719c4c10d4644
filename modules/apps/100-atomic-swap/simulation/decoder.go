package simulation

import (
	"bytes"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// NewDecodeStore returns a decoder function closure that unmarshals the KVPair's
// Value to the corresponding atomic swap type.
func NewDecodeStore() func(kvA, kvB kv.Pair) string {
	return func(kvA, kvB kv.Pair) string {
		switch {
		case bytes.Equal(kvA.Key[:1], types.PortKey):
			return fmt.Sprintf("Port A: %s\nPort B: %s", string(kvA.Value), string(kvB.Value))

		case bytes.Equal(kvA.Key[:1], types.OrderKeyPrefix):
			orderA := types.MustUnmarshalOrder(kvA.Value)
			orderB := types.MustUnmarshalOrder(kvB.Value)
			return fmt.Sprintf("Order A: %s %s\nOrder B: %s %s", orderA.Id, orderA.Status, orderB.Id, orderB.Status)

		case bytes.Equal(kvA.Key[:1], types.ParamsKey):
			return fmt.Sprintf("SwapEnabled A: %t\nSwapEnabled B: %t", kvA.Value[0] == 1, kvB.Value[0] == 1)

		case bytes.HasPrefix(kvA.Key, types.TotalEscrowKeyPrefix):
			var amountA, amountB sdkmath.Int
			if err := amountA.Unmarshal(kvA.Value); err != nil {
				panic(err)
			}
			if err := amountB.Unmarshal(kvB.Value); err != nil {
				panic(err)
			}
			return fmt.Sprintf("TotalEscrow A: %s\nTotalEscrow B: %s", amountA, amountB)

		default:
			panic(fmt.Errorf("invalid %s key prefix %X", types.ModuleName, kvA.Key[:1]))
		}
	}
}
