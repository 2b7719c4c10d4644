package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
)

// ModuleCdc references the global atomic swap module codec. It is only used to decode
// the protobuf JSON acknowledgements written by core IBC.
var ModuleCdc = codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
