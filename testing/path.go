package ibctesting

import (
	"github.com/stretchr/testify/require"
)

// Path contains two endpoints representing two chains connected over IBC
type Path struct {
	EndpointA *Endpoint
	EndpointB *Endpoint
}

// NewPath constructs an endpoint for each chain using the default atomic swap channel
// configuration. The counterparty of each endpoint is set.
func NewPath(chainA, chainB *TestChain) *Path {
	endpointA := NewEndpoint(chainA)
	endpointB := NewEndpoint(chainB)

	endpointA.Counterparty = endpointB
	endpointB.Counterparty = endpointA

	return &Path{
		EndpointA: endpointA,
		EndpointB: endpointB,
	}
}

// Setup runs the channel handshake between the two endpoints. It fails the test if any
// step returns an error.
func (path *Path) Setup() {
	require.NoError(path.EndpointA.Chain, path.EndpointA.ChanOpenInit())
	require.NoError(path.EndpointB.Chain, path.EndpointB.ChanOpenTry())
	require.NoError(path.EndpointA.Chain, path.EndpointA.ChanOpenAck())
	require.NoError(path.EndpointB.Chain, path.EndpointB.ChanOpenConfirm())
}
