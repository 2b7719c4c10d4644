package types

// DefaultSwapEnabled enabled
const DefaultSwapEnabled = true

// Params defines the parameters of the atomic swap module.
type Params struct {
	// SwapEnabled enables or disables all atomic swap operations on this chain, local
	// transactions and inbound packets alike.
	SwapEnabled bool `json:"swap_enabled"`
}

// NewParams creates a new parameter configuration for the atomic swap module
func NewParams(swapEnabled bool) Params {
	return Params{
		SwapEnabled: swapEnabled,
	}
}

// DefaultParams is the default parameter configuration for the atomic swap module
func DefaultParams() Params {
	return NewParams(DefaultSwapEnabled)
}
