/*
Package atomicswap implements ICS-100, the cross-chain atomic swap IBC application.

A maker escrows a sell token on its chain and announces an order to the counterparty
chain with a make packet. A taker on the counterparty chain escrows the requested buy
token and sends a take packet back. On receipt the maker chain releases the maker's
escrow to the taker, and on acknowledgement the taker chain releases the taker's escrow
to the maker. Failed or timed out packets refund the tokens escrowed for them.
*/
package atomicswap
