/*
Package token implements the capped-supply fungible currency engine.

Base currency is exchanged for the engine currency at a fixed rate.
The total supply lives in the engine configuration and every change to
it is checked against the cap before any funds move. Redeeming burns
first and credits base currency after, so a failed redemption can
never leave freshly credited funds behind. Account owners can approve
delegated spenders.
*/
package token
