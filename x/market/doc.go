/*
Package market implements the certificate escrow marketplace engine.

A listing takes custody of the certificate at an escrow address derived
from the listing key. Buying or cancelling flips the listing's active
flag before any funds or custody move, so a listing can be consumed at
most once. The sale price is split exactly between the seller and the
fee collector.
*/
package market
