/*
Package registry implements the asset registry and certificate
issuance engine.

Every real-world asset identifier is normalized and hashed into a
canonical key. The registry guarantees that each canonical key is bound
at most once, forever. A successful issuance charges the configured
fee, draws the next certificate id from a checked sequence and creates
a registry entry together with an ownable certificate.
*/
package registry
