/*
Package certmint defines the common interfaces that tie the marketplace
core together: the key-value store contract, derived addressing,
messages and transactions, handlers, and the context helpers shared by
all engines.

Every public operation of the system is a Msg delivered by the router
to exactly one engine handler. A handler validates the message, loads
the records it owns through typed buckets, mutates them, and returns a
DeliverResult carrying structured events for off-chain indexing. The
store passed to a handler is a scratch cache that is written to the
backing store only when the whole delivery succeeds, so a failed
operation never leaves partial mutation behind.
*/
package certmint
