/*
Package payment implements the multi-currency service payment ledger.

Each accepted currency has a fixed configured price. A payment debits
the payer, credits the treasury, grants service credits and updates the
payer's lifetime statistics with checked arithmetic. Statistics are
updated only after the transfer succeeded.
*/
package payment
