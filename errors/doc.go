/*
Package errors implements custom error interfaces for certmint.

Errors are categorized by registered root error kinds, each carrying a
unique code. An error instance created during runtime should always
wrap one of the root kinds, which allows testing errors with the kind's
Is method and returning them to the caller in a safe manner.

Engine packages register their own kinds in their errors.go file. Code
ranges are assigned per package:

	errors:     1-99
	orm:        100-109
	x/cash:     1100-1109
	x/registry: 1300-1309
	x/token:    1400-1409
	x/market:   1500-1509
	x/payment:  1600-1609
*/
package errors
