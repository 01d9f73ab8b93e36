/*
Package orm provides an easy to use db wrapper.

Break state space into prefixed sections called buckets, and use
strongly typed models to store and load entities. Sequences provide
overflow-checked auto-increment counters for primary keys.
*/
package orm
