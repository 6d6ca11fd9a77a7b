// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// It owns transaction boundaries (TxRunner), error mapping onto aggregate codes, the
// compare-and-swap guard, and the container rollup.
package aggregates
