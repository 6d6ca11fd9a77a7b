// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts describe semantic write boundaries (container rollup, audited entity
// mutations) without persistence or transport details.
package aggregates
