package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ContainerRollupAggregateContract = Contract{
	Name:  "Shipping.ContainerRollupAggregate",
	Tx:    TxOwnedByAggregate,
	Reads: ReadPolicyInvariantScoped,
	Notes: "Recomputes container totals from every descendant loading item in its own transaction. " +
		"Serialized per container and guarded by a rollup_version compare-and-swap.",
}

// ContainerRollupAggregate keeps Container.total_* and client_count equal to the
// aggregation over the container's loading items.
//
// Recalculate on a missing container is a no-op that returns zero totals.
type ContainerRollupAggregate interface {
	Aggregate

	Recalculate(ctx context.Context, containerID uuid.UUID) (ContainerTotals, error)
}

type ContainerTotals struct {
	ContainerID uuid.UUID       `json:"containerId"`
	TotalCtn    int64           `json:"totalCtn"`
	TotalCbm    decimal.Decimal `json:"totalCbm"`
	TotalWt     decimal.Decimal `json:"totalWt"`
	ClientCount int64           `json:"clientCount"`
	Found       bool            `json:"-"`
}

// AuditedMutationContract covers every module service write: the entity change and its
// activity records commit together.
var AuditedMutationContract = Contract{
	Name:  "Audit.AuditedMutation",
	Tx:    TxOwnedByAggregate,
	Reads: ReadPolicyInvariantScoped,
	Notes: "Entity write and its activity records commit together. DELETE records are written " +
		"before the row is removed, inside the same transaction.",
}

// FeedReadContract covers the federated activity feed.
var FeedReadContract = Contract{
	Name:  "Audit.FeedRead",
	Tx:    TxNone,
	Reads: ReadPolicyTableRepoQueries,
	Notes: "Queries each module's activity table concurrently and merges in memory. Never writes.",
}
