package aggregates

// TxOwnership names who opens the transaction around a write path.
type TxOwnership string

const (
	// TxNone is for read paths; they never open a write transaction.
	TxNone TxOwnership = ""
	// TxOwnedByAggregate means the write path begins and commits its own transaction.
	// Callers hand it a context, never a *gorm.DB transaction.
	TxOwnedByAggregate TxOwnership = "aggregate_owned"
)

// ReadPolicy names which queries a path may run.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped limits a write path to the reads its invariants need.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries is for read models that query table repos directly.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

type Contract struct {
	Name  string
	Tx    TxOwnership
	Reads ReadPolicy
	Notes string
}

// Aggregate is implemented by every write path and read model that states a contract.
type Aggregate interface {
	Contract() Contract
}

func (c Contract) OwnsTx() bool { return c.Tx == TxOwnedByAggregate }

// ReadOnly reports a read model: no transaction of its own and table repo queries only.
func (c Contract) ReadOnly() bool {
	return c.Tx == TxNone && c.Reads == ReadPolicyTableRepoQueries
}
