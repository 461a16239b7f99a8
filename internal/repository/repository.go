package repository

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vanshika/vizdash/internal/domain"
	"github.com/vanshika/vizdash/internal/graph"
)

// DefaultBatchSize bounds the rows sent in one UNWIND write.
const DefaultBatchSize = 500

// ErrInvalidTransaction is returned for records that cannot become an edge.
var ErrInvalidTransaction = errors.New("invalid aid transaction")

// Repository stores aid transactions as DONATED edges between Entity nodes.
type Repository struct {
	client    graph.Client
	batchSize int
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client, batchSize: DefaultBatchSize}
}

// WithBatchSize overrides the rows per write transaction.
func (r *Repository) WithBatchSize(n int) *Repository {
	if n > 0 {
		r.batchSize = n
	}
	return r
}

// EnsureSchema creates the uniqueness constraint on entity names.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	err := r.client.WriteBatch(ctx, []graph.Query{{Cypher: entityConstraintCypher}})
	return errors.Wrap(err, "ensure entity constraint")
}

// UpsertAidTransactions merges txs into the graph. Rows sharing donor,
// recipient and year are summed first; the resulting edge amount replaces
// any stored one, so re-ingesting the same file is idempotent.
func (r *Repository) UpsertAidTransactions(ctx context.Context, txs []domain.AidTransaction) error {
	rows, err := edgeRows(txs)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	queries := make([]graph.Query, 0, len(rows)/r.batchSize+1)
	for start := 0; start < len(rows); start += r.batchSize {
		end := min(start+r.batchSize, len(rows))
		queries = append(queries, graph.Query{
			Cypher: upsertDonationsCypher,
			Params: map[string]any{"rows": rows[start:end]},
		})
	}

	if err := r.client.WriteBatch(ctx, queries); err != nil {
		return errors.Wrapf(err, "upsert %d aid transactions", len(rows))
	}
	return nil
}

// ListAidTransactions returns every DONATED edge ordered by year, donor
// and recipient.
func (r *Repository) ListAidTransactions(ctx context.Context) ([]domain.AidTransaction, error) {
	res, err := r.client.Read(ctx, graph.Query{Cypher: listDonationsCypher})
	if err != nil {
		return nil, errors.Wrap(err, "list aid transactions")
	}

	txs := make([]domain.AidTransaction, 0, len(res.Records))
	for i, rec := range res.Records {
		tx, err := transactionFromRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Counts reports the number of entities and donation edges stored.
func (r *Repository) Counts(ctx context.Context) (entities, donations int, err error) {
	res, err := r.client.Read(ctx, graph.Query{Cypher: countCypher})
	if err != nil {
		return 0, 0, errors.Wrap(err, "count graph")
	}
	if len(res.Records) == 0 {
		return 0, 0, nil
	}
	rec := res.Records[0]
	if entities, err = rec.Int("entities"); err != nil {
		return 0, 0, err
	}
	if donations, err = rec.Int("donations"); err != nil {
		return 0, 0, err
	}
	return entities, donations, nil
}

// Reset removes every entity and its edges.
func (r *Repository) Reset(ctx context.Context) error {
	err := r.client.WriteBatch(ctx, []graph.Query{{Cypher: resetCypher}})
	return errors.Wrap(err, "reset graph")
}

type edgeKey struct {
	donor, recipient string
	year             int
}

func edgeRows(txs []domain.AidTransaction) ([]map[string]any, error) {
	index := make(map[edgeKey]int, len(txs))
	rows := make([]map[string]any, 0, len(txs))
	for i, tx := range txs {
		donor := strings.TrimSpace(tx.Donor)
		recipient := strings.TrimSpace(tx.Recipient)
		if donor == "" || recipient == "" {
			return nil, errors.Wrapf(ErrInvalidTransaction, "row %d: donor and recipient are required", i)
		}
		key := edgeKey{donor: donor, recipient: recipient, year: tx.Year}
		if at, ok := index[key]; ok {
			rows[at]["amount"] = rows[at]["amount"].(float64) + tx.Amount
			continue
		}
		index[key] = len(rows)
		rows = append(rows, map[string]any{
			"donor":     donor,
			"recipient": recipient,
			"year":      int64(tx.Year),
			"amount":    tx.Amount,
		})
	}
	return rows, nil
}

func transactionFromRecord(rec graph.Record) (domain.AidTransaction, error) {
	var (
		tx  domain.AidTransaction
		err error
	)
	if tx.Donor, err = rec.String("donor"); err != nil {
		return tx, err
	}
	if tx.Recipient, err = rec.String("recipient"); err != nil {
		return tx, err
	}
	if tx.Year, err = rec.Int("year"); err != nil {
		return tx, err
	}
	if tx.Amount, err = rec.Float("amount"); err != nil {
		return tx, err
	}
	return tx, nil
}

const entityConstraintCypher = `
CREATE CONSTRAINT entity_name IF NOT EXISTS
FOR (e:Entity) REQUIRE e.name IS UNIQUE
`

const upsertDonationsCypher = `
UNWIND $rows AS row
MERGE (d:Entity {name: row.donor})
MERGE (c:Entity {name: row.recipient})
MERGE (d)-[r:DONATED {year: row.year}]->(c)
SET r.amount = row.amount
`

const listDonationsCypher = `
MATCH (d:Entity)-[r:DONATED]->(c:Entity)
RETURN d.name AS donor, c.name AS recipient, r.year AS year, r.amount AS amount
ORDER BY year, donor, recipient
`

const countCypher = `
MATCH (e:Entity)
OPTIONAL MATCH (e)-[r:DONATED]->()
RETURN count(DISTINCT e) AS entities, count(r) AS donations
`

const resetCypher = `
MATCH (e:Entity)
DETACH DELETE e
`
