package repo

import (
	"context"
	"database/sql"
	"errors"

	"gqlbench/internal/lib/querycount"
	"gqlbench/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// observe accounts for one statement issued by op.
func observe(ctx context.Context, op string) {
	querycount.Inc(ctx)
	metrics.DBQueries.WithLabelValues(op).Inc()
}

func selectAll(ctx context.Context, db sqlx.ExtContext, op string, dest any, query string, args ...any) error {
	observe(ctx, op)
	return sqlx.SelectContext(ctx, db, dest, db.Rebind(query), args...)
}

func getOne(ctx context.Context, db sqlx.ExtContext, op string, dest any, query string, args ...any) error {
	observe(ctx, op)
	return sqlx.GetContext(ctx, db, dest, db.Rebind(query), args...)
}

// selectIn expands the single IN (?) placeholder of query over keys.
func selectIn[K comparable](ctx context.Context, db sqlx.ExtContext, op string, dest any, query string, keys []K) error {
	q, args, err := sqlx.In(query, keys)
	if err != nil {
		return err
	}
	return selectAll(ctx, db, op, dest, q, args...)
}

func exec(ctx context.Context, db sqlx.ExtContext, op string, query string, args ...any) (int64, error) {
	observe(ctx, op)
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func uniqueKeys(keys []int64) []int64 {
	seen := make(map[int64]struct{}, len(keys))
	out := make([]int64, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
