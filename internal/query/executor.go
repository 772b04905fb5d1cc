package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Executor runs parameterized SQL and converts result sets to tabular form.
// It never returns an error to its caller: a reporting page must not crash on
// one bad query, so failures are logged (kind + message + query text) and
// surfaced as a message inside the Result, isolated to that panel.
type Executor struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewExecutor(db *sql.DB, logger *zap.Logger) *Executor {
	return &Executor{db: db, logger: logger}
}

var _ Runner = (*Executor)(nil)

func (e *Executor) Run(ctx context.Context, q NamedQuery, args ...any) Result {
	rows, err := e.db.QueryContext(ctx, q.SQL, args...)
	if err != nil {
		return e.fail(q, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return e.fail(q, err)
	}

	out := make([][]string, 0, 16)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return e.fail(q, err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return e.fail(q, err)
	}

	return Result{Table: Table{Columns: cols, Rows: out}}
}

func (e *Executor) fail(q NamedQuery, err error) Result {
	e.logger.Error("query failed",
		zap.String("query", q.Name),
		zap.String("kind", fmt.Sprintf("%T", err)),
		zap.String("sql", q.SQL),
		zap.Error(err),
	)
	return Result{Err: fmt.Sprintf("query %s failed: %v", q.Name, err)}
}

// formatValue 统一转成单元格文本（MySQL 驱动多数列返回 []byte）
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", x)
	}
}
