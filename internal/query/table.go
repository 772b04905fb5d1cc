package query

import "context"

// Table 通用结果表（强类型实体见 domain 包，面板渲染与导出只依赖 Table）
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of a column, -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Result is what panels render. Err is a user-visible message; an empty table
// with an empty Err means either no data or a declined query (callers are not
// required to distinguish the two).
type Result struct {
	Table Table  `json:"table"`
	Err   string `json:"error,omitempty"`
}

// NamedQuery 具名参数化查询（名称用于日志与缓存键）
type NamedQuery struct {
	Name string
	SQL  string
}

// Runner is implemented by the executor and by the caching layer that wraps
// it, so repositories never know whether a result came from the store.
type Runner interface {
	Run(ctx context.Context, q NamedQuery, args ...any) Result
}
