package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/query"
	"github.com/technolab03/Technolab-dashboard/internal/store"

	"go.uber.org/zap"
)

// DefaultTTL 与原仪表盘一致（5 分钟内的重复渲染直接复用结果集）
const DefaultTTL = 300 * time.Second

// Runner memoizes query results by (query name, exact argument list).
// Cache-aside, read-through: a miss runs the query synchronously and stores
// the result. Concurrent misses for one key may both hit the store; that race
// is acceptable because the queries are read-only and idempotent. Failures
// are never cached — pinning a panel error for the whole TTL would turn an
// availability optimization into an availability problem.
type Runner struct {
	next   query.Runner
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewRunner(next query.Runner, kv store.KV, ttl time.Duration, logger *zap.Logger) *Runner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Runner{next: next, kv: kv, ttl: ttl, logger: logger}
}

var _ query.Runner = (*Runner)(nil)

func (c *Runner) Run(ctx context.Context, q query.NamedQuery, args ...any) query.Result {
	key := Key(q.Name, args...)

	raw, err := c.kv.Get(ctx, key)
	if err == nil {
		var res query.Result
		if uerr := json.Unmarshal([]byte(raw), &res); uerr == nil {
			return res
		}
		// 缓存内容损坏：当作 miss，重新查询后覆盖
	} else if err != store.ErrMiss {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	res := c.next.Run(ctx, q, args...)
	if res.Err == "" {
		if encoded, merr := json.Marshal(res); merr == nil {
			if serr := c.kv.Set(ctx, key, string(encoded), c.ttl); serr != nil {
				c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return res
}

// Key builds the cache key from the query identity and the exact argument
// tuple. No normalization: callers pass canonical values (already-clamped
// dates), matching the memoization contract.
func Key(name string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		switch v := a.(type) {
		case time.Time:
			parts = append(parts, v.UTC().Format(time.RFC3339))
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return "bim-dashboard:query:" + strings.Join(parts, "|")
}
