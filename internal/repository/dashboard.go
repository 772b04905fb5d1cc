package repository

import (
	"context"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/query"
)

// DashboardRepository 仪表盘只读查询接口
type DashboardRepository interface {
	ListDevices(ctx context.Context) query.Result
	RecordsByDevice(ctx context.Context, deviceNumber int, start, end time.Time) query.Result
	DiagnosticsByDevice(ctx context.Context, deviceNumber int, start, end time.Time) query.Result
	EventsByDevice(ctx context.Context, deviceNumber int, start, end time.Time) query.Result
}

// Dashboard runs the named queries through a query.Runner, so the same code
// path works cached (production) and uncached (tests).
type Dashboard struct {
	runner query.Runner
}

func NewDashboard(runner query.Runner) *Dashboard {
	return &Dashboard{runner: runner}
}

var _ DashboardRepository = (*Dashboard)(nil)

func (d *Dashboard) ListDevices(ctx context.Context) query.Result {
	return d.runner.Run(ctx, deviceListing)
}

func (d *Dashboard) RecordsByDevice(ctx context.Context, deviceNumber int, start, end time.Time) query.Result {
	if invertedRange(start, end) {
		return query.Result{}
	}
	return d.runner.Run(ctx, recordsByDevice, deviceNumber, start, end)
}

func (d *Dashboard) DiagnosticsByDevice(ctx context.Context, deviceNumber int, start, end time.Time) query.Result {
	if invertedRange(start, end) {
		return query.Result{}
	}
	return d.runner.Run(ctx, diagnosticsByDevice, start, end, deviceNumber, start, end)
}

func (d *Dashboard) EventsByDevice(ctx context.Context, deviceNumber int, start, end time.Time) query.Result {
	if invertedRange(start, end) {
		return query.Result{}
	}
	return d.runner.Run(ctx, eventsByDevice, deviceNumber, start, end)
}

// invertedRange: start > end 不下发到数据库，直接按空结果处理（固定策略，
// 避免把行为交给存储引擎的未定义语义）
func invertedRange(start, end time.Time) bool {
	return start.After(end)
}
