package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/config"

	_ "github.com/go-sql-driver/mysql"
)

// connMaxLifetime 主动回收连接，避免被上游 MySQL 的 idle 超时踢掉
const connMaxLifetime = 1800 * time.Second

// ConnectError carries the stage that failed plus the underlying driver
// error's type and message. Fatal at startup: the dashboard never runs with a
// broken connection.
type ConnectError struct {
	Stage string // "open", "ping" or "roundtrip"
	Err   error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("mysql %s failed (%T): %v", e.Stage, e.Err, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Open 创建MySQL数据库连接池并验证可达性
func Open(cfg *config.MySQLConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, &ConnectError{Stage: "open", Err: err}
	}

	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectError{Stage: "ping", Err: err}
	}

	// 一次真实的往返查询，确认凭据与库都可用
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		db.Close()
		return nil, &ConnectError{Stage: "roundtrip", Err: err}
	}

	return db, nil
}

// DSN 构建连接字符串
func DSN(cfg *config.MySQLConfig) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DB)
	if cfg.SSL {
		dsn += "&tls=true"
	}
	return dsn
}

// Close 关闭数据库连接
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
