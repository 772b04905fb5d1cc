package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DoctorHandler 诊断处理器：独立检查 MySQL/Redis/Mongo 可达性、
// 凭据是否就位、依赖版本。仅作冒烟检查，不属于数据视图。
type DoctorHandler struct {
	db          *sql.DB
	redisClient *redis.Client
	mongoClient *mongo.Client
	secrets     map[string]bool
	logger      *zap.Logger
}

func NewDoctorHandler(db *sql.DB, redisClient *redis.Client, mongoClient *mongo.Client, secrets map[string]bool, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{
		db:          db,
		redisClient: redisClient,
		mongoClient: mongoClient,
		secrets:     secrets,
		logger:      logger,
	}
}

// DoctorResponse 诊断响应
type DoctorResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Secrets   map[string]bool   `json:"secrets"`
	Versions  map[string]string `json:"versions"`
}

func (d *DoctorHandler) Doctor(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	services := make(map[string]string)

	// MySQL
	if d.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := d.db.PingContext(ctx); err != nil {
			status = "unhealthy"
			services["mysql"] = "unhealthy: " + err.Error()
		} else {
			services["mysql"] = "healthy"
		}
		cancel()
	} else {
		status = "unhealthy"
		services["mysql"] = "unhealthy: not configured"
	}

	// Redis（可选：仅在缓存走 Redis 时存在）
	if d.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := d.redisClient.Ping(ctx).Err(); err != nil {
			status = "unhealthy"
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
		cancel()
	}

	// Mongo（可选：文档库仅供诊断变体）
	if d.mongoClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := d.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			status = "unhealthy"
			services["mongo"] = "unhealthy: " + err.Error()
		} else {
			services["mongo"] = "healthy"
		}
		cancel()
	}

	for name, present := range d.secrets {
		if !present && name != "mongo.uri" {
			status = "unhealthy"
			break
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, DoctorResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
		Secrets:   d.secrets,
		Versions:  dependencyVersions(),
	})
}

// dependencyVersions 从编译信息读依赖版本（替代原环境检查页的包版本清单）
func dependencyVersions() map[string]string {
	out := map[string]string{}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	out["go"] = info.GoVersion
	for _, dep := range info.Deps {
		out[dep.Path] = dep.Version
	}
	return out
}
