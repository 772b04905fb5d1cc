package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/cache"
	"github.com/technolab03/Technolab-dashboard/internal/config"
	"github.com/technolab03/Technolab-dashboard/internal/database"
	httpapi "github.com/technolab03/Technolab-dashboard/internal/http"
	"github.com/technolab03/Technolab-dashboard/internal/logger"
	"github.com/technolab03/Technolab-dashboard/internal/query"
	"github.com/technolab03/Technolab-dashboard/internal/repository"
	"github.com/technolab03/Technolab-dashboard/internal/service"
	"github.com/technolab03/Technolab-dashboard/internal/session"
	"github.com/technolab03/Technolab-dashboard/internal/store"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// 配置/连接失败必须在渲染任何数据视图前终止，给出可操作的信息
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "bim-dashboard")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(&cfg.MySQL)
	if err != nil {
		log.Fatal("mysql unavailable", zap.Error(err))
	}
	defer database.Close(db)

	var kv store.KV
	var redisClient *redis.Client
	if cfg.Cache.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		kv = store.NewRedisKV(redisClient)
		log.Info("query cache backed by redis", zap.String("addr", cfg.Cache.RedisAddr))
	} else {
		kv = store.NewMemoryKV(nil)
	}

	executor := query.NewExecutor(db, log)
	runner := cache.NewRunner(executor, kv, time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
	repo := repository.NewDashboard(runner)
	sessions := session.NewStore()

	var mongoClient *mongo.Client
	if cfg.Mongo.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		cancel()
		if err != nil {
			// 文档库仅供诊断端点，连不上只降级，不拦启动
			log.Warn("mongo connect failed, doctor checks degraded", zap.Error(err))
			mongoClient = nil
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = mongoClient.Disconnect(ctx)
			}()
		}
	}

	dashboard := httpapi.NewDashboardHandler(repo, sessions, log)
	doctor := httpapi.NewDoctorHandler(db, redisClient, mongoClient, cfg.SecretPresence(), log)

	router := httpapi.NewRouter(log)
	router.RegisterDashboardRoutes(dashboard)
	router.RegisterDoctorRoutes(doctor)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
