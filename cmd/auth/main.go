package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	myPostgresRepo "github.com/avencia/auth-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/avencia/auth-service/internal/adapters/db/redis"
	myHTTP "github.com/avencia/auth-service/internal/adapters/transport/http"
	httpmw "github.com/avencia/auth-service/internal/adapters/transport/http/middleware"
	"github.com/avencia/auth-service/internal/adapters/transport/http/respond"
	appjwt "github.com/avencia/auth-service/internal/app/auth/jwt"
	authsvc "github.com/avencia/auth-service/internal/app/auth/service"
	usersvc "github.com/avencia/auth-service/internal/app/user/service"
	"github.com/avencia/auth-service/internal/infra/config"
	lg "github.com/avencia/auth-service/internal/infra/log"
	"github.com/avencia/auth-service/internal/infra/migrate"
	"github.com/avencia/auth-service/internal/metrics"
	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	// Initialization order: database, migrations, redis, then everything
	// that depends on them. Teardown runs in reverse after the server
	// drains.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validator.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	sessions := myRedisRepo.NewRedisSessionStore(redisCli)
	throttle := myRedisRepo.NewRedisLoginThrottle(redisCli, cfg.LoginThrottleWindow, cfg.LoginThrottleMax)
	jwtUtil := appjwt.NewJWTUtil(cfg)

	auth := authsvc.New(userRepo, sessions, jwtUtil, cfg, validate)
	users := usersvc.New(userRepo, validate)

	translator := respond.Translator{Dev: cfg.Dev(), Log: zapLog}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !cfg.Dev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.NewRateLimitPerIP(rootCtx, cfg.RateLimitRPS, cfg.RateLimitBurst, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	handler := myHTTP.NewHandler(auth, users, translator, m)
	handler.RegisterRoutes(router,
		httpmw.Auth(auth, translator),
		httpmw.LoginThrottle(throttle, m, translator),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "server is running",
			"environment": cfg.Environment,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	g, gctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("address", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	reason := waitForExit(quit, gctx.Done())
	zapLog.Info("shutting down", zap.String("reason", reason))
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}

// waitForExit blocks until a shutdown signal arrives or the server group
// stops on its own, so a startup failure such as a bind error terminates
// the process instead of hanging until a signal.
func waitForExit(quit <-chan os.Signal, done <-chan struct{}) string {
	select {
	case <-quit:
		return "signal"
	case <-done:
		return "server error"
	}
}
