// cmd/reservation-server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"reserva/internal/auth"
	"reserva/internal/pkg/bootstrap"
	"reserva/internal/pkg/httpclient"
	"reserva/internal/pkg/logger"
	"reserva/internal/pkg/mq"
	"reserva/internal/pkg/redis"
	"reserva/internal/push"
	customerapp "reserva/internal/service/customer/application"
	customerinfra "reserva/internal/service/customer/infrastructure"
	customerhttp "reserva/internal/service/customer/interfaces"
	productapp "reserva/internal/service/product/application"
	productinfra "reserva/internal/service/product/infrastructure"
	producthttp "reserva/internal/service/product/interfaces"
	reservationapp "reserva/internal/service/reservation/application"
	reservationinfra "reserva/internal/service/reservation/infrastructure"
	"reserva/internal/service/reservation/infrastructure/adapter"
	reservationhttp "reserva/internal/service/reservation/interfaces"
)

func main() {
	if err := bootstrap.LoadConfig(os.Getenv("CONFIG_PATH")); err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to load config")
	}
	cfg := bootstrap.GetCurrentConfig()

	db, err := gorm.Open(gormmysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := db.AutoMigrate(
		&productinfra.ProductModel{},
		&customerinfra.CustomerModel{},
		&reservationinfra.ReservationModel{},
		&reservationinfra.ReservationItemModel{},
	); err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to migrate database schema")
	}

	redisClient, err := redis.NewClient(context.Background(), cfg.Infra.Redis.Addr, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to connect to redis")
	}

	kafkaWriter := mq.NewWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.ReservationTopic)
	hub := push.NewHub()

	tracer := otel.Tracer(cfg.App.ServiceName)
	httpClient := httpclient.NewClient(tracer)

	// 认证：委托身份提供方校验，Redis 缓存校验结果
	verifier := auth.NewCachedVerifier(
		auth.NewSupabaseVerifier(httpClient, cfg.Infra.Auth.BaseURL, cfg.Infra.Auth.APIKey),
		redisClient,
		time.Duration(cfg.Infra.Auth.CacheTTLSeconds)*time.Second,
	)
	middleware := auth.NewMiddleware(verifier)
	authHandler := auth.NewHandler(httpClient, cfg.Infra.Auth.BaseURL, cfg.Infra.Auth.APIKey, verifier)

	reservationService := reservationapp.NewService(
		reservationinfra.NewGormStore(db),
		adapter.NewMultiPublisher(
			adapter.NewNotificationKafkaAdapter(kafkaWriter),
			adapter.NewPushHubAdapter(hub),
		),
		tracer,
	)
	productService := productapp.NewService(productinfra.NewGormStore(db), tracer)
	customerService := customerapp.NewService(customerinfra.NewGormStore(db), tracer)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: cfg.App.ServiceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			authHandler.RegisterRoutes(appCtx.Mux, middleware.Wrap)
			reservationhttp.NewReservationHandler(reservationService).RegisterRoutes(appCtx.Mux, middleware.Wrap)
			producthttp.NewProductHandler(productService).RegisterRoutes(appCtx.Mux, middleware.Wrap)
			customerhttp.NewCustomerHandler(customerService).RegisterRoutes(appCtx.Mux, middleware.Wrap)

			appCtx.Mux.HandleFunc("GET /ws", middleware.Wrap(hub.ServeWS))
			appCtx.Mux.Handle("GET /metrics", promhttp.Handler())
			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		},
		OnShutdown: func(ctx context.Context) {
			if err := kafkaWriter.Close(); err != nil {
				logger.Logger().Error().Err(err).Msg("failed to close kafka writer")
			}
			if err := redisClient.Close(); err != nil {
				logger.Logger().Error().Err(err).Msg("failed to close redis client")
			}
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					logger.Logger().Error().Err(err).Msg("failed to close database pool")
				}
			}
		},
	})
}
