package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	app "tg_pizzeria/internal/application/order"
	"tg_pizzeria/internal/config"
	"tg_pizzeria/internal/infrastructure/encoding/avro"
	ginserver "tg_pizzeria/internal/infrastructure/http/gin"
	kafkainfra "tg_pizzeria/internal/infrastructure/messaging/kafka"
	"tg_pizzeria/internal/infrastructure/persistence/postgres"
	"tg_pizzeria/internal/interfaces/http/handler"
	"tg_pizzeria/internal/interfaces/http/router"
	"tg_pizzeria/pkg/logger"
	"tg_pizzeria/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zlog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)

	codec, err := avro.NewCodec()
	if err != nil {
		zlog.Fatal("avro codec failed", logger.Error(err))
	}

	producer, err := kafkainfra.NewChangeProducer(cfg.Kafka, codec, zlog)
	if err != nil {
		zlog.Fatal("kafka producer failed", logger.Error(err))
	}
	defer producer.Close(ctx)

	m := metrics.New("api", prometheus.DefaultRegisterer)

	orderService := app.NewService(orderRepo, producer, zlog, m)

	orderHandler := handler.NewOrderHandler(orderService)
	menuHandler := handler.NewMenuHandler()
	engine := ginserver.NewEngine()
	router.RegisterRoutes(engine, orderHandler, menuHandler, zlog, m)

	zlog.Info("intake api listening", logger.String("addr", cfg.Server.Address()))
	server := ginserver.NewServer(cfg.Server, engine)
	if err := server.Run(); err != nil {
		zlog.Fatal("server run failed", logger.Error(err))
	}
}
