package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/app"
	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/repository"
	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/router"
	"github.com/baigcoder/TrueVibe-sub000/pkg/config"
	"github.com/baigcoder/TrueVibe-sub000/pkg/database"
	"github.com/baigcoder/TrueVibe-sub000/pkg/logger"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.RealtimeService, config.EnvConfig.RealtimeServiceLogPath)
	cfg := config.LoadConfig[config.Realtime](config.EnvConfig.RealtimeService, config.EnvConfig.RealtimeServiceYAMLPath)

	ctx := context.Background()

	// Mongo holds the messages
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// Postgres holds the directory: servers, channels, conversations, rosters
	pgDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database)
	pg, err := database.NewPGConnection(database.Connection{
		ConnectStr:    pgDSN,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL database after retries", zap.Error(err))
	}

	// Redis carries the cross-node event bridge
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	convRepo := repository.NewConversationRepository(pg)
	srvRepo := repository.NewServerRepository(pg)
	if err := convRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("conversation migrate failed", zap.Error(err))
	}
	if err := srvRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("server migrate failed", zap.Error(err))
	}
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	bridge := repository.NewRedisEventBridge(redisClient)

	// Kafka archive sink is optional, no brokers disables it
	var archiver app.EventArchiver
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("Unable to connect to kafka after retries", zap.Error(err))
		}
		kafkaArchiver := app.NewKafkaEventArchiver(writer)
		defer kafkaArchiver.Close()
		archiver = kafkaArchiver
	}

	bus := app.NewEventBus(bridge, archiver)

	directoryUC := app.NewDirectoryUseCase(convRepo, srvRepo)
	messageUC := app.NewMessageUseCase(convRepo, srvRepo, msgRepo, bus)
	reactionUC := app.NewReactionUseCase(msgRepo, bus)
	presence := app.NewPresenceTracker(bus, cfg.Presence.TypingTTL)
	defer presence.Close()
	voice := app.NewVoiceRoomManager(bus)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.RealtimeServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewRealtimeWebsocketHandler(directoryUC, messageUC, reactionUC, presence, voice, bus))

	port := ":" + cfg.Port
	log.Printf("Realtime Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
