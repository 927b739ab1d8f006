package api

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Monmon-1020/CampusFlow/api/controllers"
	"github.com/Monmon-1020/CampusFlow/api/transport"
	"github.com/Monmon-1020/CampusFlow/auth"
	"github.com/Monmon-1020/CampusFlow/brainstorm"
	"github.com/Monmon-1020/CampusFlow/logging"
	"github.com/Monmon-1020/CampusFlow/storage"
	"github.com/Monmon-1020/CampusFlow/ws"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	redisClient := redis.NewClient(&redis.Options{
		Addr: s.config.RedisAddr,
		DB:   s.config.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logging.Log.Errorf("failed to connect to redis: %v", err)
		panic("failed to connect to redis")
	}
	sessionStore := storage.NewRedisEphemeralStore(redisClient, s.config.TTL)

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}
	announcementStorage := &storage.DynamoAnnouncementStorage{
		Client:    dynamodb.NewFromConfig(cfg),
		TableName: s.config.TableNameAnnouncements,
	}

	// The hub is owned here and injected; connections do not survive a
	// process restart, clients reconnect.
	hub := ws.NewHub()
	service := brainstorm.NewService(sessionStore, s.config.Secret)
	tokens := &auth.HMACTokenValidator{Secret: s.config.Secret}

	//Register controllers
	brainstormController := controllers.NewBrainstormController(service, announcementStorage, hub, tokens)
	brainstormController.RegisterRoutes(r)

	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", s.config.Port))
	if err := r.Run(fmt.Sprintf(":%d", s.config.Port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
