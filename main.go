package main

import (
	"Wordfuse/config"
	_ "Wordfuse/config/swagger"
	"Wordfuse/middleware"
	"Wordfuse/routes"
	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
	"Wordfuse/services/socket_io"
	"Wordfuse/sync"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Wordfuse API
// @version 1.0
// @description Gin-Gonic server for the "Wordfuse" word game API
// @host localhost:8080
// @BasePath /
// @paths
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := config.ConnectRedis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	dict, err := config.LoadDictionary()
	if err != nil {
		log.Fatalf("Error loading dictionary: %v", err)
	}
	log.Printf("Dictionary loaded: %d words", dict.Stats().WordCount)

	manager := rooms.NewManager()
	syncManager := sync.NewSyncManager(redisClient)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, manager, dict, redisClient, syncManager)

	sio := &socket_io.MySocketServer{}
	sio.Start(r, manager, dict, redisClient, syncManager)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" && os.Getenv("USE_HTTPS") == "true" {
		port = "443"
	} else if port == "" {
		port = "8080"
	}

	if os.Getenv("USE_HTTPS") == "true" {
		// SSL certification configuration for HTTPS
		certFile := os.Getenv("TLS_CERT_FILE")
		keyFile := os.Getenv("TLS_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
	log.Printf("Server started on port %s", port)
}
