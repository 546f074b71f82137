package routes

import (
	"Wordfuse/controllers"
	"Wordfuse/services/dictionary"
	"Wordfuse/services/redis"
	"Wordfuse/services/rooms"
	"Wordfuse/sync"
	utils "Wordfuse/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, manager *rooms.Manager, dict *dictionary.Dictionary,
	redisClient *redis.RedisClient, sm *sync.SyncManager) {

	// utils global
	router.Use(utils.Logger())
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/rooms", controllers.CreateRoom(manager, sm))

	api.GET("/rooms", controllers.ListRooms(redisClient))

	api.GET("/rooms/:room_code", controllers.GetRoomInfo(manager))

	api.POST("/rooms/:room_code/join", controllers.JoinRoom(manager, sm))

	api.GET("/dictionary/stats", controllers.DictionaryStats(dict))
}
