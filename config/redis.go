package config

import (
	"os"

	"Wordfuse/services/redis"
)

// Connect to Redis
func ConnectRedis() (*redis.RedisClient, error) {
	redisURI := os.Getenv("REDIS_URL")
	if redisURI == "" {
		redisURI = "localhost:6379"
	}
	return redis.InitRedis(redisURI, 0)
}
