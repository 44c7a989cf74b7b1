package db

import (
	"fmt"
	"sync"

	"newshub/internal/conf"

	"github.com/go-redis/redis/v8"
)

const REDIS_DB_MAIN = "main"

var redisConn = make(map[string]*redis.Client)
var redisMutex sync.RWMutex

func GetRedisConn(cfg *conf.RedisConfig) *redis.Client {
	redisMutex.RLock()
	rdb, ok := redisConn[REDIS_DB_MAIN]
	redisMutex.RUnlock()
	if !ok {
		redisMutex.Lock()
		opt := redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       0,
		}
		rdb = redis.NewClient(&opt)
		redisConn[REDIS_DB_MAIN] = rdb
		redisMutex.Unlock()
	}
	return rdb
}
