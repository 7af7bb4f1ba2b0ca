package app

import (
	"time"

	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/utils"
)

type Config struct {
	JWTSecretKey     string
	SeedPath         string
	ReaperSchedule   string
	SessionRetention time.Duration
	RedisEnabled     bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	seedPath := utils.GetEnv("SEED_PATH", "seeds/knowledge.yaml", log)
	reaperSchedule := utils.GetEnv("REAPER_SCHEDULE", "*/10 * * * *", log)
	retentionHours := utils.GetEnvAsInt("SESSION_RETENTION_HOURS", 720, log)
	redisEnabled := utils.GetEnvAsBool("REDIS_ENABLED", false, log)
	return Config{
		JWTSecretKey:     jwtSecretKey,
		SeedPath:         seedPath,
		ReaperSchedule:   reaperSchedule,
		SessionRetention: time.Duration(retentionHours) * time.Hour,
		RedisEnabled:     redisEnabled,
	}
}
