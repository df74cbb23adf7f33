package config

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. A dotenv file named
// by -env is loaded first; otherwise ".env" in the working directory is
// tried. Variables already present in the environment win over the file.
//
// Recognised variables: DIARY_GRPC_ADDR, DIARY_DATABASE_DSN, DIARY_SECRET_KEY,
// DIARY_SERVICE_KEY, DIARY_ACCESS_TOKEN_TTL, DIARY_REFRESH_TOKEN_TTL,
// DIARY_EXPORT_URL_TTL, DIARY_S3_USER, DIARY_S3_PASSWORD, DIARY_S3_BUCKET,
// DIARY_S3_REGION, DIARY_S3_ENDPOINT, DIARY_S3_PATH_STYLE, DIARY_FEED_BUFFER, DIARY_LOG_LEVEL,
// DIARY_LOG_FORMAT.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	config.EndpointAddrGRPC = flagx.EnvString("DIARY_GRPC_ADDR", config.EndpointAddrGRPC)
	config.DatabaseDSN = flagx.EnvString("DIARY_DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = flagx.EnvString("DIARY_SECRET_KEY", config.SecretKey)
	config.PublicKey = flagx.EnvString("DIARY_SERVICE_KEY", config.PublicKey)
	config.AccessTokenValidityDuration = envDuration("DIARY_ACCESS_TOKEN_TTL", config.AccessTokenValidityDuration)
	config.RefreshTokenValidityDuration = envDuration("DIARY_REFRESH_TOKEN_TTL", config.RefreshTokenValidityDuration)
	config.ExportURLValidityDuration = envDuration("DIARY_EXPORT_URL_TTL", config.ExportURLValidityDuration)
	config.S3RootUser = flagx.EnvString("DIARY_S3_USER", config.S3RootUser)
	config.S3RootPassword = flagx.EnvString("DIARY_S3_PASSWORD", config.S3RootPassword)
	config.S3Bucket = flagx.EnvString("DIARY_S3_BUCKET", config.S3Bucket)
	config.S3Region = flagx.EnvString("DIARY_S3_REGION", config.S3Region)
	config.S3BaseEndpoint = flagx.EnvString("DIARY_S3_ENDPOINT", config.S3BaseEndpoint)
	config.S3UsePathStyle = flagx.EnvBool("DIARY_S3_PATH_STYLE", config.S3UsePathStyle)
	config.LogLevel = flagx.EnvString("DIARY_LOG_LEVEL", config.LogLevel)
	config.LogFormat = flagx.EnvString("DIARY_LOG_FORMAT", config.LogFormat)

	if v := flagx.EnvString("DIARY_FEED_BUFFER", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.FeedBufferSize = n
		}
	}
}

func envDuration(key string, def time.Duration) time.Duration {
	v := flagx.EnvString(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
