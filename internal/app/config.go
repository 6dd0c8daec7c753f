package app

import (
	"strings"

	"github.com/mzflora/plantario-backend/internal/platform/envutil"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	UploadRoot      string
	PlaceholderFont string
	CORSOrigins     []string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
}

func LoadConfig(log *logger.Logger) Config {
	origins := envutil.GetEnv("CORS_ORIGINS", "*", log)
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		JWTSecretKey:    envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		UploadRoot:      envutil.GetEnv("UPLOAD_ROOT", "./uploads/plantas_imagens", log),
		PlaceholderFont: envutil.GetEnv("PLACEHOLDER_FONT", "./assets/fonts/DejaVuSans-Bold.ttf", log),
		CORSOrigins:     splitOrigins(origins),
		RedisAddr:       envutil.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:   envutil.GetEnv("REDIS_PASSWORD", "", log),
		RedisDB:         envutil.GetEnvAsInt("REDIS_DB", 0, log),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
