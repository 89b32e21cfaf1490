package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/storage"
	"github.com/joho/godotenv"
)

const (
	defaultServerPort        = 8080
	defaultReferenceTimezone = "America/Bogota"
	defaultGroupStagePhase   = "Group Stage"
	defaultGroupStageMarker  = "Group"
	defaultQuarterfinalPhase = "Quarterfinal"
	defaultSemifinalPhase    = "Semifinal"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	ServerPort  int

	// Часовой пояс, в котором считается "сегодня" при проверке дат матчей.
	ReferenceLocation *time.Location

	GroupStagePhase   string
	GroupStageMarker  string
	QuarterfinalPhase string
	SemifinalPhase    string
	GroupStageLegs    int

	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	R2 storage.CloudflareR2UploaderConfig
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: в проде переменные приходят из окружения.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	tzName := stringEnv("REFERENCE_TIMEZONE", defaultReferenceTimezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_TIMEZONE %q: %w", tzName, err)
	}

	legs, err := intEnv("GROUP_STAGE_LEGS", 1)
	if err != nil {
		return nil, err
	}
	if legs != 1 && legs != 2 {
		return nil, fmt.Errorf("GROUP_STAGE_LEGS must be 1 or 2, got %d", legs)
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT environment variable: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		ReferenceLocation:  loc,
		GroupStagePhase:    stringEnv("GROUP_STAGE_PHASE", defaultGroupStagePhase),
		GroupStageMarker:   stringEnv("GROUP_STAGE_MARKER", defaultGroupStageMarker),
		QuarterfinalPhase:  stringEnv("QUARTERFINAL_PHASE", defaultQuarterfinalPhase),
		SemifinalPhase:     stringEnv("SEMIFINAL_PHASE", defaultSemifinalPhase),
		GroupStageLegs:     legs,
		CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS"),
		RequestTimeout:     timeout,
		R2: storage.CloudflareR2UploaderConfig{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

// listEnv разбирает список через запятую, пустые элементы отбрасываются.
func listEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
