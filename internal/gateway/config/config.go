package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	GitHub   GitHubConfig
	Snapshot SnapshotConfig
	Sessions SessionConfig
}

type GitHubConfig struct {
	Token      string
	APIBaseURL string
	RawBaseURL string
}

type SnapshotConfig struct {
	MaxFiles     int
	MaxFileBytes int
	FetchTimeout time.Duration
}

type SessionConfig struct {
	Capacity int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:     *port,
		Env:      env,
		GitHub:   loadGitHubConfig(),
		Snapshot: loadSnapshotConfig(),
		Sessions: SessionConfig{
			Capacity: intFromEnv("SESSION_CAPACITY", 1024),
		},
	}, nil
}

func loadGitHubConfig() GitHubConfig {
	return GitHubConfig{
		Token:      strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		APIBaseURL: firstNonEmpty(strings.TrimSpace(os.Getenv("GITHUB_API_URL")), "https://api.github.com"),
		RawBaseURL: firstNonEmpty(strings.TrimSpace(os.Getenv("GITHUB_RAW_URL")), "https://raw.githubusercontent.com"),
	}
}

func loadSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		MaxFiles:     intFromEnv("SNAPSHOT_MAX_FILES", 20),
		MaxFileBytes: intFromEnv("SNAPSHOT_MAX_FILE_BYTES", 100_000),
		FetchTimeout: durationFromEnv("SNAPSHOT_FETCH_TIMEOUT", 20*time.Second),
	}
}

func intFromEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
