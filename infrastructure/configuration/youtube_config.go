package configuration

import (
	"os"
	"strings"
	"time"
)

const defaultYouTubeTimeout = 10 * time.Second

// Timeout bounds a single provider call.
func (y YouTube) Timeout() time.Duration {
	if y.TimeoutSeconds <= 0 {
		return defaultYouTubeTimeout
	}
	return time.Duration(y.TimeoutSeconds) * time.Second
}

// initYouTube resolves the credential pool: YOUTUBE_API_KEYS (comma separated)
// wins over the config file, and a lone YOUTUBE_API_KEY is a pool of one.
func initYouTube(C *Config) {
	if v := os.Getenv("YOUTUBE_API_KEYS"); v != "" {
		C.YouTube.APIKeys = splitList(v)
	} else if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		C.YouTube.APIKeys = []string{strings.TrimSpace(v)}
	}
	C.YouTube.APIKeys = dropPlaceholders(C.YouTube.APIKeys)
	C.YouTube.Endpoint = getConfigValue(C.YouTube.Endpoint, "YOUTUBE_ENDPOINT", "")
	C.YouTube.QuerySuffix = getConfigValue(C.YouTube.QuerySuffix, "YOUTUBE_QUERY_SUFFIX", defaultQuerySuffix)
	if C.YouTube.MaxResults <= 0 {
		C.YouTube.MaxResults = defaultMaxResults
	}
}

func dropPlaceholders(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || strings.HasPrefix(k, "YOUR_") {
			continue
		}
		out = append(out, k)
	}
	return out
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	// Environment variable takes precedence when provided
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Otherwise use config value if set and not a placeholder
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	// Fallback default
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
