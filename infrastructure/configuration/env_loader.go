package configuration

import (
	"os"
	"strings"

	"karaoke-browser/infrastructure/logger"

	"github.com/spf13/viper"
)

// LoadEnvFromFile copies KEY=VALUE pairs from dotenv files (config.env, .env)
// into the process environment. Variables already set in the environment win,
// and so do earlier files over later ones. Missing files are skipped.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}

		v := viper.New()
		v.SetConfigFile(p)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			logger.GetLogger().WithField("error", err).WithField("file", p).Warn("Unable to read env file")
			continue
		}

		loaded := 0
		// viper lowercases keys; environment names are conventionally upper case.
		for _, key := range v.AllKeys() {
			name := strings.ToUpper(key)
			if _, exists := os.LookupEnv(name); exists {
				continue
			}
			if err := os.Setenv(name, v.GetString(key)); err == nil {
				loaded++
			}
		}
		logger.GetLogger().WithField("file", p).WithField("loaded", loaded).Debug("Env file loaded")
	}
}
