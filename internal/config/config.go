// Package config manages persistent settings through viper: defaults, a
// config file under the user config directory, and MEDIAGRAB_* environment
// overrides. Flags still win over everything here.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "mediagrab"

// Configuration keys.
const (
	KeyDownloadDir = "download.dir"
	KeyFormat      = "download.format"
	KeyWorkers     = "download.workers"
	KeyYtdlpPath   = "backend.ytdlp_path"
	KeyLogDebug    = "log.debug"
)

// EnvKeyReplacer normalizes config keys into environment variable names,
// e.g. download.dir -> MEDIAGRAB_DOWNLOAD_DIR.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

func defaults() map[string]any {
	return map[string]any{
		KeyDownloadDir: defaultDownloadDir(),
		KeyFormat:      "mp4-720",
		KeyWorkers:     1,
		KeyYtdlpPath:   "",
		KeyLogDebug:    false,
	}
}

// Setup initializes viper. A missing config file is fine; a malformed one is
// an error.
func Setup() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, appName))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix(appName)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	viper.SetTypeByDefaultValue(true)
	for name, value := range defaults() {
		viper.SetDefault(name, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func DownloadDir() string {
	return viper.GetString(KeyDownloadDir)
}

func Format() string {
	return viper.GetString(KeyFormat)
}

func Workers() int {
	return viper.GetInt(KeyWorkers)
}

func YtdlpPath() string {
	return viper.GetString(KeyYtdlpPath)
}

func Debug() bool {
	return viper.GetBool(KeyLogDebug)
}
