package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nativecapsule/nativecapsule/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyLogLevel           = "log.level"
	KeyJavaCommand        = "java.command"
	KeyWrapperCommand     = "wrapper.command"
	KeyWrapperTimeout     = "wrapper.timeout"
	KeyResourcesDir       = "resources.dir"
	KeyDependencyManagers = "caplets.dependency-managers"
	KeyLegacyShortVersion = "macos.legacy-short-version"
)

// Defaults applied when a key is unset.
const (
	DefaultJavaCommand    = "java"
	DefaultWrapperCommand = "launch4jc"
	DefaultWrapperTimeout = 5 * time.Minute
	defaultLogLevel       = "info"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	LogLevel           string
	JavaCommand        string
	WrapperCommand     string
	WrapperTimeout     time.Duration
	ResourcesDir       string
	DependencyManagers []string
	LegacyShortVersion bool
}

// Dir returns the path to the config directory (~/.nativecapsule/).
func Dir() string {
	if home := os.Getenv(branding.EnvVar("HOME")); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.nativecapsule/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment and
// returns the resulting settings.
func Load() Settings {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyLogLevel, defaultLogLevel)
	viper.SetDefault(KeyJavaCommand, DefaultJavaCommand)
	viper.SetDefault(KeyWrapperCommand, DefaultWrapperCommand)
	viper.SetDefault(KeyWrapperTimeout, DefaultWrapperTimeout)
	viper.SetDefault(KeyResourcesDir, "")
	viper.SetDefault(KeyDependencyManagers, []string{})
	viper.SetDefault(KeyLegacyShortVersion, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()

	return Current()
}

// Current returns the settings from the already-initialized Viper instance.
func Current() Settings {
	timeout := viper.GetDuration(KeyWrapperTimeout)
	if timeout <= 0 {
		timeout = DefaultWrapperTimeout
	}
	java := viper.GetString(KeyJavaCommand)
	if java == "" {
		java = DefaultJavaCommand
	}
	wrapper := viper.GetString(KeyWrapperCommand)
	if wrapper == "" {
		wrapper = DefaultWrapperCommand
	}
	return Settings{
		LogLevel:           viper.GetString(KeyLogLevel),
		JavaCommand:        java,
		WrapperCommand:     wrapper,
		WrapperTimeout:     timeout,
		ResourcesDir:       viper.GetString(KeyResourcesDir),
		DependencyManagers: viper.GetStringSlice(KeyDependencyManagers),
		LegacyShortVersion: viper.GetBool(KeyLegacyShortVersion),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
