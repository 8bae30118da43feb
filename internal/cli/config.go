package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/buxgalter/internal/paths"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys read from config.yaml.
	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyPageSize = "page_size"
	cfgKeyVATRate  = "vat_rate"
	cfgKeyLocale   = "locale"
	cfgKeyLanguage = "language"
	cfgKeyLogLevel = "log_level"
	cfgKeySkipSeed = "skip_seed"

	defaultLogLevel = "info"
)

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend  string  `yaml:"backend"`
	DataDir  string  `yaml:"data_dir,omitempty"`
	PageSize int     `yaml:"page_size"`
	VATRate  float64 `yaml:"vat_rate"`
	Locale   string  `yaml:"locale"`
	Language string  `yaml:"language"`
	LogLevel string  `yaml:"log_level"`
}

// settings is the resolved configuration of one invocation.
type settings struct {
	configDir string
	logLevel  string
	store     types.Config
}

// loadSettings resolves the config directory, writes a default config.yaml
// on first run and reads it with Viper. The data directory is resolved last
// because config.yaml may name it.
func (a *app) loadSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, systemError(fmt.Errorf("create config dir: %w", err))
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return settings{}, systemError(fmt.Errorf("write config: %w", err))
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyPageSize, types.DefaultPageSize)
	v.SetDefault(cfgKeyVATRate, types.DefaultVATRate)
	v.SetDefault(cfgKeyLocale, types.DefaultLocale)
	v.SetDefault(cfgKeyLanguage, types.DefaultLanguage)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, userError(fmt.Errorf("read config: %w", err))
		}
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, systemError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{
		Backend:  strings.ToLower(v.GetString(cfgKeyBackend)),
		DataDir:  dataDir,
		PageSize: v.GetInt(cfgKeyPageSize),
		VATRate:  v.GetFloat64(cfgKeyVATRate),
		Locale:   v.GetString(cfgKeyLocale),
		Language: v.GetString(cfgKeyLanguage),
		SkipSeed: v.GetBool(cfgKeySkipSeed),
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, userError(fmt.Errorf("config: %w", err))
	}
	return settings{
		configDir: configDir,
		logLevel:  v.GetString(cfgKeyLogLevel),
		store:     cfg.WithDefaults(),
	}, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left untouched.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := yaml.Marshal(&configFile{
		Backend:  types.BackendSQLite,
		PageSize: types.DefaultPageSize,
		VATRate:  types.DefaultVATRate,
		Locale:   types.DefaultLocale,
		Language: types.DefaultLanguage,
		LogLevel: defaultLogLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# buxgalter configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
