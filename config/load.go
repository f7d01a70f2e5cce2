package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/changeset/errors"
)

// ProjectConfigName is the per-repository config file, found by walking up
// from the working directory
const ProjectConfigName = "changeset.toml"

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	ConfigFile string                 // explicit --config file; must exist when set
	SearchDir  string                 // start of the changeset.toml lookup ("" = working directory)
	HomeDir    string                 // "" = os.UserHomeDir()
	SystemPath string                 // "" = /etc/changeset/config.toml
	Flags      map[string]*pflag.Flag // config key -> CLI flag, applied when the flag was set
}

// Load reads the changeset configuration.
//
// Precedence (lowest to highest): defaults < system < user < project <
// --config file < CHANGESET_* env vars < CLI flags
func Load(opts LoadOptions) (*Config, error) {
	v, err := NewViper(opts)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals configuration from a prepared Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path, on top of defaults
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

// NewViper initializes Viper with configuration sources and defaults
func NewViper(opts LoadOptions) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix("CHANGESET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindSensitiveEnvVars(v)

	SetDefaults(v)

	if err := mergeConfigFiles(v, opts); err != nil {
		return nil, err
	}

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, errors.Wrapf(err, "failed to bind flag --%s", flag.Name)
		}
	}

	return v, nil
}

// configPaths lists candidate files in precedence order (lowest first)
func configPaths(opts LoadOptions) []string {
	system := opts.SystemPath
	if system == "" {
		system = "/etc/changeset/config.toml"
	}
	paths := []string{system}

	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".changeset", "config.toml"))
	}

	if project := findProjectConfig(opts.SearchDir); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// mergeConfigFiles merges every existing config file in precedence order.
// Missing implicit files are skipped; an explicit --config file must exist.
func mergeConfigFiles(v *viper.Viper, opts LoadOptions) error {
	v.SetConfigType("toml")

	for _, path := range configPaths(opts) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := mergeFile(v, path); err != nil {
			return err
		}
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "config file %s", opts.ConfigFile),
				"run 'changeset config init' to create one")
		}
		if err := mergeFile(v, opts.ConfigFile); err != nil {
			return err
		}
	}
	return nil
}

func mergeFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// findProjectConfig searches for changeset.toml by walking up the directory tree
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig(start string) string {
	dir := start
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return ""
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
