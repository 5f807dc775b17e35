package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/gubarz/lyfmt/internal/format"
	"github.com/gubarz/lyfmt/internal/parser"
)

// Config holds the application configuration
type Config struct {
	Path              string   `mapstructure:"path"`
	Output            string   `mapstructure:"output"`
	Indent            string   `mapstructure:"indent"`
	Extensions        []string `mapstructure:"extensions"`
	Kinds             []string `mapstructure:"kinds"`
	LegacyNeutralTypo bool     `mapstructure:"legacy_neutral_typo"`
	Jobs              int      `mapstructure:"jobs"`
	ColorAdd          string   `mapstructure:"color_add"`
	ColorDel          string   `mapstructure:"color_del"`
	ColorDim          string   `mapstructure:"color_dim"`
	ColorBorder       string   `mapstructure:"color_border"`
	ColorCursor       string   `mapstructure:"color_cursor"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	setDefaults()

	viper.SetConfigName("lyfmt")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "lyfmt"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("LYFMT")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

func setDefaults() {
	viper.SetDefault("path", ".")
	viper.SetDefault("output", "print")
	viper.SetDefault("indent", "\t")
	viper.SetDefault("extensions", parser.DefaultExtensions)
	viper.SetDefault("kinds", []string{"header", "version", "voice"})
	viper.SetDefault("legacy_neutral_typo", false)
	viper.SetDefault("jobs", 0)          // 0 = GOMAXPROCS
	viper.SetDefault("color_add", "32")  // Green
	viper.SetDefault("color_del", "31")  // Red
	viper.SetDefault("color_dim", "241") // Gray
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_cursor", "212")
}

// GetPath returns the input path with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetIndent returns the body indent. Escaped "\t" from env or flags is
// unescaped.
func GetIndent() string {
	indent := viper.GetString("indent")
	if indent == "" {
		return "\t"
	}
	return strings.ReplaceAll(indent, `\t`, "\t")
}

// GetExtensions returns the file suffixes picked up in directories
func GetExtensions() []string {
	return viper.GetStringSlice("extensions")
}

// GetKinds returns the enabled block kinds, ignoring unknown names
func GetKinds() []parser.Kind {
	var kinds []parser.Kind
	for _, name := range viper.GetStringSlice("kinds") {
		for _, part := range strings.Split(name, ",") {
			k := parser.Kind(strings.ToLower(strings.TrimSpace(part)))
			for _, known := range parser.Kinds {
				if k == known {
					kinds = append(kinds, k)
				}
			}
		}
	}
	return kinds
}

// GetLegacyNeutralTypo returns whether to reproduce the old stem-neutral defect
func GetLegacyNeutralTypo() bool {
	return viper.GetBool("legacy_neutral_typo")
}

// GetJobs returns the number of files formatted in parallel
func GetJobs() int {
	return viper.GetInt("jobs")
}

// GetColorAdd returns the color for inserted text
func GetColorAdd() string {
	return viper.GetString("color_add")
}

// GetColorDel returns the color for removed text
func GetColorDel() string {
	return viper.GetString("color_del")
}

// GetColorDim returns the color for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorBorder returns the color for borders and dividers
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorCursor returns the color for the list cursor
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// FormatOptions builds formatter options from the current configuration
func FormatOptions() format.Options {
	opts := format.DefaultOptions()
	opts.Indent = GetIndent()
	opts.LegacyNeutralTypo = GetLegacyNeutralTypo()
	if kinds := GetKinds(); len(kinds) > 0 {
		opts.Kinds = kinds
	}
	return opts
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// Settings returns all effective settings
func Settings() map[string]any {
	return viper.AllSettings()
}
