package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"

	"github.com/gubarz/lyfmt/internal/parser"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaults(t *testing.T) {
	resetViper(t)
	setDefaults()

	if got := GetOutput(); got != "print" {
		t.Errorf("GetOutput() = %q, want %q", got, "print")
	}
	if got := GetIndent(); got != "\t" {
		t.Errorf("GetIndent() = %q, want tab", got)
	}
	if got := GetKinds(); !reflect.DeepEqual(got, parser.Kinds) {
		t.Errorf("GetKinds() = %v, want %v", got, parser.Kinds)
	}
	if got := GetExtensions(); !reflect.DeepEqual(got, parser.DefaultExtensions) {
		t.Errorf("GetExtensions() = %v", got)
	}

	opts := FormatOptions()
	if opts.Indent != "\t" || opts.LegacyNeutralTypo || len(opts.Kinds) != 3 {
		t.Errorf("FormatOptions() = %+v", opts)
	}
}

func TestGetKinds(t *testing.T) {
	tests := []struct {
		name     string
		value    []string
		expected []parser.Kind
	}{
		{
			name:     "subset",
			value:    []string{"voice", "header"},
			expected: []parser.Kind{parser.KindVoice, parser.KindHeader},
		},
		{
			name:     "comma list",
			value:    []string{"Version, voice"},
			expected: []parser.Kind{parser.KindVersion, parser.KindVoice},
		},
		{
			name:     "unknown ignored",
			value:    []string{"score", "version"},
			expected: []parser.Kind{parser.KindVersion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set("kinds", tt.value)
			if got := GetKinds(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("GetKinds() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetIndentUnescapes(t *testing.T) {
	resetViper(t)
	viper.Set("indent", `\t\t`)
	if got := GetIndent(); got != "\t\t" {
		t.Errorf("GetIndent() = %q", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandTilde("~/scores"); got != filepath.Join(home, "scores") {
		t.Errorf("expandTilde = %q", got)
	}
	if got := expandTilde("scores"); got != "scores" {
		t.Errorf("expandTilde = %q", got)
	}
}

func TestInitReadsConfigFile(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	content := "output: write\nindent: \"  \"\nkinds: [header]\nlegacy_neutral_typo: true\n"
	if err := os.WriteFile(filepath.Join(dir, "lyfmt.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if C.Output != "write" || GetOutput() != "write" {
		t.Errorf("output = %q / %q", C.Output, GetOutput())
	}
	opts := FormatOptions()
	if opts.Indent != "  " || !opts.LegacyNeutralTypo {
		t.Errorf("FormatOptions() = %+v", opts)
	}
	if !reflect.DeepEqual(opts.Kinds, []parser.Kind{parser.KindHeader}) {
		t.Errorf("kinds = %v", opts.Kinds)
	}
}
