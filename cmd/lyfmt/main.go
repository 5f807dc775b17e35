package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/lyfmt/internal/config"
	"github.com/gubarz/lyfmt/internal/parser"
	"github.com/gubarz/lyfmt/internal/runner"
	"github.com/gubarz/lyfmt/internal/textedit"
	"github.com/gubarz/lyfmt/internal/ui"
)

var version = "0.1.0"

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Review each edit interactively before writing",
	Long: `Opens an interactive list of the edits lyfmt would make to a file.

Toggle individual edits with space, then press enter to write the
accepted ones back to the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var rootCmd = &cobra.Command{
	Use:   "lyfmt [path...]",
	Short: "Canonical layout for LilyPond sources",
	Long: `Reformats \header, \version and \relative voice blocks in LilyPond
files into a canonical layout.

Directories are searched recursively for .ly, .ily and .lyi files.
Use "-" to read a single document from stdin.`,
	RunE: runFormat,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().String("indent", "", `Body indent (default tab, "\t" escapes allowed)`)
	rootCmd.PersistentFlags().StringSlice("kinds", nil, "Block kinds to format: header, version, voice")
	rootCmd.PersistentFlags().Bool("legacy-neutral-typo", false, "Never deduplicate \\stemNeutral (old behaviour)")

	rootCmd.Flags().StringP("output", "o", "", "Output mode: print, write, list, check, edits, copy")
	rootCmd.Flags().BoolP("write", "w", false, "Write result to source files (shorthand for -o write)")
	rootCmd.Flags().BoolP("list", "l", false, "List files whose formatting differs (shorthand for -o list)")
	rootCmd.Flags().Bool("check", false, "Exit non-zero if any file needs formatting (shorthand for -o check)")
	rootCmd.Flags().Bool("edits", false, "Print edits as JSON (shorthand for -o edits)")
	rootCmd.Flags().Bool("copy", false, "Copy result to the clipboard (shorthand for -o copy)")
	rootCmd.Flags().IntP("jobs", "j", 0, "Files formatted in parallel (default GOMAXPROCS)")

	viper.BindPFlag("indent", rootCmd.PersistentFlags().Lookup("indent"))
	viper.BindPFlag("kinds", rootCmd.PersistentFlags().Lookup("kinds"))
	viper.BindPFlag("legacy_neutral_typo", rootCmd.PersistentFlags().Lookup("legacy-neutral-typo"))
	viper.BindPFlag("jobs", rootCmd.Flags().Lookup("jobs"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func runFormat(cmd *cobra.Command, args []string) error {
	// Handle output mode flags
	if w, _ := cmd.Flags().GetBool("write"); w {
		config.SetOutput(string(runner.OutputWrite))
	} else if l, _ := cmd.Flags().GetBool("list"); l {
		config.SetOutput(string(runner.OutputList))
	} else if c, _ := cmd.Flags().GetBool("check"); c {
		config.SetOutput(string(runner.OutputCheck))
	} else if e, _ := cmd.Flags().GetBool("edits"); e {
		config.SetOutput(string(runner.OutputEdits))
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput(string(runner.OutputCopy))
	} else if o, _ := cmd.Flags().GetString("output"); o != "" {
		config.SetOutput(o)
	}

	mode, err := runner.ParseOutputMode(config.GetOutput())
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	out := runner.NewOutput(os.Stdout, os.Stderr)
	opts := config.FormatOptions()

	if len(args) == 1 && args[0] == "-" {
		if mode == runner.OutputWrite {
			return fmt.Errorf("cannot write result when reading from stdin")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		res := runner.FormatDocument(&parser.Document{Path: "<stdin>", Text: string(data)}, opts)
		return out.Emit([]runner.FileResult{res}, mode)
	}

	if len(args) == 0 {
		args = []string{config.GetPath()}
	}

	var paths []string
	for _, arg := range args {
		absPath, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("error resolving path: %w", err)
		}
		found, err := parser.Discover(absPath, config.GetExtensions())
		if err != nil {
			return fmt.Errorf("path error: %w", err)
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return fmt.Errorf("no LilyPond files found in %v", args)
	}

	results, err := runner.FormatFiles(cmd.Context(), paths, opts, config.GetJobs())
	if err != nil {
		return err
	}
	return out.Emit(results, mode)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	res := runner.FormatFile(args[0], config.FormatOptions())
	if res.Err != nil {
		return fmt.Errorf("format error: %w", res.Err)
	}
	for _, p := range res.Result.Problems {
		fmt.Fprintf(os.Stderr, "%s: warning: %v\n", res.Path, p)
	}
	if len(res.Result.Edits) == 0 {
		fmt.Fprintf(os.Stderr, "%s is already formatted\n", res.Path)
		return nil
	}

	accepted, confirmed, err := ui.Review(res)
	if err != nil {
		return err
	}
	if !confirmed || len(accepted) == 0 {
		return nil
	}

	formatted, err := textedit.Apply(res.Original, accepted)
	if err != nil {
		return fmt.Errorf("apply error: %w", err)
	}
	info, err := os.Stat(res.Path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(res.Path, []byte(formatted), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	fmt.Fprintf(os.Stderr, "\033[1;32m✓ Applied %d of %d edits\033[0m\n", len(accepted), len(res.Result.Edits))
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings := config.Settings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", file)
	}
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %q\n", k, fmt.Sprint(settings[k]))
	}
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
