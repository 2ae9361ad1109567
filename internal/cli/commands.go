package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxdata/internal/paths"
	"github.com/mesh-intelligence/boxdata/pkg/animation"
)

// startSession loads config and builds the session it describes. Logs go to
// the command's stderr.
func startSession(cmd *cobra.Command, flags *rootFlags) (*animation.Animation, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, newLogger(cmd.ErrOrStderr(), cfg.LogLevel))
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			written, err := writeDefaultConfig(configDir)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s\n", configDir, configFileExt)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "config already present in %s\n", configDir)
			}
			return nil
		},
	}
}

// typeSummary is the JSON shape of one record type.
type typeSummary struct {
	Name   string         `json:"name"`
	Fields []fieldSummary `json:"fields"`
}

type fieldSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newTypesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List configured record types and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			anim, err := startSession(cmd, flags)
			if err != nil {
				return err
			}
			reg := anim.Data()
			summaries := make([]typeSummary, 0, len(reg.Names()))
			for _, name := range reg.Names() {
				tbl, _ := reg.Table(name)
				ts := typeSummary{Name: name, Fields: []fieldSummary{}}
				for _, f := range tbl.Schema() {
					ts.Fields = append(ts.Fields, fieldSummary{Name: f.Name, Type: f.Type.String()})
				}
				summaries = append(summaries, ts)
			}

			out := cmd.OutOrStdout()
			if flags.jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			for _, ts := range summaries {
				fmt.Fprintln(out, ts.Name)
				for _, f := range ts.Fields {
					fmt.Fprintf(out, "  %s: %s\n", f.Name, f.Type)
				}
			}
			return nil
		},
	}
}

func newShellCmd(flags *rootFlags) *cobra.Command {
	var script string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit types, records and hitboxes interactively",
		Long: `Shell starts an editing session seeded from config.yaml and reads
commands from stdin (or --script). Type "help" for the command list.
Nothing is saved when the session ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			anim, err := startSession(cmd, flags)
			if err != nil {
				return err
			}
			sh := newShell(anim, cmd.OutOrStdout())
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				return sh.runScript(cmd.Context(), f, "", false)
			}
			return sh.runScript(cmd.Context(), cmd.InOrStdin(), "> ", true)
		},
	}
	cmd.Flags().StringVar(&script, "script", "", "run commands from a file and stop at the first error")
	return cmd
}

func newQueryCmd(flags *rootFlags) *cobra.Command {
	var script string
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL against the session's tables",
		Long: `Query mirrors every record table into an in-memory SQLite database and
runs the given statement. Each table has a "key" column followed by one
column per field. Use --script to populate the session first.`,
		Example: `  boxdata query 'SELECT * FROM "TestType"'
  boxdata query --script hits.txt 'SELECT key, damage FROM "Hit" WHERE damage > 10'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anim, err := startSession(cmd, flags)
			if err != nil {
				return err
			}
			sh := newShell(anim, cmd.OutOrStdout())
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				// Script output is discarded; only the query result is printed.
				sh.out = io.Discard
				if err := sh.runScript(cmd.Context(), f, "", false); err != nil {
					return err
				}
				sh.out = cmd.OutOrStdout()
			}
			res, err := sh.query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if flags.jsonMode {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&script, "script", "", "shell commands to run before the query")
	return cmd
}
