package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [flags] <file>...",
	Short: "Print the detected dialect of each file",
	Long: `Classify reports which dialect a file would be checked as. The [files]
patterns of mbaalint.toml win over content sniffing, as in check.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	classifyCmd.Flags().Bool("sniff-only", false, "ignore file patterns and only sniff content")
}

type classifyRow struct {
	Path       string  `json:"path"`
	Dialect    string  `json:"dialect"`
	Tag        string  `json:"tag,omitempty"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	RunnerUp   string  `json:"runner_up,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	sniffOnly, err := cmd.Flags().GetBool("sniff-only")
	if err != nil {
		return fmt.Errorf("failed to get sniff-only flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	matcher, err := cfg.Matcher()
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	rows := make([]classifyRow, 0, len(args))
	for _, path := range args {
		id, err := fs.LoadWithEncoding(path, cfg.Encoding())
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		rows = append(rows, classifyFile(fs.Get(id), path, matcher, cfg.Root(), sniffOnly))
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
		printClassifyTable(cmd.OutOrStdout(), rows)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func classifyFile(doc source.Document, path string, matcher *dialect.Matcher, root string, sniffOnly bool) classifyRow {
	if !sniffOnly {
		if k := matcher.Match(dialect.RelPath(root, path)); k != dialect.Unknown {
			return classifyRow{Path: path, Dialect: k.String(), Tag: k.Tag(), Source: "pattern", Confidence: 1}
		}
	}
	c := dialect.Detect(doc)
	row := classifyRow{
		Path:       path,
		Dialect:    c.Kind.String(),
		Tag:        c.Kind.Tag(),
		Source:     "content",
		Confidence: c.Confidence,
		Reason:     c.Reason,
	}
	if c.RunnerUp != dialect.Unknown {
		row.RunnerUp = c.RunnerUp.String()
	}
	return row
}

func printClassifyTable(out io.Writer, rows []classifyRow) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDIALECT\tSOURCE\tCONFIDENCE\tREASON")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", r.Path, r.Dialect, r.Source, r.Confidence, r.Reason)
	}
	_ = tw.Flush()
}
