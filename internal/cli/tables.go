package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/retryclass/internal/config"
	"github.com/vvka-141/retryclass/internal/retry"
	"github.com/vvka-141/retryclass/pkg/retryclass"
)

var tablesOutput string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the classification tables",
	Long: `Print the fixed tables every classification decision is made from.
Codes are shown with their registry name and number.`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().StringVarP(&tablesOutput, "output", "o", "", "Output format: text or json (default from config)")
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(getVerboseFlag(cmd))
	if err != nil {
		return err
	}
	format, err := resolveOutputFormat(tablesOutput, cfg)
	if err != nil {
		return err
	}

	snapshot := retry.Tables()
	if format == config.OutputJSON {
		return writeJSON(cmd.OutOrStdout(), snapshot)
	}
	renderTables(cmd.OutOrStdout(), snapshot)
	return nil
}

func renderTables(w io.Writer, t retry.TableSnapshot) {
	section := func(title string, rows ...string) {
		fmt.Fprintln(w, titleStyle.Render(title))
		for _, r := range rows {
			fmt.Fprintln(w, "  "+r)
		}
		fmt.Fprintln(w)
	}

	section("Change stream resume",
		row("resumable kinds", formatKinds(t.ResumableKinds)),
		row("exclusion codes", formatCodes(t.ResumableExclusionCodes)),
		row("exclusion labels", strings.Join(t.ResumableExclusionLabels, ", ")),
	)
	section("Retryable reads",
		row("kinds", formatKinds(t.RetryableReadKinds)),
		row("codes", formatCodes(t.RetryableReadCodes)),
	)
	section("Retryable writes",
		row("kinds", formatKinds(t.RetryableWriteKinds)),
		row("codes", formatCodes(t.RetryableWriteCodes)),
		row("write concern codes", formatCodes(t.RetryableWriteConcernCodes)),
	)
}

func formatKinds(kinds []retryclass.ErrorKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

func formatCodes(codes []retryclass.ErrorCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprintf("%s (%d)", c, int32(c))
	}
	return strings.Join(parts, ", ")
}
