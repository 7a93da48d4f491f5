package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/retryclass/internal/config"
	"github.com/vvka-141/retryclass/internal/retry"
	"github.com/vvka-141/retryclass/internal/scenario"
	"github.com/vvka-141/retryclass/pkg/retryclass"
)

type classifyFlagValues struct {
	kind   string
	code   string
	wcCode string
	reply  string
	labels []string
	output string
}

var classifyFlags classifyFlagValues

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single failure",
	Long: `Classify builds one failure and reports every retryability decision for it:
whether a change stream may resume, whether a read may be retried, whether a
write must be labelled RetryableWriteError, and whether the write may be retried.

Exactly one failure form is required:
  --kind     a locally observed error (connection-failure, not-primary,
             node-recovering, cursor-not-found)
  --code     a server command error, by number or name
  --wc-code  a write concern error with the given nested code
  --reply    a raw server reply in Extended JSON, or @file to read it from a file

--label attaches error labels to any form and may be repeated.`,
	Example: `  retryclass classify --code HostUnreachable
  retryclass classify --code 91 --label NonResumableChangeStreamError
  retryclass classify --kind cursor-not-found
  retryclass classify --wc-code NotWritablePrimary -o json
  retryclass classify --reply '{"ok": 0, "code": 237, "codeName": "CursorKilled"}'`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyFlags.kind, "kind", "", "Locally observed error kind")
	classifyCmd.Flags().StringVar(&classifyFlags.code, "code", "", "Server error code (number or name)")
	classifyCmd.Flags().StringVar(&classifyFlags.wcCode, "wc-code", "", "Write concern error code (number or name)")
	classifyCmd.Flags().StringVar(&classifyFlags.reply, "reply", "", "Server reply as Extended JSON, or @file")
	classifyCmd.Flags().StringArrayVar(&classifyFlags.labels, "label", nil, "Error label to attach (repeatable)")
	classifyCmd.Flags().StringVarP(&classifyFlags.output, "output", "o", "", "Output format: text or json (default from config)")
}

// classifyResult is the JSON form of a verdict.
type classifyResult struct {
	Error string `json:"error"`
	retry.Verdict
}

func runClassify(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := loadConfig(verbose)
	if err != nil {
		return err
	}
	format, err := resolveOutputFormat(classifyFlags.output, cfg)
	if err != nil {
		return err
	}

	failure, err := buildFailure(classifyFlags)
	if err != nil {
		return err
	}

	verdict := retry.Classify(failure)
	if verbose {
		newCommandLogger(cmd).Verbose("Classified %s failure: %v", verdict.ShapeName, failure)
	}

	if format == config.OutputJSON {
		return writeJSON(cmd.OutOrStdout(), classifyResult{Error: failure.Error(), Verdict: verdict})
	}
	renderVerdict(cmd.OutOrStdout(), failure, verdict)
	return nil
}

// buildFailure turns the classify flags into a failure value. Scenario steps
// share the same four forms, so the step builder does the work.
func buildFailure(flags classifyFlagValues) (retryclass.Failure, error) {
	set := 0
	for _, v := range []string{flags.kind, flags.code, flags.wcCode, flags.reply} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --kind, --code, --wc-code or --reply is required")
	}

	step := scenario.Step{
		Code:             flags.code,
		WriteConcernCode: flags.wcCode,
		Labels:           flags.labels,
	}
	if flags.kind != "" {
		kind, err := retryclass.ParseErrorKind(flags.kind)
		if err != nil {
			return nil, err
		}
		step.Kind = &kind
	}
	if flags.reply != "" {
		reply, err := readReplyArg(flags.reply)
		if err != nil {
			return nil, err
		}
		step.Reply = reply
	}
	return step.Failure()
}

// readReplyArg returns the reply text, reading it from a file for @path.
func readReplyArg(arg string) (string, error) {
	path, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read reply file: %w", err)
	}
	return string(data), nil
}

func renderVerdict(w io.Writer, failure retryclass.Failure, v retry.Verdict) {
	labels := mutedStyle.Render("(none)")
	if len(v.Labels) > 0 {
		labels = strings.Join(v.Labels, ", ")
	}

	fmt.Fprintln(w, titleStyle.Render(failure.Error()))
	fmt.Fprintln(w, row("shape", v.ShapeName))
	fmt.Fprintln(w, row("labels", labels))
	fmt.Fprintln(w)
	fmt.Fprintln(w, row("change stream resumable", yesNo(v.Resumable)))
	fmt.Fprintln(w, row("retryable read", yesNo(v.RetryableRead)))
	fmt.Fprintln(w, row("write label required", yesNo(v.ShouldLabelWrite)))
	fmt.Fprintln(w, row("retryable write", yesNo(v.RetryableWrite)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
