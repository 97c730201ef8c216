package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"logtap/internal/syslog"
)

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var brandFlag string
	var severityFlag string

	cmd := &cobra.Command{
		Use:   "emit [message...]",
		Short: "Emit a one-shot message at the given brand and severity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			hub, closeHub, err := buildHub(cfg)
			if err != nil {
				return err
			}
			defer closeHub()

			message := strings.Join(args, " ")
			emitter := hub.NewEmitter(brandFlag)

			if severityFlag == "audit" {
				sent := emitter.Audit("%s", message)
				fmt.Fprintln(cmd.OutOrStdout(), sent)
				return nil
			}

			severity, err := syslog.ParseSeverity(severityFlag)
			if err != nil {
				return err
			}
			switch severity {
			case syslog.SeverityDebug:
				emitter.Debug("%s", message)
			case syslog.SeverityInfo:
				emitter.Info("%s", message)
			case syslog.SeverityWarning:
				emitter.Warning("%s", message)
			case syslog.SeverityError:
				emitter.Error("%s", message)
			default:
				return fmt.Errorf("severity %s: not an emitter level", severity)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&brandFlag, "brand", "b", "logtap", "Brand to emit under")
	cmd.Flags().StringVarP(&severityFlag, "severity", "s", "info", "Severity (debug, info, warning, error, audit)")

	return cmd
}
