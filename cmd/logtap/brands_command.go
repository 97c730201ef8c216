package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"logtap/internal/config"
	"logtap/internal/logging"
	"logtap/internal/syslog"
)

var brandSeverities = []syslog.Severity{
	syslog.SeverityDebug,
	syslog.SeverityInfo,
	syslog.SeverityWarning,
	syslog.SeverityError,
}

func newBrandsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List known brands and their per-severity delivery state",
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
			registerKnownBrands(hub, cfg)

			fmt.Fprintln(cmd.OutOrStdout(), renderBrandTable(hub))
			return nil
		},
	}
}

// registerKnownBrands seeds the discoverable brand set for a one-shot
// process: every brand named in the config suppression list plus the brands
// the demo workload emits under.
func registerKnownBrands(hub *logging.Hub, cfg *config.Config) {
	for _, filter := range cfg.Logging.Disabled {
		hub.NewEmitter(filter.Brand)
	}
	for _, brand := range demoBrands {
		hub.NewEmitter(brand)
	}
}

func renderBrandTable(hub *logging.Hub) string {
	titler := cases.Title(language.English)

	headers := []string{"Brand"}
	for _, severity := range brandSeverities {
		headers = append(headers, severity.Tag())
	}

	var rows [][]string
	for _, brand := range hub.Brands() {
		row := []string{titler.String(brand)}
		for _, severity := range brandSeverities {
			state := "deliver"
			if !hub.Enabled(brand, severity) {
				state = "suppressed"
			}
			row = append(row, state)
		}
		rows = append(rows, row)
	}

	return renderTable(headers, rows)
}
