package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

// demoBrands are the subsystems the demo workload emits under.
var demoBrands = []string{"replicator", "janitor", "frontend"}

func newDemoCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a small concurrent workload through the logging pipeline",
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

			// Echo automatically when a person is watching.
			if stdoutIsTerminal(cmd.OutOrStdout()) {
				hub.SetConsoleEcho(true)
			}

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				brand := demoBrands[i%len(demoBrands)]
				emitter := hub.NewEmitter(brand)
				worker := i

				wg.Add(1)
				go func() {
					defer wg.Done()
					hub.SetGoroutineName(fmt.Sprintf("worker-%d", worker))
					defer hub.ClearGoroutineName()

					failure := fmt.Errorf("demo worker %d: simulated failure", worker)
					err := hub.WithTask(fmt.Sprintf("demo-pass-%d", worker), func() error {
						emitter.Info("starting pass")
						hub.Registry().Add(failure)
						emitter.Warning("pass degraded")
						hub.Registry().Add(failure)
						return failure
					})
					if err != nil {
						emitter.Error("pass failed: %v", err)
						emitter.ReportBacktrace(err)
					}

					emitter.RunIgnoringFailure(func() error {
						return errors.New("cleanup hiccup")
					})
					emitter.Audit("worker %d finished", worker)
				}()
			}
			wg.Wait()

			registerKnownBrands(hub, cfg)
			fmt.Fprintln(cmd.OutOrStdout(), renderBrandTable(hub))
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 3, "Number of concurrent demo workers")

	return cmd
}
