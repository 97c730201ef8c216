package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"logtap/internal/backtrace"
	"logtap/internal/config"
	"logtap/internal/journal"
	"logtap/internal/logging"
	"logtap/internal/syslog"
)

// buildHub wires a hub from config: syslog sink, optional audit journal,
// registry capacity, pre-disabled filters. The returned closer releases the
// sink socket and the journal handle.
func buildHub(cfg *config.Config) (*logging.Hub, func(), error) {
	sink := syslog.NewWriter("", "logtap")
	closers := []func(){func() { _ = sink.Close() }}

	var auditJournal *journal.Journal
	if path := cfg.JournalPath(); path != "" {
		dir := cfg.Journal.Dir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure journal directory: %w", err)
		}
		if err := journal.PreflightDir(dir, cfg.Journal.MinFreeMB); err != nil {
			return nil, nil, err
		}
		journal.CleanupOldJournals(cfg.Journal.RetentionDays, journal.RetentionTarget{
			Dir:     dir,
			Pattern: "*.log",
			Exclude: []string{path},
		})
		opened, err := journal.Open(path)
		if err != nil {
			return nil, nil, err
		}
		auditJournal = opened
		closers = append(closers, func() { _ = opened.Close() })
	}

	hub := logging.NewHub(logging.Options{
		Sink:        sink,
		Facility:    cfg.Facility(),
		ConsoleEcho: cfg.Logging.ConsoleEcho,
		Registry:    backtrace.NewRegistry(cfg.Logging.BacktraceCapacity),
		Journal:     auditJournal,
	})
	for _, filter := range cfg.Logging.Disabled {
		severity, err := syslog.ParseSeverity(filter.Severity)
		if err != nil {
			continue // Validate already rejected bad documents
		}
		hub.Disable(filter.Brand, severity)
	}

	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}
	return hub, closeAll, nil
}

func stdoutIsTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
