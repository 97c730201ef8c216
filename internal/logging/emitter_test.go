package logging_test

import (
	"errors"
	"strings"
	"testing"

	"logtap/internal/logging"
	"logtap/internal/syslog"
)

type recordedJournal struct {
	lines []string
}

func (j *recordedJournal) Record(line string) {
	j.lines = append(j.lines, line)
}

func TestAuditRoutesToFixedFacility(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	hub.SetFacility(syslog.FacilityLocal3)
	sent := emitter.Audit("operator %s logged in", "alice")

	calls := sink.all()
	if len(calls) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(calls))
	}
	if calls[0].facility != syslog.FacilityAuthPriv {
		t.Fatalf("audit ignored the fixed facility, got %v", calls[0].facility)
	}
	if calls[0].message != sent {
		t.Fatalf("Audit returned %q but sent %q", sent, calls[0].message)
	}
	if !strings.Contains(sent, "operator alice logged in") {
		t.Fatalf("audit line missing message: %q", sent)
	}
	// Audit lines carry their own timestamp, unlike ordinary sink messages.
	if !strings.HasPrefix(sent, "20") {
		t.Fatalf("audit line missing timestamp: %q", sent)
	}
}

func TestAuditBypassesSuppression(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	hub.Disable("frontend", syslog.SeverityNotice)
	emitter.Audit("still delivered")

	if calls := sink.all(); len(calls) != 1 {
		t.Fatalf("audit should bypass suppression, got %d calls", len(calls))
	}
}

func TestAuditRawReturnsInputUnchanged(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	got := emitter.AuditRaw("verbatim payload")
	if got != "verbatim payload" {
		t.Fatalf("AuditRaw altered the input: %q", got)
	}

	calls := sink.all()
	if len(calls) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(calls))
	}
	if !strings.HasSuffix(calls[0].message, "verbatim payload") {
		t.Fatalf("sent message should end with the raw payload: %q", calls[0].message)
	}
}

func TestAuditTeesIntoJournal(t *testing.T) {
	sink := &captureSink{}
	recorder := &recordedJournal{}
	hub := logging.NewHub(logging.Options{Sink: sink, Journal: recorder})
	emitter := hub.NewEmitter("frontend")

	sent := emitter.Audit("journaled")

	if len(recorder.lines) != 1 || recorder.lines[0] != sent {
		t.Fatalf("journal got %v, want [%q]", recorder.lines, sent)
	}
}

func TestLogBacktraceEmitsSingleEscapedLine(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	emitter.LogBacktrace()

	calls := sink.all()
	if len(calls) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(calls))
	}
	line := calls[0].message
	if calls[0].severity != syslog.SeverityDebug {
		t.Fatalf("backtrace should emit at debug, got %v", calls[0].severity)
	}
	if strings.ContainsAny(line, "\n\t") {
		t.Fatalf("backtrace not escaped to a single line: %q", line)
	}
	if !strings.Contains(line, "TestLogBacktraceEmitsSingleEscapedLine") {
		t.Fatalf("backtrace does not reflect the call site: %q", line)
	}
}

func TestRunIgnoringFailureSwallowsError(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	emitter.RunIgnoringFailure(func() error {
		return errors.New("swallowed")
	})

	calls := sink.all()
	if len(calls) != 1 {
		t.Fatalf("expected a debug diagnostic, got %d calls", len(calls))
	}
	if calls[0].severity != syslog.SeverityDebug {
		t.Fatalf("diagnostic should be debug, got %v", calls[0].severity)
	}
	if !strings.Contains(calls[0].message, "swallowed") {
		t.Fatalf("diagnostic missing the failure: %q", calls[0].message)
	}
}

func TestRunIgnoringFailureRecoversPanic(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	emitter.RunIgnoringFailure(func() error {
		panic("not propagated")
	})

	calls := sink.all()
	if len(calls) != 1 {
		t.Fatalf("expected a debug diagnostic, got %d calls", len(calls))
	}
	if !strings.Contains(calls[0].message, "not propagated") {
		t.Fatalf("diagnostic missing the panic value: %q", calls[0].message)
	}
}

func TestReportBacktraceEmitsIndexedLines(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	failure := errors.New("reported")
	hub.Registry().Add(failure)
	hub.Registry().Add(failure)

	emitter.ReportBacktrace(failure)

	calls := sink.all()
	if len(calls) != 2 {
		t.Fatalf("expected 2 backtrace lines, got %d", len(calls))
	}
	if !strings.Contains(calls[0].message, "backtrace 1/2:") {
		t.Fatalf("first line badly indexed: %q", calls[0].message)
	}
	if !strings.Contains(calls[1].message, "backtrace 2/2:") {
		t.Fatalf("second line badly indexed: %q", calls[1].message)
	}

	sink.reset()
	emitter.ReportBacktrace(failure)
	if calls := sink.all(); len(calls) != 0 {
		t.Fatalf("registry should be drained, got %d lines", len(calls))
	}
}

func TestReportBacktraceOnUnknownErrorEmitsNothing(t *testing.T) {
	sink := &captureSink{}
	hub := newTestHub(sink)
	emitter := hub.NewEmitter("frontend")

	emitter.ReportBacktrace(errors.New("never recorded"))

	if calls := sink.all(); len(calls) != 0 {
		t.Fatalf("expected no emission, got %d", len(calls))
	}
}

func TestNilSinkDiscardsQuietly(t *testing.T) {
	hub := logging.NewHub(logging.Options{})
	emitter := hub.NewEmitter("frontend")
	emitter.Info("goes nowhere")
	emitter.Audit("also nowhere")
}
