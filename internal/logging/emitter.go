package logging

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"logtap/internal/syslog"
)

// Emitter formats and delivers log lines for a single brand.
type Emitter struct {
	hub   *Hub
	brand string
}

// Brand returns the brand this emitter was registered under.
func (e *Emitter) Brand() string {
	return e.brand
}

// Debug emits at debug severity.
func (e *Emitter) Debug(format string, args ...any) {
	e.emit(syslog.SeverityDebug, format, args...)
}

// Info emits at info severity.
func (e *Emitter) Info(format string, args ...any) {
	e.emit(syslog.SeverityInfo, format, args...)
}

// Warning emits at warning severity.
func (e *Emitter) Warning(format string, args ...any) {
	e.emit(syslog.SeverityWarning, format, args...)
}

// Error emits at error severity.
func (e *Emitter) Error(format string, args ...any) {
	e.emit(syslog.SeverityError, format, args...)
}

// emit delivers one line. The suppression check runs before any formatting
// cost is paid for the sink; console echo happens regardless of sink
// suppression, which is existing asymmetric behavior callers rely on.
func (e *Emitter) emit(severity syslog.Severity, format string, args ...any) {
	suppressed := !e.hub.Enabled(e.brand, severity)
	echo := e.hub.ConsoleEcho()
	if suppressed && !echo {
		return
	}

	line := e.hub.formatLine(e.brand, severity, fmt.Sprintf(format, args...))
	if echo {
		e.hub.echoLine(line)
	}
	if suppressed {
		return
	}
	e.hub.sink.Log(e.hub.Facility(), severity, line)
}

// Audit formats and emits at the fixed audit facility regardless of the
// process facility setting, and returns the exact string it sent. Audit
// lines carry their own timestamp and bypass brand suppression.
func (e *Emitter) Audit(format string, args ...any) string {
	line := e.hub.formatLine(e.brand, auditSeverity, fmt.Sprintf(format, args...))
	stamped := time.Now().Format(echoTimeFormat) + " " + line
	e.deliverAudit(stamped)
	return stamped
}

// AuditRaw emits message without template formatting or the bracketed header
// and returns the input unchanged.
func (e *Emitter) AuditRaw(message string) string {
	stamped := time.Now().Format(echoTimeFormat) + " " + message
	e.deliverAudit(stamped)
	return message
}

func (e *Emitter) deliverAudit(stamped string) {
	if e.hub.ConsoleEcho() {
		e.hub.echoMu.Lock()
		fmt.Fprintln(e.hub.echoOut, stamped)
		e.hub.echoMu.Unlock()
	}
	e.hub.sink.Log(auditFacility, auditSeverity, stamped)
	if e.hub.journal != nil {
		e.hub.journal.Record(stamped)
	}
}

// LogBacktrace emits the calling goroutine's current stack at debug severity,
// escaped for safe single-line logging.
func (e *Emitter) LogBacktrace() {
	e.Debug("%s", escapeTrace(string(debug.Stack())))
}

// RunIgnoringFailure runs fn and swallows any failure: a returned error or a
// panic is converted to a debug-level backtrace emission instead of
// propagating.
func (e *Emitter) RunIgnoringFailure(fn func() error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.Debug("recovered %v: %s", recovered, escapeTrace(string(debug.Stack())))
		}
	}()
	if err := fn(); err != nil {
		e.Debug("ignored failure %v: %s", err, escapeTrace(string(debug.Stack())))
	}
}

// ReportBacktrace drains every trace recorded for err from the registry and
// emits them as 1-indexed debug lines, oldest first.
func (e *Emitter) ReportBacktrace(err error) {
	traces := e.hub.registry.RemoveAll(err)
	for i, trace := range traces {
		e.Debug("backtrace %d/%d: %s", i+1, len(traces), escapeTrace(trace))
	}
}

var traceEscaper = strings.NewReplacer(
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
	"\t", `\t`,
)

// escapeTrace collapses a multi-line stack trace onto one log line.
func escapeTrace(trace string) string {
	return traceEscaper.Replace(strings.TrimSpace(trace))
}
