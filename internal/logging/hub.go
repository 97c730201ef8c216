package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"logtap/internal/backtrace"
	"logtap/internal/keyed"
	"logtap/internal/syslog"
)

// Sink receives formatted log lines. Implementations must not block the
// caller meaningfully and must not surface delivery errors; emission is
// best-effort from the hub's perspective.
type Sink interface {
	Log(facility syslog.Facility, severity syslog.Severity, message string)
}

// AuditRecorder persists audit lines beyond the sink (for example the on-disk
// journal). Failures stay inside the recorder.
type AuditRecorder interface {
	Record(line string)
}

// auditFacility is the fixed destination for audit messages regardless of the
// process facility setting.
const auditFacility = syslog.FacilityAuthPriv

// auditSeverity is the fixed severity audit messages are delivered at.
const auditSeverity = syslog.SeverityNotice

// echoTimeFormat prefixes console echo and audit lines. The sink transport is
// expected to stamp its own copies, so sink messages stay timestamp-free.
const echoTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type filterKey struct {
	brand    string
	severity syslog.Severity
}

// Options configures a Hub. The zero value is usable: a nil Sink discards
// sink traffic and a nil Registry gets the default capacity.
type Options struct {
	Sink        Sink
	Facility    syslog.Facility
	EchoWriter  io.Writer
	ConsoleEcho bool
	Registry    *backtrace.Registry
	Journal     AuditRecorder
}

// Hub owns the process-wide logging state and hands out per-brand emitters.
type Hub struct {
	sink    Sink
	journal AuditRecorder

	facilityMu sync.Mutex
	facility   syslog.Facility

	echo    atomic.Bool
	echoMu  sync.Mutex
	echoOut io.Writer

	hostMu   sync.Mutex
	hostname string
	hostSet  bool

	names    *keyed.Table[uint64, string]
	tasks    *keyed.Table[uint64, string]
	brands   *keyed.Set[string]
	filters  *keyed.Set[filterKey]
	registry *backtrace.Registry
}

type nopSink struct{}

func (nopSink) Log(syslog.Facility, syslog.Severity, string) {}

// NewHub constructs a hub from the provided options.
func NewHub(opts Options) *Hub {
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}
	echoOut := opts.EchoWriter
	if echoOut == nil {
		echoOut = os.Stdout
	}
	registry := opts.Registry
	if registry == nil {
		registry = backtrace.NewRegistry(0)
	}

	h := &Hub{
		sink:     sink,
		journal:  opts.Journal,
		facility: opts.Facility,
		echoOut:  echoOut,
		names:    keyed.NewTable[uint64, string](),
		tasks:    keyed.NewTable[uint64, string](),
		brands:   keyed.NewSet[string](),
		filters:  keyed.NewSet[filterKey](),
		registry: registry,
	}
	h.echo.Store(opts.ConsoleEcho)
	return h
}

// NewEmitter registers brand into the discoverable brand set and returns an
// emitter bound to it.
func (h *Hub) NewEmitter(brand string) *Emitter {
	h.brands.Add(brand)
	return &Emitter{hub: h, brand: brand}
}

// Brands enumerates the registered brand names, sorted.
func (h *Hub) Brands() []string {
	brands := h.brands.Items()
	sort.Strings(brands)
	return brands
}

// Registry exposes the backtrace registry shared by every emitter on this hub.
func (h *Hub) Registry() *backtrace.Registry {
	return h.registry
}

// SetFacility selects the destination category for non-audit messages.
func (h *Hub) SetFacility(facility syslog.Facility) {
	h.facilityMu.Lock()
	defer h.facilityMu.Unlock()
	h.facility = facility
}

// Facility returns the current non-audit destination category.
func (h *Hub) Facility() syslog.Facility {
	h.facilityMu.Lock()
	defer h.facilityMu.Unlock()
	return h.facility
}

// SetConsoleEcho toggles the local echo of every emitted line.
func (h *Hub) SetConsoleEcho(enabled bool) {
	h.echo.Store(enabled)
}

// ConsoleEcho reports whether local echo is on.
func (h *Hub) ConsoleEcho() bool {
	return h.echo.Load()
}

// Disable suppresses sink delivery for the (brand, severity) pair.
func (h *Hub) Disable(brand string, severity syslog.Severity) {
	h.filters.Add(filterKey{brand: brand, severity: severity})
}

// Enable clears every suppression recorded for brand.
func (h *Hub) Enable(brand string) {
	h.filters.RemoveFunc(func(key filterKey) bool {
		return key.brand == brand
	})
}

// Enabled reports whether (brand, severity) currently reaches the sink.
func (h *Hub) Enabled(brand string, severity syslog.Severity) bool {
	return !h.filters.Has(filterKey{brand: brand, severity: severity})
}

// Hostname returns the cached local hostname, computing it on first use.
// Lookup failure degrades to "localhost" rather than an error.
func (h *Hub) Hostname() string {
	h.hostMu.Lock()
	defer h.hostMu.Unlock()
	if !h.hostSet {
		name, err := os.Hostname()
		if err != nil || strings.TrimSpace(name) == "" {
			name = "localhost"
		}
		h.hostname = name
		h.hostSet = true
	}
	return h.hostname
}

// InvalidateHostname drops the cached hostname so the next emission looks it
// up again.
func (h *Hub) InvalidateHostname() {
	h.hostMu.Lock()
	defer h.hostMu.Unlock()
	h.hostname = ""
	h.hostSet = false
}

// BindTask associates the calling goroutine with a task label for the
// duration of an operation. Re-binding overwrites the previous label.
func (h *Hub) BindTask(label string) {
	h.tasks.Put(goroutineID(), label)
}

// CurrentTask returns the task label bound to the calling goroutine.
func (h *Hub) CurrentTask() (string, bool) {
	return h.tasks.Get(goroutineID())
}

// UnbindTask removes the calling goroutine's task binding if present.
func (h *Hub) UnbindTask() {
	h.tasks.Delete(goroutineID())
}

// WithTask binds label, runs fn, and always unbinds on the way out, whether
// fn returns normally, returns an error, or panics. The error (or panic)
// propagates unchanged.
func (h *Hub) WithTask(label string, fn func() error) error {
	h.BindTask(label)
	defer h.UnbindTask()
	return fn()
}

// SetGoroutineName gives the calling goroutine a display name for log lines.
// Names outlive task bindings and persist until explicitly cleared.
func (h *Hub) SetGoroutineName(name string) {
	h.names.Put(goroutineID(), name)
}

// GoroutineName returns the calling goroutine's display name.
func (h *Hub) GoroutineName() (string, bool) {
	return h.names.Get(goroutineID())
}

// ClearGoroutineName removes the calling goroutine's display name.
func (h *Hub) ClearGoroutineName() {
	h.names.Delete(goroutineID())
}

// formatLine builds the bracketed header and message for one log line. No
// lock is held while formatting; each table lookup takes its own lock
// briefly.
func (h *Hub) formatLine(brand string, severity syslog.Severity, message string) string {
	id := goroutineID()
	name, _ := h.names.Get(id)
	task, _ := h.tasks.Get(id)

	var b strings.Builder
	b.Grow(64 + len(message))
	b.WriteByte('[')
	b.WriteString(severity.Tag())
	b.WriteByte('|')
	b.WriteString(h.Hostname())
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(id, 10))
	if name != "" {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	b.WriteByte('|')
	b.WriteString(task)
	b.WriteByte('|')
	b.WriteString(brand)
	b.WriteString("] ")
	b.WriteString(message)
	return b.String()
}

// echoLine prints a timestamped copy of line to the local echo writer.
func (h *Hub) echoLine(line string) {
	h.echoMu.Lock()
	defer h.echoMu.Unlock()
	fmt.Fprintf(h.echoOut, "%s %s\n", time.Now().Format(echoTimeFormat), line)
}
