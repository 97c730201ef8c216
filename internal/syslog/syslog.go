// Package syslog provides the facility and severity vocabulary used across
// logtap plus a datagram transport for the local syslog socket.
package syslog

import (
	"fmt"
	"net"
	"strings"
	"sync"
)

// Severity is an RFC3164 severity level.
type Severity int

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

var severityTags = map[Severity]string{
	SeverityEmergency: "EMERG",
	SeverityAlert:     "ALERT",
	SeverityCritical:  "CRIT",
	SeverityError:     "ERROR",
	SeverityWarning:   "WARN",
	SeverityNotice:    "NOTICE",
	SeverityInfo:      "INFO",
	SeverityDebug:     "DEBUG",
}

// Tag returns the short label used in formatted log lines.
func (s Severity) Tag() string {
	if tag, ok := severityTags[s]; ok {
		return tag
	}
	return fmt.Sprintf("SEV(%d)", int(s))
}

func (s Severity) String() string {
	return strings.ToLower(s.Tag())
}

// ParseSeverity maps a config string to a severity.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "emerg", "emergency":
		return SeverityEmergency, nil
	case "alert":
		return SeverityAlert, nil
	case "crit", "critical":
		return SeverityCritical, nil
	case "err", "error":
		return SeverityError, nil
	case "warn", "warning":
		return SeverityWarning, nil
	case "notice":
		return SeverityNotice, nil
	case "info":
		return SeverityInfo, nil
	case "debug":
		return SeverityDebug, nil
	default:
		return 0, fmt.Errorf("severity: unsupported value %q", value)
	}
}

// Facility is an RFC3164 facility code.
type Facility int

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityCron
	FacilityAuthPriv
	FacilityFTP
)

const (
	FacilityLocal0 Facility = iota + 16
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

var facilityNames = map[Facility]string{
	FacilityKern:     "kern",
	FacilityUser:     "user",
	FacilityMail:     "mail",
	FacilityDaemon:   "daemon",
	FacilityAuth:     "auth",
	FacilitySyslog:   "syslog",
	FacilityLPR:      "lpr",
	FacilityNews:     "news",
	FacilityUUCP:     "uucp",
	FacilityCron:     "cron",
	FacilityAuthPriv: "authpriv",
	FacilityFTP:      "ftp",
	FacilityLocal0:   "local0",
	FacilityLocal1:   "local1",
	FacilityLocal2:   "local2",
	FacilityLocal3:   "local3",
	FacilityLocal4:   "local4",
	FacilityLocal5:   "local5",
	FacilityLocal6:   "local6",
	FacilityLocal7:   "local7",
}

func (f Facility) String() string {
	if name, ok := facilityNames[f]; ok {
		return name
	}
	return fmt.Sprintf("facility(%d)", int(f))
}

// ParseFacility maps a config string to a facility.
func ParseFacility(value string) (Facility, error) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for facility, name := range facilityNames {
		if name == needle {
			return facility, nil
		}
	}
	return 0, fmt.Errorf("facility: unsupported value %q", value)
}

// Priority encodes facility and severity into the RFC3164 PRI value.
func Priority(f Facility, s Severity) int {
	return int(f)*8 + int(s)
}

// DefaultSocketPath is the conventional local syslog datagram socket.
const DefaultSocketPath = "/dev/log"

// Writer delivers datagrams to the local syslog socket. Delivery is
// best-effort: dial and write failures are swallowed and the connection is
// re-dialed on the next call.
type Writer struct {
	addr string
	tag  string

	mu   sync.Mutex
	conn net.Conn
}

// NewWriter returns a writer for the socket at addr (DefaultSocketPath when
// empty) tagging each datagram with tag.
func NewWriter(addr, tag string) *Writer {
	if strings.TrimSpace(addr) == "" {
		addr = DefaultSocketPath
	}
	return &Writer{addr: addr, tag: tag}
}

// Log frames and sends one message. Errors never surface to the caller.
func (w *Writer) Log(facility Facility, severity Severity, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, err := net.Dial("unixgram", w.addr)
		if err != nil {
			return
		}
		w.conn = conn
	}

	datagram := fmt.Sprintf("<%d>%s: %s", Priority(facility, severity), w.tag, message)
	if _, err := w.conn.Write([]byte(datagram)); err != nil {
		w.conn.Close()
		w.conn = nil
	}
}

// Close releases the socket if one was dialed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
