package syslog_test

import (
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"logtap/internal/syslog"
)

func TestPriorityEncoding(t *testing.T) {
	cases := []struct {
		facility syslog.Facility
		severity syslog.Severity
		want     int
	}{
		{syslog.FacilityKern, syslog.SeverityEmergency, 0},
		{syslog.FacilityUser, syslog.SeverityNotice, 13},
		{syslog.FacilityDaemon, syslog.SeverityError, 27},
		{syslog.FacilityAuthPriv, syslog.SeverityNotice, 85},
		{syslog.FacilityLocal0, syslog.SeverityDebug, 135},
	}
	for _, tc := range cases {
		if got := syslog.Priority(tc.facility, tc.severity); got != tc.want {
			t.Errorf("Priority(%v, %v) = %d, want %d", tc.facility, tc.severity, got, tc.want)
		}
	}
}

func TestParseFacilityRoundTrip(t *testing.T) {
	for _, name := range []string{"user", "daemon", "authpriv", "local5"} {
		facility, err := syslog.ParseFacility(name)
		if err != nil {
			t.Fatalf("ParseFacility(%q): %v", name, err)
		}
		if facility.String() != name {
			t.Fatalf("round trip failed: %q -> %v", name, facility)
		}
	}
	if _, err := syslog.ParseFacility("bogus"); err == nil {
		t.Fatal("expected an error for an unknown facility")
	}
}

func TestParseSeverity(t *testing.T) {
	severity, err := syslog.ParseSeverity("Warning")
	if err != nil {
		t.Fatalf("ParseSeverity: %v", err)
	}
	if severity != syslog.SeverityWarning {
		t.Fatalf("expected warning, got %v", severity)
	}
	if _, err := syslog.ParseSeverity("loud"); err == nil {
		t.Fatal("expected an error for an unknown severity")
	}
}

func TestWriterDeliversDatagram(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "log.sock")
	server, err := net.ListenPacket("unixgram", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	writer := syslog.NewWriter(socketPath, "logtap-test")
	defer writer.Close()

	writer.Log(syslog.FacilityDaemon, syslog.SeverityInfo, "hello sink")

	server.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	buf := make([]byte, 1024)
	n, _, err := server.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read datagram: %v", err)
	}
	got := string(buf[:n])
	if !strings.HasPrefix(got, "<30>logtap-test: ") {
		t.Fatalf("unexpected framing: %q", got)
	}
	if !strings.HasSuffix(got, "hello sink") {
		t.Fatalf("unexpected payload: %q", got)
	}
}

func TestWriterSwallowsDialFailure(t *testing.T) {
	writer := syslog.NewWriter(filepath.Join(t.TempDir(), "missing.sock"), "logtap-test")
	defer writer.Close()

	// No socket exists; the write must be silently dropped.
	writer.Log(syslog.FacilityUser, syslog.SeverityInfo, "dropped")
}
