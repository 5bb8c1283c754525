package enginelog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerDropsMessagesBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Warn)
	lg.SetOutput(&buf)
	lg.Infof("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected Infof to be dropped below Warn, got %q", buf.String())
	}
	lg.Warnf("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected Warnf to be emitted, got %q", buf.String())
	}
}

func TestLoggerIncludesLevelTag(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Debug)
	lg.SetOutput(&buf)
	lg.Errorf("boom")
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Fatalf("expected an [ERROR] tag, got %q", buf.String())
	}
}

func TestSetMinLevelChangesGate(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Error)
	lg.SetOutput(&buf)
	lg.Warnf("gated out")
	lg.SetMinLevel(Warn)
	lg.Warnf("let through")
	if strings.Contains(buf.String(), "gated out") {
		t.Fatalf("expected the first Warnf to be gated out by the Error minimum")
	}
	if !strings.Contains(buf.String(), "let through") {
		t.Fatalf("expected the second Warnf to pass after lowering the minimum")
	}
}
