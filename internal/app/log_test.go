package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPixcatHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&pixcatHandler{w: &buf, opID: "20240115T103000Z"})

	logger.Info("sync started", "folder", "/photos", "batch", 50)

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 6 {
		t.Fatalf("got %d fields: %q", len(fields), line)
	}
	if fields[1] != "INFO" {
		t.Errorf("level = %q", fields[1])
	}
	if fields[2] != "20240115T103000Z" {
		t.Errorf("opID = %q", fields[2])
	}
	if fields[3] != "sync started" {
		t.Errorf("message = %q", fields[3])
	}
	if fields[4] != "folder=/photos" || fields[5] != "batch=50" {
		t.Errorf("attrs = %q, %q", fields[4], fields[5])
	}
}

func TestPixcatHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(&pixcatHandler{w: &buf, opID: "op"})
	logger := base.With("component", "sync")

	logger.Warn("slow folder", "path", "/photos")

	line := buf.String()
	if !strings.Contains(line, "component=sync") {
		t.Errorf("pre-set attr missing: %q", line)
	}
	if !strings.Contains(line, "path=/photos") {
		t.Errorf("record attr missing: %q", line)
	}
	if !strings.Contains(line, "WARN") {
		t.Errorf("level missing: %q", line)
	}

	// The base logger is unaffected.
	buf.Reset()
	base.Info("plain")
	if strings.Contains(buf.String(), "component=sync") {
		t.Errorf("base handler gained attrs: %q", buf.String())
	}
}

func TestPixcatHandler_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := &slogAdapter{l: slog.New(&pixcatHandler{w: &buf, opID: "op"})}

	adapter.Debug("d")
	adapter.Info("i")
	adapter.Warn("w")
	adapter.Error("e")

	out := buf.String()
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if !strings.Contains(out, level) {
			t.Errorf("level %s missing from output: %q", level, out)
		}
	}
}
