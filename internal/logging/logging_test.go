package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v", logger.GetLevel())
	}

	logger.WithField("user", "Join").Info("login")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "login" || entry["user"] != "Join" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New("chatty", "text", &bytes.Buffer{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v", logger.GetLevel())
	}
}
