// v0
// internal/app/app_test.go
package app

import (
	"strings"
	"testing"

	"github.com/whatifwestudios/the-commons/internal/config"
)

func TestNewRejectsEmptyListenAddress(t *testing.T) {
	_, err := New(config.Config{LogFilePath: "logs/commons.log"})
	if err == nil || !strings.Contains(err.Error(), "listen address") {
		t.Fatalf("expected a listen address error, got %v", err)
	}
}

func TestNewRejectsBlankLogPath(t *testing.T) {
	for _, path := range []string{"", "   "} {
		_, err := New(config.Config{ListenAddress: ":8090", LogFilePath: path})
		if err == nil || !strings.Contains(err.Error(), "log file path") {
			t.Fatalf("log path %q: expected a log file path error, got %v", path, err)
		}
	}
}
