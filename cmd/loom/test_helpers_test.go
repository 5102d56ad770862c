package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/booking"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
	bookingURL string
}

const testScheduleBody = `
[platforms.x]
timezone = "UTC"

[[platforms.x.slots]]
name = "daily"
days = ["mon", "tue", "wed", "thu", "fri", "sat", "sun"]
at = "09:00"
`

// newBookingServer serves the minimal booking API surface the CLI exercises.
func newBookingServer(t *testing.T, posts []booking.Post) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/posts", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"posts": posts})
	})
	mux.HandleFunc("POST /v1/posts", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "remote-1"})
	})
	mux.HandleFunc("DELETE /v1/posts/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupCLITestEnv(t *testing.T, posts []booking.Post) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	server := newBookingServer(t, posts)

	schedulePath := filepath.Join(base, "schedule.toml")
	if err := os.WriteFile(schedulePath, []byte(testScheduleBody), 0o644); err != nil {
		t.Fatalf("write schedule: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	configBody := `
[paths]
data_dir = "` + filepath.Join(base, "data") + `"
log_dir = "` + filepath.Join(base, "logs") + `"
schedule_path = "` + schedulePath + `"

[booking]
base_url = "` + server.URL + `"
`
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, baseDir: base, bookingURL: server.URL}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}
