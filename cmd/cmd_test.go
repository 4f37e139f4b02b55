package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>CLI Show</title>
    <link>https://cli.example</link>
    <description>Loaded from the command line</description>
    <itunes:author>CLI Host</itunes:author>
    <item>
      <title>Episode One</title>
      <guid>one</guid>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
  </channel>
</rss>`

// executeCommand runs the root command with fresh flag values
func executeCommand(args ...string) (string, error) {
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func newFeedServer(t *testing.T) (string, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(testFeed))
	}))
	t.Cleanup(server.Close)
	return server.URL + "/feed.xml", hits
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{"no args shows help", []string{}, false, "Load podcast RSS feeds"},
		{"help flag", []string{"--help"}, false, "Available Commands:"},
		{"invalid flag", []string{"--invalid-flag"}, true, ""},
		{"unknown log level", []string{"version", "--log-level", "loud"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.expectedOutput != "" && !strings.Contains(out, tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, out)
			}
		})
	}
}

func TestConfigureLogging(t *testing.T) {
	for _, level := range []string{"trace", "debug", "INFO", "warn", "error", ""} {
		if err := configureLogging(level); err != nil {
			t.Errorf("configureLogging(%q) = %v", level, err)
		}
	}
	if err := configureLogging("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
	_ = configureLogging("info")
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"podfeed", "Version:", "Go Version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}

	out, err = executeCommand("version", "--short")
	if err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if strings.TrimSpace(out) != "dev" {
		t.Errorf("expected short version 'dev', got %q", out)
	}
}

func TestFetchCommand(t *testing.T) {
	feedURL, hits := newFeedServer(t)

	out, err := executeCommand("fetch", feedURL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	for _, want := range []string{"CLI Show", "Author:   CLI Host", "Source:   network", "Episodes: 1", "2006-01-02  Episode One"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestFetchCommand_JSON(t *testing.T) {
	feedURL, _ := newFeedServer(t)

	out, err := executeCommand("fetch", feedURL, "--json")
	if err != nil {
		t.Fatalf("fetch --json failed: %v", err)
	}
	if !strings.Contains(out, `"title": "CLI Show"`) || !strings.Contains(out, `"guid": "one"`) {
		t.Errorf("unexpected JSON output %q", out)
	}
}

func TestFetchCommand_Cache(t *testing.T) {
	feedURL, hits := newFeedServer(t)
	dir := t.TempDir()

	if _, err := executeCommand("fetch", feedURL, "--cache-max-age", "1h", "--cache-dir", dir); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	out, err := executeCommand("fetch", feedURL, "--cache-max-age", "1h", "--cache-dir", dir)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if !strings.Contains(out, "Source:   cache") {
		t.Errorf("expected a cache hit, got %q", out)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestFetchCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing url", []string{"fetch"}},
		{"invalid url", []string{"fetch", "not a url"}},
		{"unreachable", []string{"fetch", "http://127.0.0.1:1/feed.xml", "--timeout", "500ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFetchAndMigrate_Library(t *testing.T) {
	feedURL, _ := newFeedServer(t)
	dbPath := filepath.Join(t.TempDir(), "library.db")

	out, err := executeCommand("migrate", "status", "--database", dbPath)
	if err != nil {
		t.Fatalf("migrate status failed: %v", err)
	}
	if !strings.Contains(out, "missing") {
		t.Errorf("expected missing tables on a new database, got %q", out)
	}

	if _, err := executeCommand("fetch", feedURL, "--save", "--database", dbPath); err != nil {
		t.Fatalf("fetch --save failed: %v", err)
	}

	out, err = executeCommand("migrate", "status", "--database", dbPath)
	if err != nil {
		t.Fatalf("migrate status failed: %v", err)
	}
	if strings.Contains(out, "missing") {
		t.Errorf("expected all tables present after save, got %q", out)
	}
}

func TestMigrateUp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	out, err := executeCommand("migrate", "up", "--database", dbPath)
	if err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}
	if !strings.Contains(out, "up to date") || strings.Contains(out, "missing") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestServeCommandFlags(t *testing.T) {
	serve, _, err := rootCmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("serve command not found: %v", err)
	}
	for _, name := range []string{"host", "port", "no-library"} {
		if serve.Flags().Lookup(name) == nil {
			t.Errorf("expected serve flag %q", name)
		}
	}
}
