package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mpvremote/internal/ipc"
	"mpvremote/internal/testsupport"
)

func TestGetPrintsValues(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetProperty("media-title", "Big Buck Bunny")

	out, _, err := runCLI(t, []string{"get", "duration", "media-title"}, "", env.configPath)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireContains(t, out, "duration\t120\n")
	requireContains(t, out, "media-title\tBig Buck Bunny\n")
}

func TestGetReportsServerError(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"get", "nonexistent"}, "", env.configPath)
	if err == nil {
		t.Fatal("expected error for unavailable property")
	}
	requireContains(t, err.Error(), "property unavailable")
}

func TestSetParsesJSONValues(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"set", "pause", "true"}, "", env.configPath); err != nil {
		t.Fatalf("set pause: %v", err)
	}
	if value, _ := env.fake.Property("pause"); value != true {
		t.Fatalf("pause = %#v, want true", value)
	}

	if _, _, err := runCLI(t, []string{"set", "title", "movie night"}, "", env.configPath); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if value, _ := env.fake.Property("title"); value != "movie night" {
		t.Fatalf("title = %#v", value)
	}
}

func TestRawCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"command", "show-text", "hello"}, "", env.configPath)
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	requireContains(t, out, "ok")
	if shown := env.fake.Shown(); len(shown) != 1 || shown[0] != "hello" {
		t.Fatalf("shown = %v", shown)
	}

	out, _, err = runCLI(t, []string{"command", "get_property", "duration"}, "", env.configPath)
	if err != nil {
		t.Fatalf("command get_property: %v", err)
	}
	requireContains(t, out, "120")
}

func TestSocketFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	other := testsupport.NewFakeMPV(t)
	other.SetProperty("duration", 42.0)

	out, _, err := runCLI(t, []string{"get", "duration"}, other.Path(), env.configPath)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireContains(t, out, "duration\t42\n")
}

func TestDialErrorMentionsSocket(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "missing.sock")
	_, _, err := runCLI(t, []string{"get", "pause"}, missing, env.configPath)
	if err == nil {
		t.Fatal("expected dial error")
	}
	requireContains(t, err.Error(), "not found")
	requireContains(t, err.Error(), "--input-ipc-server")
}

func TestWaitReturnsMatchingEvent(t *testing.T) {
	env := setupCLITestEnv(t)

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, _, err := runCLI(t, []string{"wait", ipc.EventFileLoaded}, "", env.configPath)
		done <- result{out, err}
	}()

	env.fake.WaitConnected(2 * time.Second)
	env.fake.Emit(ipc.Event{Event: ipc.EventEndFile})
	env.fake.Emit(ipc.Event{Event: ipc.EventFileLoaded})

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("wait: %v", res.err)
		}
		var evt ipc.Event
		if err := json.Unmarshal([]byte(strings.TrimSpace(res.out)), &evt); err != nil {
			t.Fatalf("decode output %q: %v", res.out, err)
		}
		if evt.Event != ipc.EventFileLoaded {
			t.Fatalf("event = %q", evt.Event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return")
	}
}

func TestWatchPrintsChanges(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"watch", "--count", "2", "pause", "volume"}, "", env.configPath)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireContains(t, out, "pause = false\n")
	requireContains(t, out, "volume = (none)\n")
}

func TestWatchStopsOnCancel(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", env.configPath, "watch", "pause"})
	var stdout strings.Builder
	cmd.SetOut(&stdout)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	env.fake.WaitConnected(2 * time.Second)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch after cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch ignored cancellation")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"50", "50"},
		{"true", "true"},
		{`"quoted"`, `"quoted"`},
		{"plain text", `"plain text"`},
		{"", `""`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(parseValue(tc.in))
		if err != nil {
			t.Fatalf("marshal %q: %v", tc.in, err)
		}
		if string(data) != tc.want {
			t.Errorf("parseValue(%q) encodes as %s, want %s", tc.in, data, tc.want)
		}
	}
}
