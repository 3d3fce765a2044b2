package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

const runMainEnv = "TRACKIT_TEST_RUN_MAIN"

// TestMain lets the test binary stand in for the trackit binary when the
// workflow test re-executes it.
func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func isolatedEnv(t *testing.T) []string {
	t.Helper()
	tempDir := t.TempDir()

	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "TRACKIT_") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		"HOME="+tempDir,
		"XDG_CONFIG_HOME="+tempDir,
		"TRACKIT_CONFIG_DIR="+tempDir,
		runMainEnv+"=1",
	)
}

func runCmd(t *testing.T, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("trackit %v failed: %v\nOutput: %s", args, err, out)
	}
	return string(out)
}

func TestEndToEndWorkflow(t *testing.T) {
	env := isolatedEnv(t)

	runCmd(t, env, "init")
	runCmd(t, env, "tracker", "add", "Run", "--category", "Health", "--schedule", "daily")
	runCmd(t, env, "tracker", "add", "Dentist", "--category", "Errands", "--event")

	out := runCmd(t, env, "remind", "--dry-run")
	if !strings.Contains(out, "[DryRun] 1 tracker left today: 🙂 Run") {
		t.Errorf("remind output = %q", out)
	}

	out = runCmd(t, env, "mark", "Run")
	if !strings.Contains(out, `Marked 🙂 "Run"`) {
		t.Errorf("mark output = %q", out)
	}

	out = runCmd(t, env, "day")
	for _, want := range []string{"Errands", "Health", "[x] 🙂 Run", "[ ] 🙂 Dentist"} {
		if !strings.Contains(out, want) {
			t.Errorf("day output missing %q:\n%s", want, out)
		}
	}

	out = runCmd(t, env, "stats")
	if !strings.Contains(out, "Best streak:") {
		t.Errorf("stats output:\n%s", out)
	}

	runCmd(t, env, "backup", "create")
	out = runCmd(t, env, "backup", "list")
	if !strings.Contains(out, "trackit-") {
		t.Errorf("backup list output:\n%s", out)
	}

	out = runCmd(t, env, "tracker", "delete", "Run")
	if !strings.Contains(out, `Deleted "Run" and 1 completion record(s)`) {
		t.Errorf("delete output = %q", out)
	}

	out = runCmd(t, env, "doctor")
	if !strings.Contains(out, "All diagnostics passed!") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestCommandsRequireInit(t *testing.T) {
	env := isolatedEnv(t)

	cmd := exec.Command(os.Args[0], "day")
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected day to fail before init, output: %s", out)
	}
	if !strings.Contains(string(out), "run 'trackit init' first") {
		t.Errorf("output = %q", out)
	}
}
