package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/remindme/task"
	"github.com/rogpeppe/go-internal/testscript"
)

type builtBinary struct {
	once sync.Once
	path string
	err  error
}

var binaries sync.Map

// BuildBinary builds ./cmd/<name> once per test process and returns its path.
func BuildBinary(t testing.TB, name string) string {
	t.Helper()

	value, _ := binaries.LoadOrStore(name, &builtBinary{})
	built := value.(*builtBinary)
	built.once.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			built.err = err
			return
		}

		binDir, err := os.MkdirTemp("", name+"-bin-")
		if err != nil {
			built.err = err
			return
		}

		built.path = filepath.Join(binDir, name)
		cmd := exec.Command("go", "build", "-o", built.path, "./cmd/"+name)
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			built.err = fmt.Errorf("build %s: %w: %s", name, err, strings.TrimSpace(string(output)))
		}
	})

	if built.err != nil {
		t.Fatalf("%v", built.err)
	}

	return built.path
}

// SetupScriptEnv configures common environment variables for testscript.
// Binaries are exposed as upper-cased env vars with dashes replaced, e.g.
// REMINDME_SERVER for remindme-server.
func SetupScriptEnv(t testing.TB, env *testscript.Env, names ...string) error {
	t.Helper()

	for _, name := range names {
		key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		env.Setenv(key, BuildBinary(t, name))
	}

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("TZ", "UTC")
	env.Setenv("NO_COLOR", "1")
	for _, key := range []string{"REMINDME_SERVER_URL", "REMINDME_PROFILE", "REMINDME_TOKEN", "ADMIN_SECRET", "DATABASE_URL", "CORS_ORIGIN", "PORT"} {
		env.Setenv(key, "")
	}
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskID finds a task by title in a JSON task list and stores its ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE TITLE VAR")
	}

	var items []task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	title := args[1]
	for _, item := range items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("task with title %q not found", title)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
