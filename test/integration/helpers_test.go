//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/composer-link/composer-link/internal/cli"
	"github.com/composer-link/composer-link/internal/config"
)

// testEnv holds paths to an isolated project and a fake composer binary.
type testEnv struct {
	Root        string // parent of the project and local packages
	ProjectDir  string // the consuming project
	ConfigFile  string // user config file
	ComposerLog string // every fake composer invocation is appended here
}

// setupTestEnv creates a project with composer.json and points
// COMPOSER_LINK_COMPOSER_BIN at a script that records its arguments.
func setupTestEnv(t *testing.T, manifest string) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake composer is a shell script")
	}

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}

	env := &testEnv{
		Root:        root,
		ProjectDir:  filepath.Join(root, "project"),
		ConfigFile:  filepath.Join(root, "home", "config.yaml"),
		ComposerLog: filepath.Join(root, "composer.log"),
	}
	writeFile(t, filepath.Join(env.ProjectDir, "composer.json"), manifest)

	bin := filepath.Join(root, "bin", "composer")
	writeFile(t, bin, "#!/bin/sh\necho \"$*\" >> "+env.ComposerLog+"\nexit ${FAKE_COMPOSER_EXIT:-0}\n")
	if err := os.Chmod(bin, 0755); err != nil {
		t.Fatalf("chmod %s: %v", bin, err)
	}

	t.Setenv("COMPOSER", "")
	t.Setenv("COMPOSER_VENDOR_DIR", "")
	t.Setenv("COMPOSER_LINK_COMPOSER_BIN", bin)
	return env
}

// run executes the command tree against the project and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.New(config.New(e.ConfigFile), "test").RootCommand()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--working-dir", e.ProjectDir}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

// addPackage writes a local package named name under root/rel.
func (e *testEnv) addPackage(t *testing.T, rel, name string) string {
	t.Helper()
	dir := filepath.Join(e.Root, rel)
	writeFile(t, filepath.Join(dir, "composer.json"), `{"name": "`+name+`", "type": "library"}`)
	return dir
}

// composerCalls returns one line per fake composer invocation.
func (e *testEnv) composerCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.ComposerLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading composer log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (e *testEnv) readManifest(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.ProjectDir, "composer.json"))
	if err != nil {
		t.Fatalf("reading composer.json: %v", err)
	}
	return string(data)
}

func (e *testEnv) decodeManifest(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(e.readManifest(t)), &out); err != nil {
		t.Fatalf("decoding composer.json: %v", err)
	}
	return out
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertContains fails if s does not contain substr.
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected output to contain %q, got:\n%s", substr, s)
	}
}
