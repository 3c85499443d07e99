//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/composer-link/composer-link/internal/errors"
)

const projectManifest = `{
    "name": "test/project",
    "require": {
        "php": "^8.1",
        "vendor/existing": "^1.0"
    },
    "require-dev": {
        "vendor/tooling": "^0.4"
    },
    "config": {
        "sort-packages": true
    }
}
`

// TestFullFlowLinkUnlink links an existing requirement and a new one, runs
// the resolver for each, then restores the manifest byte for byte.
func TestFullFlowLinkUnlink(t *testing.T) {
	env := setupTestEnv(t, projectManifest)
	before := env.readManifest(t)

	existing := env.addPackage(t, "packages/existing", "vendor/existing")
	env.addPackage(t, "packages/fresh", "vendor/fresh")

	out, err := env.run(t, "link", "../packages/*")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	assertContains(t, out, "Linked vendor/existing")
	assertContains(t, out, "Linked vendor/fresh")

	doc := env.decodeManifest(t)
	require := doc["require"].(map[string]any)
	if require["vendor/existing"] != "*" || require["vendor/fresh"] != "*" {
		t.Errorf("expected both packages required as *, got %v", require)
	}
	if repos := doc["repositories"].(map[string]any); len(repos) != 2 {
		t.Errorf("expected 2 path repositories, got %d", len(repos))
	}

	calls := env.composerCalls(t)
	if len(calls) != 1 || calls[0] != "update --with-all-dependencies vendor/existing vendor/fresh" {
		t.Errorf("unexpected composer calls: %v", calls)
	}

	if _, err := env.run(t, "unlink", existing); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if _, err := env.run(t, "unlink-all"); err != nil {
		t.Fatalf("unlink-all: %v", err)
	}

	if got := env.readManifest(t); got != before {
		t.Errorf("manifest not restored.\nwant:\n%s\ngot:\n%s", before, got)
	}
	if calls := env.composerCalls(t); len(calls) != 3 {
		t.Errorf("expected 3 composer calls, got %v", calls)
	}

	out, err = env.run(t, "linked")
	if err != nil {
		t.Fatalf("linked: %v", err)
	}
	assertContains(t, out, "No linked packages")
}

func TestDevRequirementRoundTrip(t *testing.T) {
	env := setupTestEnv(t, projectManifest)
	before := env.readManifest(t)
	tooling := env.addPackage(t, "tooling", "vendor/tooling")

	if _, err := env.run(t, "--no-update", "link", tooling); err != nil {
		t.Fatalf("link: %v", err)
	}
	dev := env.decodeManifest(t)["require-dev"].(map[string]any)
	if dev["vendor/tooling"] != "*" {
		t.Errorf("expected require-dev constraint *, got %v", dev["vendor/tooling"])
	}

	if _, err := env.run(t, "--no-update", "unlink", tooling); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if got := env.readManifest(t); got != before {
		t.Errorf("manifest not restored.\nwant:\n%s\ngot:\n%s", before, got)
	}
	if calls := env.composerCalls(t); len(calls) != 0 {
		t.Errorf("expected no composer calls with --no-update, got %v", calls)
	}
}

func TestComposerFailureExitCode(t *testing.T) {
	env := setupTestEnv(t, projectManifest)
	env.addPackage(t, "pkg", "vendor/pkg")
	t.Setenv("FAKE_COMPOSER_EXIT", "4")

	_, err := env.run(t, "link", "../pkg")
	exitErr, ok := err.(*errors.ExitError)
	if !ok {
		t.Fatalf("expected *errors.ExitError, got %T (%v)", err, err)
	}
	if exitErr.Code != 4 {
		t.Errorf("expected exit code 4, got %d", exitErr.Code)
	}
}

func TestCorruptStoreIsTreatedAsEmpty(t *testing.T) {
	env := setupTestEnv(t, projectManifest)
	store := filepath.Join(env.ProjectDir, "vendor", "composer-link.json")
	writeFile(t, store, "{not json")

	out, err := env.run(t, "unlink-all")
	if err != nil {
		t.Fatalf("unlink-all: %v", err)
	}
	assertContains(t, out, "Nothing done")
}

func TestVendorDirFromManifestConfig(t *testing.T) {
	env := setupTestEnv(t, `{"name": "test/project", "config": {"vendor-dir": "lib"}}`)
	pkg := env.addPackage(t, "pkg", "vendor/pkg")

	if _, err := env.run(t, "--no-update", "link", pkg); err != nil {
		t.Fatalf("link: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.ProjectDir, "lib", "composer-link.json")); err != nil {
		t.Errorf("expected link records under lib/: %v", err)
	}
	assertFileNotExists(t, filepath.Join(env.ProjectDir, "vendor", "composer-link.json"))

	out, err := env.run(t, "linked", "--json")
	if err != nil {
		t.Fatalf("linked: %v", err)
	}
	assertContains(t, out, `"name": "vendor/pkg"`)
}
