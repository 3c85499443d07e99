package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/pretty"
)

const projectManifest = `{
    "name": "test/project",
    "description": "Fixture project",
    "require": {
        "php": "^8.1",
        "vendor/existing": "^1.0"
    },
    "require-dev": {
        "vendor/dev-pkg": "^2.0"
    },
    "autoload": {
        "psr-4": {
            "App\\": "src/"
        }
    }
}
`

func setupEditor(t *testing.T, content string) (*Editor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewEditor(path), path
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEditor_AddPathSource(t *testing.T) {
	e, path := setupEditor(t, projectManifest)

	require.NoError(t, e.AddPathSource("/path/to/package"))

	data := readJSON(t, path)
	repos := data["repositories"].(map[string]any)
	require.Len(t, repos, 1)

	repo := repos[RepositoryKey("/path/to/package")].(map[string]any)
	assert.Equal(t, "path", repo["type"])
	assert.Equal(t, "/path/to/package", repo["url"])
	assert.Equal(t, false, repo["canonical"])
	assert.Equal(t, map[string]any{"symlink": true}, repo["options"])

	ok, err := e.HasPathSource("/path/to/package")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEditor_AddPathSourceIsUpsert(t *testing.T) {
	e, path := setupEditor(t, projectManifest)

	require.NoError(t, e.AddPathSource("/path/to/package"))
	require.NoError(t, e.AddPathSource("/path/to/package"))

	repos := readJSON(t, path)["repositories"].(map[string]any)
	assert.Len(t, repos, 1)
}

func TestEditor_RemovePathSource(t *testing.T) {
	e, path := setupEditor(t, projectManifest)

	require.NoError(t, e.AddPathSource("/path/a"))
	require.NoError(t, e.AddPathSource("/path/b"))
	require.NoError(t, e.RemovePathSource("/path/a"))

	repos := readJSON(t, path)["repositories"].(map[string]any)
	assert.Len(t, repos, 1)
	assert.Contains(t, repos, RepositoryKey("/path/b"))

	require.NoError(t, e.RemovePathSource("/path/b"))
	assert.NotContains(t, readJSON(t, path), "repositories", "empty repositories member is dropped")
}

func TestEditor_RemovePathSourceMissingIsNoop(t *testing.T) {
	e, path := setupEditor(t, projectManifest)

	require.NoError(t, e.RemovePathSource("/never/added"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, projectManifest, string(data), "file is not rewritten when nothing changes")
}

func TestEditor_RepositoriesListForm(t *testing.T) {
	e, path := setupEditor(t, `{
    "repositories": [
        {"type": "vcs", "url": "https://example.com/repo.git"}
    ],
    "require": {}
}
`)

	require.NoError(t, e.AddPathSource("/path/to/package"))
	require.NoError(t, e.AddPathSource("/path/to/package"))

	repos := readJSON(t, path)["repositories"].([]any)
	require.Len(t, repos, 2)
	added := repos[1].(map[string]any)
	assert.Equal(t, RepositoryKey("/path/to/package"), added["name"])
	assert.Equal(t, "/path/to/package", added["url"])

	require.NoError(t, e.RemovePathSource("/path/to/package"))
	repos = readJSON(t, path)["repositories"].([]any)
	require.Len(t, repos, 1)
	assert.Equal(t, "vcs", repos[0].(map[string]any)["type"])
}

func TestEditor_AddAndRemoveDeclaration(t *testing.T) {
	e, path := setupEditor(t, projectManifest)

	require.NoError(t, e.AddDeclaration(SectionRequire, "vendor/new", "*"))
	require.NoError(t, e.AddDeclaration(SectionRequireDev, "vendor/dev-pkg", "*"))

	data := readJSON(t, path)
	assert.Equal(t, "*", data["require"].(map[string]any)["vendor/new"])
	assert.Equal(t, "*", data["require-dev"].(map[string]any)["vendor/dev-pkg"])

	require.NoError(t, e.RemoveDeclaration(SectionRequire, "vendor/new"))
	require.NoError(t, e.RemoveDeclaration(SectionRequire, "vendor/never-there"))

	data = readJSON(t, path)
	assert.NotContains(t, data["require"], "vendor/new")
	assert.Equal(t, "^8.1", data["require"].(map[string]any)["php"])
}

func TestEditor_AddDeclarationCreatesSection(t *testing.T) {
	e, path := setupEditor(t, `{"name": "test/project"}`)

	require.NoError(t, e.AddDeclaration(SectionRequireDev, "vendor/tool", "^3.0"))

	data := readJSON(t, path)
	assert.Equal(t, map[string]any{"vendor/tool": "^3.0"}, data["require-dev"])
}

func TestEditor_DottedPackageName(t *testing.T) {
	e, path := setupEditor(t, projectManifest)

	require.NoError(t, e.AddDeclaration(SectionRequire, "vendor/pkg.name", "^1.0"))

	data := readJSON(t, path)
	assert.Equal(t, "^1.0", data["require"].(map[string]any)["vendor/pkg.name"])

	c, ok, err := e.Constraint("vendor/pkg.name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "^1.0", c)
}

func TestEditor_RejectsUnknownSection(t *testing.T) {
	e, _ := setupEditor(t, projectManifest)

	assert.Error(t, e.AddDeclaration(Section("suggest"), "a/b", "*"))
	assert.Error(t, e.RemoveDeclaration(Section("suggest"), "a/b"))
}

func TestEditor_Constraint(t *testing.T) {
	e, _ := setupEditor(t, projectManifest)

	c, ok, err := e.Constraint("vendor/existing")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "^1.0", c)

	c, ok, err = e.Constraint("vendor/dev-pkg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "^2.0", c)

	_, ok, err = e.Constraint("vendor/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEditor_SectionOf(t *testing.T) {
	e, _ := setupEditor(t, projectManifest)

	dev, err := e.IsDevDeclaration("vendor/dev-pkg")
	require.NoError(t, err)
	assert.True(t, dev)

	section, err := e.SectionOf("vendor/dev-pkg")
	require.NoError(t, err)
	assert.Equal(t, SectionRequireDev, section)

	section, err = e.SectionOf("vendor/existing")
	require.NoError(t, err)
	assert.Equal(t, SectionRequire, section)

	section, err = e.SectionOf("vendor/unknown")
	require.NoError(t, err)
	assert.Equal(t, SectionRequire, section)
}

func TestEditor_RoundTripRestoresBytes(t *testing.T) {
	baseline := string(pretty.PrettyOptions([]byte(projectManifest), &pretty.Options{Indent: "    "}))
	e, path := setupEditor(t, baseline)

	require.NoError(t, e.AddPathSource("/path/to/new"))
	require.NoError(t, e.AddDeclaration(SectionRequire, "vendor/new", "*"))
	require.NoError(t, e.AddDeclaration(SectionRequire, "vendor/existing", "*"))

	require.NoError(t, e.RemovePathSource("/path/to/new"))
	require.NoError(t, e.RemoveDeclaration(SectionRequire, "vendor/new"))
	require.NoError(t, e.AddDeclaration(SectionRequire, "vendor/existing", "^1.0"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, baseline, string(data))
}

func TestEditor_PreservesKeyOrderAndIndent(t *testing.T) {
	e, path := setupEditor(t, "{\n  \"name\": \"test/project\",\n  \"require\": {\n    \"b/b\": \"^1\",\n    \"a/a\": \"^1\"\n  }\n}\n")

	require.NoError(t, e.AddDeclaration(SectionRequire, "c/c", "*"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"test/project\",\n  \"require\": {\n    \"b/b\": \"^1\",\n    \"a/a\": \"^1\",\n    \"c/c\": \"*\"\n  }\n}\n", string(data))
}

func TestEditor_MissingManifest(t *testing.T) {
	e := NewEditor(filepath.Join(t.TempDir(), FileName))

	_, _, err := e.Constraint("vendor/x")
	assert.Error(t, err)
	assert.Error(t, e.AddPathSource("/x"))
}

func TestRepositoryKey(t *testing.T) {
	a := RepositoryKey("/path/a")
	assert.Equal(t, a, RepositoryKey("/path/a"))
	assert.NotEqual(t, a, RepositoryKey("/path/b"))
	assert.Equal(t, "composer-link-", a[:len("composer-link-")])
	assert.Len(t, a, len("composer-link-")+32)
}
