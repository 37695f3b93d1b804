package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aezell/codescore/internal/client"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/report"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"analyze", "check", "serve", "schema", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(&ExitError{Code: 2}))
	assert.Equal(t, 1, ExitCode(assert.AnError))
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func relative(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestCollectFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"App.jsx":                   "",
		"api/main.py":               "",
		"api/main_test.py":          "",
		"lib/util.JS":               "",
		"README.md":                 "",
		"node_modules/dep/index.js": "",
		".git/hooks/pre-commit.py":  "",
	})

	paths, err := collectFiles([]string{dir}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"App.jsx", "api/main.py", "api/main_test.py", "lib/util.JS"}, relative(t, dir, paths))

	excludes, err := compileExcludes([]string{"*_test.py", "**/lib"})
	require.NoError(t, err)
	paths, err = collectFiles([]string{dir}, excludes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"App.jsx", "api/main.py"}, relative(t, dir, paths))
}

func TestCollectFilesKeepsExplicitFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "x"})
	path := filepath.Join(dir, "notes.txt")

	paths, err := collectFiles([]string{path, path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.js")}, nil)
	assert.Error(t, err)
}

func TestCompileExcludesInvalid(t *testing.T) {
	_, err := compileExcludes([]string{"[a-"})
	assert.Error(t, err)
}

func TestExitFor(t *testing.T) {
	good := report.FileReport{Path: "a.js", Result: &model.AnalysisResult{OverallScore: 87}}
	low := report.FileReport{Path: "b.js", Result: &model.AnalysisResult{OverallScore: 40}}
	failed := report.FileReport{Path: "c.js", Err: "Failed to analyze code: Error: 500 Internal Server Error"}

	assert.NoError(t, exitFor([]report.FileReport{good, low}, 0))
	assert.Equal(t, 1, ExitCode(exitFor([]report.FileReport{good, low}, 50)))
	assert.Equal(t, 2, ExitCode(exitFor([]report.FileReport{low, failed}, 50)))
}

func TestAnalyzeFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"overall_score": 87, "breakdown": {"naming": 8}, "recommendations": ["Use more descriptive names"]}`))
	}))
	defer srv.Close()

	dir := writeFiles(t, map[string]string{"app.py": "x = 1\n", "notes.txt": "x"})
	sub := client.New(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rep := analyzeFile(ctx, sub, filepath.Join(dir, "app.py"))
	assert.False(t, rep.Failed())
	require.NotNil(t, rep.Result)
	assert.Equal(t, 87, rep.Result.OverallScore)
	assert.Equal(t, int64(6), rep.Size)

	rep = analyzeFile(ctx, sub, filepath.Join(dir, "notes.txt"))
	assert.Equal(t, "Please upload a .js, .jsx, or .py file", rep.Err)
	assert.Nil(t, rep.Result)

	rep = analyzeFile(ctx, sub, filepath.Join(dir, "gone.py"))
	assert.True(t, strings.HasPrefix(rep.Err, "reading "), rep.Err)
	assert.NotContains(t, rep.Err, "Failed to analyze code")
}

func TestCheckCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"overall_score": 72, "breakdown": {"naming": 8, "modularity": 12}, "recommendations": ["Add docstrings"]}`))
	}))
	defer srv.Close()

	dir := writeFiles(t, map[string]string{"src/app.js": "let a = 1;\n", "src/api.py": "x = 1\n"})
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	rootCmd.SetArgs([]string{
		"check", dir,
		"--config", filepath.Join(dir, "missing.toml"),
		"--endpoint", srv.URL,
		"--format", "json",
		"--min-score", "80",
	})
	err := rootCmd.Execute()
	assert.Equal(t, 1, ExitCode(err))

	var files []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &files))
	require.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f["path"].(string), ".js") || strings.HasSuffix(f["path"].(string), ".py"))
	}
}

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	schemaCmd.SetOut(&out)
	defer schemaCmd.SetOut(nil)

	require.NoError(t, schemaCmd.RunE(schemaCmd, nil))
	assert.Contains(t, out.String(), `"overall_score"`)
	assert.Contains(t, out.String(), `"best_practices"`)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "codescore dev (commit none, built unknown)\n", out.String())
}
