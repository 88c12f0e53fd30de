package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := initProject(t)

	expectedDirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"reports",
		"logs",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := initProject(t)

	data, err := os.ReadFile(filepath.Join(dir, "stockcheck.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Corner Shop")
	assert.Contains(t, contents, "near_expiry_days: 30")
	assert.Contains(t, contents, "dir: reports")
}

func TestInit_DefaultName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "main-street")
	_, err := runStockcheck(t, "init", dir, "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "stockcheck.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: main-street")
}

func TestInit_Gitignore(t *testing.T) {
	dir := initProject(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".env")
}

func TestInit_AlreadyInitialized(t *testing.T) {
	dir := initProject(t)
	_, err := runStockcheck(t, "init", dir, "--no-git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	out, err := runStockcheck(t, "init", dir, "--name", "Corner Shop")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized stockcheck project")

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	assert.Contains(t, gitOutput(t, dir, "log", "--format=%s", "-1"), "init: Initialize Corner Shop")
	assert.Contains(t, gitOutput(t, dir, "log", "--format=%an <%ae>", "-1"), "Stockcheck <stockcheck@example.com>")
	assert.Contains(t, gitOutput(t, dir, "ls-files"), "import/processed/.gitkeep")
}
