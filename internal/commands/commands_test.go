package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockcheck-dev/stockcheck/internal/commands"
)

// stockCSV covers every expiry status and one case-insensitive duplicate.
const stockCSV = `S.No,Item,Quantity,Cost,Sell Price,Profit,Category,Expiry
1,Milk,10,20,18,,Dairy,23/10/2026
2,Rice,5,30,40,,Grains,2027-01-15
3,rice,2,30,32,,Grains,none
4,Bread,3,10,12,,Bakery,2026-10-01
5,Jam,1,5,9,,Pantry,someday
,,,,,,,
`

const testNow = "2026-10-18"

func runStockcheck(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// initProject creates a project without git and returns its root.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runStockcheck(t, "init", dir, "--name", "Corner Shop", "--no-git")
	require.NoError(t, err, out)
	return dir
}

func writeInput(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(stockCSV), 0o644))
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func reportPath(dir, stem string) string {
	return filepath.Join(dir, "reports", stem+"-processed-20261018-000000.xlsx")
}

// reportFiles lists generated files in reports/, ignoring .gitkeep.
func reportFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if e.Name() != ".gitkeep" {
			names = append(names, e.Name())
		}
	}
	return names
}
