package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
)

// run executes the root command with args against the workspace selected
// by the test environment.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "nexus %s\n%s", strings.Join(args, " "), buf.String())
	return buf.String()
}

func TestRootHelp(t *testing.T) {
	output := run(t, "--help")
	assert.Contains(t, output, "Nexus")
	for _, sub := range []string{"task", "leave", "file", "dashboard", "ai"} {
		assert.Contains(t, output, sub)
	}
}

func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEXUS_DATA_DIR", dir)
	t.Setenv("NEXUS_DATA_DB", filepath.Join(dir, "nexus.db"))

	assert.Contains(t, run(t, "login", "--email", "alice@nexus.com"), "Welcome back, Alice Chen!")
	assert.Contains(t, run(t, "whoami"), "Senior Analyst")

	listed := run(t, "task", "list", "--mine")
	assert.Contains(t, listed, "Weekly KPI Report")
	assert.Contains(t, listed, "Competitor Analysis")

	moved := run(t, "task", "move", "t1", "done")
	assert.Contains(t, moved, "Next occurrence scheduled for "+calendar.Today().AddDays(8).String())

	start := calendar.Today().String()
	end := calendar.Today().AddDays(14).String()
	assert.Contains(t, run(t, "leave", "conflicts", "--start", start, "--end", end), "conflicting task(s) found")

	booked := run(t, "leave", "book", "--start", start, "--end", end, "--assign", "t2=bob@nexus.com")
	assert.Contains(t, booked, "Leave booked. 1 tasks reassigned/created for coverage.")

	assert.Contains(t, run(t, "activity", "--limit", "5"), "Task Reassigned")

	export := filepath.Join(dir, "backup")
	assert.Contains(t, run(t, "export", export, "--format", "yaml"), export+".yaml")
	assert.FileExists(t, export+".yaml")
}
