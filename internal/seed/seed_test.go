package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := Default(now)
	require.NoError(t, err)

	assert.Equal(t, 200, data.NextID)
	require.Len(t, data.Projects, 3)
	require.Len(t, data.Issues, 2)
	require.Len(t, data.LlmFixes, 1)

	wallet := data.Projects[0]
	assert.Equal(t, "Wallet API", wallet.Name)
	require.NotNil(t, wallet.LastScan)
	assert.Equal(t, now.Add(-2*time.Hour), *wallet.LastScan)
	assert.Equal(t, 75, wallet.FixPercentage)

	assert.Equal(t, []string{"security", "database"}, data.Issues[0].Tags)

	fix := data.LlmFixes[0]
	require.NotNil(t, fix.IssueID)
	assert.Equal(t, 101, *fix.IssueID)
	assert.Contains(t, *fix.FixedCode, "raise ValueError")
	assert.Equal(t, now.Add(-2*time.Hour), fix.CreatedAt)
}

func TestParse(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		doc     string
		nextID  int
		wantErr bool
	}{
		{
			name:   "next id raised above highest fixture id",
			doc:    "next_id: 5\nprojects:\n  - id: 40\n    name: x\n",
			nextID: 41,
		},
		{
			name:   "empty document",
			doc:    "",
			nextID: 1,
		},
		{
			name:    "bad duration",
			doc:     "projects:\n  - id: 1\n    last_scan_ago: yesterday\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			doc:     "projects: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Parse([]byte(tt.doc), now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nextID, data.NextID)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	doc := "git_commits:\n  - id: 7\n    project_id: 1\n    commit_hash: abc123\n    author: dev\n    message: init\n    committed_ago: 1h\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	now := time.Now()
	data, err := Load(path, now)
	require.NoError(t, err)
	require.Len(t, data.GitCommits, 1)
	assert.Equal(t, "abc123", data.GitCommits[0].CommitHash)
	assert.Equal(t, now.Add(-time.Hour), data.GitCommits[0].CommittedAt)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), now)
	assert.Error(t, err)
}
