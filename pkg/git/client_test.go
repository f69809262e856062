package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, filepath.Join(".quicknotes", "git.lock"), nil)

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, ".quicknotes", "git.lock")
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_DefaultLockName(t *testing.T) {
	client := NewClient(t.TempDir(), "", nil)
	if client.lockPath != DefaultLockName {
		t.Errorf("expected %q, got %q", DefaultLockName, client.lockPath)
	}
}

func TestClient_InitAddCommit(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}

	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if !client.IsRepo() {
		t.Fatal("expected IsRepo after init")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := client.Add("notes.json"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	changed, err := client.HasStagedChanges("notes.json")
	if err != nil {
		t.Fatalf("HasStagedChanges failed: %v", err)
	}
	if !changed {
		t.Fatal("expected staged change")
	}

	if err := client.Commit(FormatCommitMessage(CommitTypeDocs, "notes", "save 0 notes", "")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	changed, err = client.HasStagedChanges("notes.json")
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("expected clean tree after commit")
	}

	log, err := client.Run("log", "-1", "--format=%B")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log, Footer) {
		t.Errorf("commit message missing footer: %q", log)
	}
}

// isolateGitConfig points git at a global config file under a fresh HOME and
// clears identity variables for the duration of the test.
func isolateGitConfig(t *testing.T, gitconfig string) {
	t.Helper()
	home := t.TempDir()
	cfg := filepath.Join(home, ".gitconfig")
	if err := os.WriteFile(cfg, []byte(gitconfig), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_GLOBAL", cfg)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	for _, key := range []string{"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func commitAuthor(t *testing.T, client *Client) string {
	t.Helper()
	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if err := os.WriteFile(filepath.Join(client.WorkDir, "tags.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := client.Add("tags.json"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit(FormatCommitMessage(CommitTypeDocs, "tags", "save 0 tags", "")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	author, err := client.Run("log", "-1", "--format=%an <%ae>")
	if err != nil {
		t.Fatal(err)
	}
	return author
}

func TestClient_CommitUsesConfiguredIdentity(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	isolateGitConfig(t, "[user]\n\tname = Real User\n\temail = real@example.com\n")

	author := commitAuthor(t, NewClient(t.TempDir(), "", nil))
	if author != "Real User <real@example.com>" {
		t.Errorf("expected configured identity, got %q", author)
	}
}

func TestClient_CommitFallsBackWithoutIdentity(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	isolateGitConfig(t, "")

	author := commitAuthor(t, NewClient(t.TempDir(), "", nil))
	want := FallbackName + " <" + FallbackEmail + ">"
	if author != want {
		t.Errorf("expected %q, got %q", want, author)
	}
}

func TestSubcommand(t *testing.T) {
	if got := subcommand([]string{"-c", "user.name=x", "commit", "-m", "m"}); got != "commit" {
		t.Errorf("expected commit, got %q", got)
	}
	if got := subcommand([]string{"status"}); got != "status" {
		t.Errorf("expected status, got %q", got)
	}
}

func TestFormatCommitMessage(t *testing.T) {
	tests := []struct {
		name    string
		ctype   string
		scope   string
		subject string
		body    string
		want    string
	}{
		{
			name:    "simple",
			ctype:   "feat",
			subject: "add feature",
			want:    "feat: add feature\n\nPowered-by: QuickNotes",
		},
		{
			name:    "with scope",
			ctype:   "docs",
			scope:   "notes",
			subject: "save 3 notes",
			want:    "docs(notes): save 3 notes\n\nPowered-by: QuickNotes",
		},
		{
			name:    "default type and body",
			subject: "tidy",
			body:    "  Reordered tags.  ",
			want:    "chore: tidy\n\nReordered tags.\n\nPowered-by: QuickNotes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCommitMessage(tt.ctype, tt.scope, tt.subject, tt.body)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
