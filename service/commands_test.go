package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/app/repositories"
)

// setupTestDB points the commands at a fresh database path
func setupTestDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "badger")
	t.Setenv("STORE_BACKEND", "badger")
	t.Setenv("BADGER_PATH", dbPath)
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("MEDIA_ROOT", filepath.Join(dir, "media"))
	return dbPath
}

// run executes the command line with stdin and returns everything printed
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func openTestStore(t *testing.T, dbPath string) *repositories.Store {
	t.Helper()
	db, err := repositories.OpenBadger(dbPath)
	require.NoError(t, err)
	store := repositories.NewBadgerStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "yatube version "+Version)
}

func TestInit(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized")
	assert.DirExists(t, dbPath)

	out, err = run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database already exists")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantOut   string
		wantExist bool
	}{
		{name: "confirmed", stdin: "y\n", args: []string{"clean"}, wantOut: "Database cleaned", wantExist: false},
		{name: "declined", stdin: "n\n", args: []string{"clean"}, wantOut: "Operation cancelled", wantExist: true},
		{name: "yes flag", args: []string{"clean", "--yes"}, wantOut: "Database cleaned", wantExist: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := setupTestDB(t)
			_, err := run(t, "", "init")
			require.NoError(t, err)

			out, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
			if tt.wantExist {
				assert.DirExists(t, dbPath)
			} else {
				assert.NoDirExists(t, dbPath)
			}
		})
	}
}

func TestCleanMissingDatabase(t *testing.T) {
	setupTestDB(t)
	out, err := run(t, "", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "already clean")
}

func TestBackupAndRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	backupDir := t.TempDir()

	_, err := run(t, "", "user", "create", "--username", "leo", "--password", "correct-horse")
	require.NoError(t, err)

	out, err := run(t, "", "backup", "--dir", backupDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Database backed up")

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	backupFile := filepath.Join(backupDir, entries[0].Name())

	_, err = run(t, "", "clean", "--yes")
	require.NoError(t, err)

	out, err = run(t, "", "restore", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Database restored")

	store := openTestStore(t, dbPath)
	user, err := store.Users.GetByUsername(context.Background(), "leo")
	require.NoError(t, err)
	assert.Equal(t, "leo", user.Username)
}

func TestBackupWithoutDatabase(t *testing.T) {
	setupTestDB(t)
	_, err := run(t, "", "backup", "--dir", t.TempDir())
	assert.ErrorContains(t, err, "no database exists")
}

func TestRestoreDeclined(t *testing.T) {
	dbPath := setupTestDB(t)
	_, err := run(t, "", "init")
	require.NoError(t, err)

	backupFile := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, os.WriteFile(backupFile, []byte("not empty"), 0644))

	out, err := run(t, "n\n", "restore", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Operation cancelled")
	assert.DirExists(t, dbPath)
}

func TestRestoreRejectsBadFiles(t *testing.T) {
	setupTestDB(t)
	dir := t.TempDir()

	_, err := run(t, "", "restore", filepath.Join(dir, "missing.db"))
	assert.ErrorContains(t, err, "does not exist")

	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = run(t, "", "restore", empty)
	assert.ErrorContains(t, err, "is empty")

	_, err = run(t, "", "restore")
	assert.Error(t, err)
}

func TestGroupCreate(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, "", "group", "create", "--title", "Go Lovers", "--description", "All about Go")
	require.NoError(t, err)
	assert.Contains(t, out, "/group/go-lovers/")

	_, err = run(t, "", "group", "create", "--title", "Other", "--slug", "go-lovers", "--description", "dup")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = run(t, "", "group", "create", "--title", "No description")
	assert.Error(t, err)

	store := openTestStore(t, dbPath)
	group, err := store.Groups.GetBySlug(context.Background(), "go-lovers")
	require.NoError(t, err)
	assert.Equal(t, "All about Go", group.Description)
}

func TestUserCreateStaff(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, "", "user", "create", "--username", "admin", "--password", "correct-horse", "--staff")
	require.NoError(t, err)
	assert.Contains(t, out, "Created staff user admin")

	_, err = run(t, "", "user", "create", "--username", "admin", "--password", "other-pass")
	assert.Error(t, err)

	store := openTestStore(t, dbPath)
	user, err := store.Users.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
}

func TestPostDelete(t *testing.T) {
	setupTestDB(t)

	_, err := run(t, "", "post", "delete", "abc")
	assert.ErrorContains(t, err, "invalid post id")

	_, err = run(t, "", "post", "delete", "42")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCacheClearMemoryBackend(t *testing.T) {
	setupTestDB(t)
	out, err := run(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "/admin/cache/clear/")
}

func TestUnknownStoreBackend(t *testing.T) {
	setupTestDB(t)
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := run(t, "", "group", "create", "--title", "x", "--description", "y")
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}
