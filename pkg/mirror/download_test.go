package mirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gddload/gddload/pkg/config"
	"github.com/gddload/gddload/pkg/errors"
)

// scanAndDownload runs both engine phases with the retry pause disabled.
func scanAndDownload(t *testing.T, store *fakeStore, opts config.Options) *Node {
	t.Helper()

	root := NewRoot(opts.FileID, opts.SavePath)
	require.NoError(t, NewScanner(store, opts).Scan(context.Background(), root))

	downloader := NewDownloader(store, opts, clockwork.NewRealClock())
	downloader.retryDelay = 0
	require.NoError(t, downloader.DownloadRecursive(context.Background(), root))
	return root
}

func TestDownloadFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	content := []byte("hello world")
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", content)

	root := scanAndDownload(t, store, config.Options{FileID: "file-id", SavePath: "save"})

	assert.Equal(t, 1, store.fetchCalls["file-id"])
	assert.Equal(t, StatusDownloaded, root.Status())
	assert.Equal(t, Progress(1), root.Progress())

	written, err := afero.ReadFile(fs, filepath.Join("save", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestDownloadSkipsCheckedFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	content := []byte("hello world")
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", content)
	require.NoError(t, afero.WriteFile(fs,
		filepath.Join("save", "notes.txt"), content, 0644))

	root := scanAndDownload(t, store, config.Options{
		FileID:   "file-id",
		SavePath: "save",
		Check:    true,
	})

	assert.Equal(t, 0, store.fetchCalls["file-id"])
	assert.Equal(t, StatusAlreadyChecked, root.Status())
	assert.Equal(t, Progress(1), root.Progress())
}

func TestDownloadChecked(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", []byte("hello world"))

	root := scanAndDownload(t, store, config.Options{
		FileID:   "file-id",
		SavePath: "save",
		Check:    true,
	})

	assert.Equal(t, 1, store.fetchCalls["file-id"])
	assert.Equal(t, StatusChecked, root.Status())
}

func TestRetryBudgetExhausted(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", []byte("hello world"))

	// Every transfer writes garbage, so every postcheck fails.
	store.badWrites["file-id"] = 100

	root := scanAndDownload(t, store, config.Options{
		FileID:   "file-id",
		SavePath: "save",
		Check:    true,
		Retry:    2,
	})

	assert.Equal(t, 3, store.fetchCalls["file-id"])
	assert.Equal(t, StatusFailed, root.Status())
}

func TestRetryEventuallySucceeds(t *testing.T) {
	fs = afero.NewMemMapFs()
	content := []byte("hello world")
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", content)
	store.badWrites["file-id"] = 1

	root := scanAndDownload(t, store, config.Options{
		FileID:   "file-id",
		SavePath: "save",
		Check:    true,
		Retry:    2,
	})

	assert.Equal(t, 2, store.fetchCalls["file-id"])
	assert.Equal(t, StatusChecked, root.Status())

	written, err := afero.ReadFile(fs, filepath.Join("save", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestFetchErrorConsumesAttempt(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", []byte("hello world"))
	store.fetchErrs["file-id"] = []error{errors.New("connection reset")}

	root := scanAndDownload(t, store, config.Options{
		FileID:   "file-id",
		SavePath: "save",
		Check:    true,
		Retry:    1,
	})

	assert.Equal(t, 2, store.fetchCalls["file-id"])
	assert.Equal(t, StatusChecked, root.Status())
}

func TestOverwriteRefetchesExistingFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	content := []byte("hello world")
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", content)
	path := filepath.Join("save", "notes.txt")
	require.NoError(t, afero.WriteFile(fs, path, []byte("tampered"), 0644))

	root := scanAndDownload(t, store, config.Options{
		FileID:    "file-id",
		SavePath:  "save",
		Overwrite: true,
	})

	assert.Equal(t, 1, store.fetchCalls["file-id"])
	assert.Equal(t, StatusDownloaded, root.Status())

	written, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestExistingFileSkippedWithoutOverwrite(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", []byte("hello world"))
	path := filepath.Join("save", "notes.txt")
	require.NoError(t, afero.WriteFile(fs, path, []byte("tampered"), 0644))

	root := scanAndDownload(t, store, config.Options{FileID: "file-id", SavePath: "save"})

	assert.Equal(t, 0, store.fetchCalls["file-id"])
	assert.Equal(t, StatusAlreadyPresent, root.Status())

	// The local copy is untouched.
	written, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("tampered"), written)
}

func TestForceDownloadsEverything(t *testing.T) {
	fs = afero.NewMemMapFs()
	content := []byte("hello world")
	store := newFakeStore()
	store.addFile("file-id", "notes.txt", content)
	require.NoError(t, afero.WriteFile(fs,
		filepath.Join("save", "notes.txt"), content, 0644))

	root := scanAndDownload(t, store, config.Options{
		FileID:   "file-id",
		SavePath: "save",
		Check:    true,
		Force:    true,
	})

	assert.Equal(t, 1, store.fetchCalls["file-id"])
	assert.Equal(t, StatusChecked, root.Status())
}

func TestDownloadFolder(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFolder("top", "top", []string{"sub", "b"})
	store.addFolder("sub", "sub", []string{"a"})
	store.addFile("a", "a.txt", []byte("aaa"))
	store.addFile("b", "b.txt", []byte("bbbb"))

	root := scanAndDownload(t, store, config.Options{FileID: "top", SavePath: "save"})

	assert.Equal(t, StatusDownloaded, root.Status())
	assert.Equal(t, Progress(1), root.Progress())

	for _, path := range []string{
		filepath.Join("save", "top", "sub", "a.txt"),
		filepath.Join("save", "top", "b.txt"),
	} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}
}

func TestFailedScanSkipsSubtree(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFolder("top", "top", []string{"bad", "b"})
	store.addFolder("bad", "bad", []string{"nested"})
	store.addFile("b", "b.txt", []byte("bbb"))
	store.listErrs[listCall{"bad", ""}] = errors.New("remote unavailable")

	root := scanAndDownload(t, store, config.Options{FileID: "top", SavePath: "save"})

	// The failed folder is skipped, its sibling still downloads.
	assert.Equal(t, StatusScanFailed, root.Children[0].Status())
	assert.Equal(t, StatusDownloaded, root.Children[1].Status())

	exists, err := afero.DirExists(fs, filepath.Join("save", "top", "bad"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFetchErrorWithoutCheckMarksFailed(t *testing.T) {
	fs = afero.NewMemMapFs()
	store := newFakeStore()
	store.addFolder("top", "top", []string{"a", "b"})
	store.addFile("a", "a.txt", []byte("aaa"))
	store.addFile("b", "b.txt", []byte("bbb"))
	store.fetchErrs["a"] = []error{errors.New("connection reset")}

	root := scanAndDownload(t, store, config.Options{FileID: "top", SavePath: "save"})

	assert.Equal(t, StatusFailed, root.Children[0].Status())
	assert.Equal(t, StatusDownloaded, root.Children[1].Status())
	assert.Equal(t, 1, store.fetchCalls["a"])
}

func TestShouldDownloadPanicsOnTerminalStatus(t *testing.T) {
	downloader := NewDownloader(newFakeStore(), config.Options{}, clockwork.NewRealClock())

	for _, status := range []Status{StatusDownloaded, StatusChecked, StatusFailed} {
		node := NewRoot("file-id", "save")
		node.Kind = KindFile
		node.SetStatus(status)
		assert.Panics(t, func() { downloader.shouldDownload(node) }, status.String())
	}
}
