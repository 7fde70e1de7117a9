package config

import (
	homedir "github.com/mitchellh/go-homedir"

	"github.com/gddload/gddload/pkg/errors"
)

// Options configures a single mirror run. It's assembled once by the
// download command and passed to the scanner and downloader explicitly; no
// package-level state.
type Options struct {
	// FileID is the Drive ID of the file or folder to mirror.
	FileID string

	// SavePath is the local directory the tree is materialized under.
	SavePath string

	// Check enables SHA-256 verification of files before and after
	// download. It's implied whenever Retry is non-zero.
	Check bool

	// Overwrite re-downloads files that exist locally but failed
	// verification (or weren't verified at all).
	Overwrite bool

	// Force downloads every file regardless of local state.
	Force bool

	// Retry is the number of extra download attempts after a failed check.
	// The total attempt budget is Retry+1.
	Retry int
}

// NewOptions normalizes the raw flag values into run options.
func NewOptions(fileID, savePath string, check, overwrite, force bool, retry int) (Options, error) {
	if fileID == "" {
		return Options{}, errors.MissingFieldError{Field: "file-id"}
	}
	if retry < 0 {
		return Options{}, errors.New("retry count must not be negative")
	}

	expanded, err := homedir.Expand(savePath)
	if err != nil {
		return Options{}, errors.WithContext(err, "expand save path")
	}

	return Options{
		FileID:    fileID,
		SavePath:  expanded,
		Check:     check || retry > 0,
		Overwrite: overwrite,
		Force:     force,
		Retry:     retry,
	}, nil
}
