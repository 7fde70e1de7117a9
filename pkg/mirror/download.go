package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/gddload/gddload/pkg/config"
	"github.com/gddload/gddload/pkg/errors"
	"github.com/gddload/gddload/pkg/remote"
)

// DefaultRetryDelay is the pause between download attempts after a failed
// check.
const DefaultRetryDelay = time.Second

// Downloader materializes a scanned tree onto the local filesystem.
type Downloader struct {
	store      remote.Store
	opts       config.Options
	clock      clockwork.Clock
	retryDelay time.Duration
}

func NewDownloader(store remote.Store, opts config.Options, clock clockwork.Clock) *Downloader {
	return &Downloader{
		store:      store,
		opts:       opts,
		clock:      clock,
		retryDelay: DefaultRetryDelay,
	}
}

// fetchError marks a failure of the remote transfer itself, as opposed to a
// local filesystem problem. Fetch failures consume a retry attempt and never
// abort the tree walk; local errors do.
type fetchError struct {
	err error
}

func (e fetchError) Error() string {
	return e.err.Error()
}

// DownloadRecursive walks the tree depth-first in discovery order, creating
// directories and fetching file contents. Nodes that never finished
// scanning are skipped.
func (d *Downloader) DownloadRecursive(ctx context.Context, node *Node) error {
	switch node.Kind {
	case KindFolder:
		return d.downloadFolder(ctx, node)
	case KindFile:
		return d.downloadFile(ctx, node)
	default:
		// The metadata fetch failed during scan, so we don't even know
		// what this entry is. There's nothing to materialize.
		return nil
	}
}

func (d *Downloader) downloadFolder(ctx context.Context, node *Node) error {
	if node.Status() == StatusScanFailed {
		log.WithField("path", node.Path()).Warn(
			"Skipping folder whose scan didn't complete. " +
				"Its listing may be missing entries.")
		return nil
	}

	node.SetStatus(StatusDownloading)

	if err := fs.MkdirAll(node.Path(), 0755); err != nil {
		return errors.WithContext(err, "create directory")
	}

	for _, child := range node.Children {
		if err := d.DownloadRecursive(ctx, child); err != nil {
			return err
		}
	}

	node.SetStatus(StatusDownloaded)
	return nil
}

func (d *Downloader) downloadFile(ctx context.Context, node *Node) error {
	if !d.shouldDownload(node) {
		return nil
	}

	if d.opts.Check {
		return d.downloadWithRetry(ctx, node)
	}

	err := d.download(ctx, node)
	if fe, ok := err.(fetchError); ok {
		log.WithError(fe.err).WithField("path", node.Path()).Error("Download failed")
		node.SetStatus(StatusFailed)
		return nil
	}
	return err
}

// shouldDownload applies the download policy to a scanned file node.
// Terminal statuses other than ALREADY_CHECKED can't legally reach this
// point: the scanner never produces them and the downloader visits each
// node once. Hitting one is a state machine bug, not a user error, so it
// fails loudly instead of silently skipping.
func (d *Downloader) shouldDownload(node *Node) bool {
	if d.opts.Force {
		return true
	}

	switch node.Status() {
	case StatusPending:
		return true
	case StatusCorrupted, StatusAlreadyPresent:
		return d.opts.Overwrite
	case StatusAlreadyChecked:
		return false
	}

	panic(fmt.Sprintf("shouldDownload called on node %q with unexpected status %q",
		node.Path(), node.Status()))
}

// download performs one full fetch of the node's content to its local path,
// always from byte 0, streaming progress into the node as bytes arrive.
func (d *Downloader) download(ctx context.Context, node *Node) error {
	node.SetStatus(StatusDownloading)

	f, err := fs.Create(node.Path())
	if err != nil {
		return errors.WithContext(err, "create file")
	}

	fetchErr := d.store.FetchContent(ctx, node.ID, f, node.SetProgress)
	if closeErr := f.Close(); closeErr != nil && fetchErr == nil {
		return errors.WithContext(closeErr, "close file")
	}
	if fetchErr != nil {
		return fetchError{fetchErr}
	}

	node.SetStatus(StatusDownloaded)
	return nil
}

// downloadWithRetry performs up to opts.Retry+1 download-and-postcheck
// cycles. Each attempt restarts the transfer from byte 0; partial transfers
// are never resumed.
func (d *Downloader) downloadWithRetry(ctx context.Context, node *Node) error {
	attempts := d.opts.Retry + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			d.clock.Sleep(d.retryDelay)
		}

		err := d.download(ctx, node)
		if fe, ok := err.(fetchError); ok {
			log.WithError(fe.err).WithField("path", node.Path()).Error("Download failed")
			node.SetStatus(StatusFailed)
			continue
		}
		if err != nil {
			return err
		}

		ok, err := Postcheck(node)
		if err != nil {
			return errors.WithContext(err, "postcheck")
		}
		if ok {
			return nil
		}
	}
	return nil
}
