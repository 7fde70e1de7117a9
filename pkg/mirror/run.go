package mirror

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/gddload/gddload/pkg/config"
	"github.com/gddload/gddload/pkg/errors"
	"github.com/gddload/gddload/pkg/remote"
)

// Run mirrors the remote entry opts.FileID into opts.SavePath: a full scan
// of the remote tree, followed by a recursive download over the same tree.
// Both phases repaint through the sink after every node mutation, and a
// final frame is written once the walk finishes.
func Run(ctx context.Context, opts config.Options, store remote.Store, sink Sink,
	clock clockwork.Clock, colors bool) error {

	root := NewRoot(opts.FileID, opts.SavePath)
	renderer := NewRenderer(root, sink, clock, colors)

	if err := NewScanner(store, opts).Scan(ctx, root); err != nil {
		return errors.WithContext(err, "scan")
	}

	if err := NewDownloader(store, opts, clock).DownloadRecursive(ctx, root); err != nil {
		return errors.WithContext(err, "download")
	}

	renderer.Update()
	return nil
}
