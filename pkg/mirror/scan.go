package mirror

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/gddload/gddload/pkg/config"
	"github.com/gddload/gddload/pkg/errors"
	"github.com/gddload/gddload/pkg/remote"
)

// Scanner discovers the remote tree and populates nodes ahead of download.
type Scanner struct {
	store remote.Store
	opts  config.Options
}

func NewScanner(store remote.Store, opts config.Options) *Scanner {
	return &Scanner{store: store, opts: opts}
}

// Scan fetches the node's metadata and, for folders, recursively discovers
// the children depth-first, page by page. Remote errors are logged and mark
// the node SCAN_FAILED, leaving it in its partial state; siblings already
// enumerated are unaffected. Local filesystem errors abort the run.
func (s *Scanner) Scan(ctx context.Context, node *Node) error {
	meta, err := s.store.GetMetadata(ctx, node.ID)
	if err != nil {
		log.WithError(err).WithField("id", node.ID).Error("Failed to fetch metadata")
		node.SetStatus(StatusScanFailed)
		return nil
	}

	node.ID = meta.ID
	node.Name = meta.Name
	node.ContentHash = meta.SHA256
	if meta.Folder {
		node.Kind = KindFolder
		node.Children = nil
	} else {
		node.Kind = KindFile
		node.SetSize(Size(meta.Size))
	}
	node.SetStatus(StatusPending)

	switch node.Kind {
	case KindFile:
		return s.precheck(node)
	case KindFolder:
		return s.scanChildren(ctx, node)
	}
	return nil
}

// precheck marks a file that already exists locally and, when checking is
// enabled, verifies it against the remote digest straight away.
func (s *Scanner) precheck(node *Node) error {
	exists, err := afero.Exists(fs, node.Path())
	if err != nil {
		return errors.WithContext(err, "stat local file")
	}
	if !exists {
		return nil
	}

	node.SetStatus(StatusAlreadyPresent)
	if s.opts.Check && !s.opts.Force {
		if _, err := Precheck(node); err != nil {
			return errors.WithContext(err, "precheck")
		}
	}
	return nil
}

func (s *Scanner) scanChildren(ctx context.Context, node *Node) error {
	pageToken := ""
	for {
		page, err := s.store.ListChildren(ctx, node.ID, pageToken)
		if err != nil {
			log.WithError(err).WithField("id", node.ID).Error("Failed to list children")
			node.SetStatus(StatusScanFailed)
			return nil
		}

		// Scan each child before fetching the next page, so discovery is
		// depth-first even across page boundaries.
		for _, id := range page.IDs {
			if err := s.Scan(ctx, node.NewChild(id)); err != nil {
				return err
			}
		}

		pageToken = page.NextToken
		if pageToken == "" {
			return nil
		}
	}
}
