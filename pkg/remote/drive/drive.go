// Package drive implements the remote store on the Google Drive v3 API.
package drive

import (
	"context"
	"fmt"
	"io"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/gddload/gddload/pkg/errors"
	"github.com/gddload/gddload/pkg/remote"
)

// folderMimeType is the MIME type Drive reports for folders.
const folderMimeType = "application/vnd.google-apps.folder"

// fetchChunkSize is the copy buffer size used when streaming content, and
// therefore the granularity of progress callbacks.
const fetchChunkSize = 256 * 1024

// Client is a remote.Store backed by the Drive v3 API.
type Client struct {
	svc *driveapi.Service
}

// New creates a Drive client authenticated with the given service account
// key file. The client only requests read access.
func New(ctx context.Context, credentialsPath string) (*Client, error) {
	svc, err := driveapi.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(driveapi.DriveReadonlyScope))
	if err != nil {
		return nil, errors.WithContext(err, "create drive service")
	}
	return &Client{svc: svc}, nil
}

// GetMetadata implements remote.Store.
func (c *Client) GetMetadata(ctx context.Context, id string) (remote.Metadata, error) {
	f, err := c.svc.Files.Get(id).
		Fields("id, name, mimeType, size, sha256Checksum").
		Context(ctx).Do()
	if err != nil {
		return remote.Metadata{}, errors.WithContext(err, "get file")
	}

	return remote.Metadata{
		ID:     f.Id,
		Name:   f.Name,
		Folder: f.MimeType == folderMimeType,
		Size:   f.Size,
		SHA256: f.Sha256Checksum,
	}, nil
}

// ListChildren implements remote.Store.
func (c *Client) ListChildren(ctx context.Context, id, pageToken string) (remote.Page, error) {
	call := c.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents", id)).
		Spaces("drive").
		Fields("nextPageToken, files(id)").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	list, err := call.Do()
	if err != nil {
		return remote.Page{}, errors.WithContext(err, "list children")
	}

	page := remote.Page{NextToken: list.NextPageToken}
	for _, f := range list.Files {
		page.IDs = append(page.IDs, f.Id)
	}
	return page, nil
}

// FetchContent implements remote.Store.
func (c *Client) FetchContent(ctx context.Context, id string, dst io.Writer,
	progress func(float64)) error {

	resp, err := c.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return errors.WithContext(err, "download")
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	buf := make([]byte, fetchChunkSize)
	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return errors.WithContext(err, "write content")
			}
			written += int64(n)
			if total > 0 {
				progress(float64(written) / float64(total))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.WithContext(readErr, "read content")
		}
	}

	progress(1)
	return nil
}
