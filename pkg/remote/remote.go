// Package remote defines the interface to the remote content store that the
// mirror engine reads from. Implementations own authentication, pagination
// mechanics, and transport concerns; the engine only sees metadata, child
// listings, and content streams.
package remote

import (
	"context"
	"io"
)

// Metadata describes one remote entry.
type Metadata struct {
	// ID is the authoritative identifier reported by the store. It may
	// differ from the ID used to look the entry up (e.g. case
	// normalization).
	ID string

	// Name is the entry's leaf name.
	Name string

	// Folder reports whether the entry is a folder.
	Folder bool

	// Size is the content length in bytes. Zero for folders.
	Size int64

	// SHA256 is the lower-case hex digest of the content. Empty for folders
	// and for types the store doesn't hash.
	SHA256 string
}

// Page is one page of a folder's child listing.
type Page struct {
	IDs       []string
	NextToken string
}

// Store is the remote content store.
type Store interface {
	// GetMetadata fetches the metadata of the entry with the given ID.
	GetMetadata(ctx context.Context, id string) (Metadata, error)

	// ListChildren lists the IDs of a folder's children. Pass the returned
	// NextToken to fetch the following page; an empty token means the
	// listing is exhausted.
	ListChildren(ctx context.Context, id, pageToken string) (Page, error)

	// FetchContent streams the entry's content into dst, always from byte
	// 0, reporting progress fractions in [0, 1] as bytes arrive.
	FetchContent(ctx context.Context, id string, dst io.Writer, progress func(float64)) error
}
