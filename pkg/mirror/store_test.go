package mirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/gddload/gddload/pkg/errors"
	"github.com/gddload/gddload/pkg/remote"
)

type listCall struct {
	id, token string
}

// fakeStore is an in-memory remote.Store. Content is served in two chunks so
// transfers report intermediate progress.
type fakeStore struct {
	meta    map[string]remote.Metadata
	pages   map[listCall]remote.Page
	content map[string][]byte

	metaErrs map[string]error
	listErrs map[listCall]error

	// fetchErrs are consumed one per FetchContent call. badWrites is the
	// number of leading fetches that write garbage instead of the content.
	fetchErrs map[string][]error
	badWrites map[string]int

	fetchCalls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		meta:       map[string]remote.Metadata{},
		pages:      map[listCall]remote.Page{},
		content:    map[string][]byte{},
		metaErrs:   map[string]error{},
		listErrs:   map[listCall]error{},
		fetchErrs:  map[string][]error{},
		badWrites:  map[string]int{},
		fetchCalls: map[string]int{},
	}
}

// addFile registers a file whose reported digest matches its content.
func (s *fakeStore) addFile(id, name string, content []byte) {
	s.meta[id] = remote.Metadata{
		ID:     id,
		Name:   name,
		Size:   int64(len(content)),
		SHA256: sha256Hex(content),
	}
	s.content[id] = content
}

// addFolder registers a folder with its children split across the given
// pages.
func (s *fakeStore) addFolder(id, name string, pages ...[]string) {
	s.meta[id] = remote.Metadata{ID: id, Name: name, Folder: true}

	token := ""
	for i, ids := range pages {
		next := ""
		if i < len(pages)-1 {
			next = pageToken(i + 1)
		}
		s.pages[listCall{id, token}] = remote.Page{IDs: ids, NextToken: next}
		token = next
	}
	if len(pages) == 0 {
		s.pages[listCall{id, ""}] = remote.Page{}
	}
}

func pageToken(i int) string {
	return string(rune('0' + i))
}

func (s *fakeStore) GetMetadata(_ context.Context, id string) (remote.Metadata, error) {
	if err := s.metaErrs[id]; err != nil {
		return remote.Metadata{}, err
	}

	meta, ok := s.meta[id]
	if !ok {
		return remote.Metadata{}, errors.New("no such entry")
	}
	return meta, nil
}

func (s *fakeStore) ListChildren(_ context.Context, id, pageToken string) (remote.Page, error) {
	call := listCall{id, pageToken}
	if err := s.listErrs[call]; err != nil {
		return remote.Page{}, err
	}

	page, ok := s.pages[call]
	if !ok {
		return remote.Page{}, errors.New("no such listing")
	}
	return page, nil
}

func (s *fakeStore) FetchContent(_ context.Context, id string, dst io.Writer,
	progress func(float64)) error {

	s.fetchCalls[id]++

	if errs := s.fetchErrs[id]; len(errs) > 0 {
		err := errs[0]
		s.fetchErrs[id] = errs[1:]
		if err != nil {
			return err
		}
	}

	content := s.content[id]
	if s.badWrites[id] > 0 {
		s.badWrites[id]--
		content = append([]byte("garbage "), content...)
	}

	half := len(content) / 2
	for _, chunk := range [][]byte{content[:half], content[half:]} {
		if _, err := dst.Write(chunk); err != nil {
			return err
		}
	}
	progress(0.5)
	progress(1)
	return nil
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
