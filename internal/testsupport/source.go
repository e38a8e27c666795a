package testsupport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"driveindex/internal/walker"
)

// FakeSource is an in-memory walker.Source for tests. Children are returned
// in insertion order, paginated so pagination paths get exercised.
type FakeSource struct {
	children map[string][]walker.Entry
	failures map[string]error
	pageSize int
	calls    int
}

// NewFakeSource creates an empty source with the given page size (0 means no
// pagination).
func NewFakeSource(pageSize int) *FakeSource {
	return &FakeSource{
		children: map[string][]walker.Entry{},
		failures: map[string]error{},
		pageSize: pageSize,
	}
}

// Register makes an id listable (typically the walk root).
func (s *FakeSource) Register(folderID string) {
	if _, ok := s.children[folderID]; !ok {
		s.children[folderID] = []walker.Entry{}
	}
}

// AddFolder registers a folder child and returns its id for nesting.
func (s *FakeSource) AddFolder(parentID, id, name string) string {
	s.Register(parentID)
	s.children[parentID] = append(s.children[parentID], walker.Entry{
		ID:       id,
		Name:     name,
		MimeType: walker.FolderMimeType,
	})
	s.Register(id)
	return id
}

// AddFile registers a file child with the given MIME type.
func (s *FakeSource) AddFile(parentID, id, name, mimeType string) {
	s.Register(parentID)
	s.children[parentID] = append(s.children[parentID], walker.Entry{
		ID:           id,
		Name:         name,
		MimeType:     mimeType,
		Size:         1024,
		ModifiedTime: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
}

// FailFolder makes every listing call for the folder return err.
func (s *FakeSource) FailFolder(id string, err error) {
	s.failures[id] = err
}

// Calls reports how many ListChildren invocations were made.
func (s *FakeSource) Calls() int { return s.calls }

// ListChildren implements walker.Source.
func (s *FakeSource) ListChildren(_ context.Context, folderID, pageToken string) ([]walker.Entry, string, error) {
	s.calls++
	if err, ok := s.failures[folderID]; ok {
		return nil, "", err
	}
	entries, ok := s.children[folderID]
	if !ok {
		return nil, "", fmt.Errorf("unknown folder %s", folderID)
	}
	if s.pageSize <= 0 || len(entries) <= s.pageSize {
		return entries, "", nil
	}

	offset := 0
	if pageToken != "" {
		parsed, err := strconv.Atoi(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("bad page token %q", pageToken)
		}
		offset = parsed
	}
	end := offset + s.pageSize
	next := ""
	if end >= len(entries) {
		end = len(entries)
	} else {
		next = strconv.Itoa(end)
	}
	return entries[offset:end], next, nil
}
