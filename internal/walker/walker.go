package walker

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"driveindex/internal/logging"
)

// FolderMimeType marks an entry the walk descends into instead of yielding.
const FolderMimeType = "application/vnd.google-apps.folder"

// Entry is one child of a remote folder as reported by the Source.
type Entry struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	CreatedTime  time.Time
	ModifiedTime time.Time
	WebViewLink  string
	Description  string
}

// IsFolder reports whether the entry is a folder to recurse into.
func (e Entry) IsFolder() bool {
	return e.MimeType == FolderMimeType
}

// Source lists the children of a remote folder one page at a time. An empty
// next-page token ends the folder's pagination.
type Source interface {
	ListChildren(ctx context.Context, folderID, pageToken string) (entries []Entry, nextPageToken string, err error)
}

// VisitFunc receives each yielded video file with the folder path that leads
// to it (slash-separated, starting at the walk root).
type VisitFunc func(file Entry, folderPath string) error

// Stats summarizes one walk.
type Stats struct {
	FoldersScanned  int
	FilesYielded    int
	FilesSkipped    int
	ArchivedSkipped int
	ListingFailures int
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
	".m4v":  {},
}

// isVideo accepts a file when either the reported MIME type or the filename
// extension looks like video. The OR is deliberate: the source frequently
// misreports MIME types for older uploads.
func isVideo(e Entry) bool {
	if strings.HasPrefix(e.MimeType, "video/") {
		return true
	}
	_, ok := videoExtensions[strings.ToLower(path.Ext(e.Name))]
	return ok
}

// isArchived prunes subtrees operators have parked: any folder named with an
// OLD_ prefix or an _Archive suffix, checked before descending.
func isArchived(name string) bool {
	return strings.HasPrefix(name, "OLD_") || strings.HasSuffix(name, "_Archive")
}

// Walker enumerates video files under a root folder.
type Walker struct {
	source Source
	logger *slog.Logger
}

// New creates a Walker over the given source.
func New(source Source, logger *slog.Logger) *Walker {
	return &Walker{
		source: source,
		logger: logging.WithComponent(logger, "walker"),
	}
}

// Walk recursively enumerates video files under rootID, depth first, calling
// fn for each. A listing failure below the root aborts only that folder's
// pagination; a failure listing the root itself is returned, since an
// unreadable root means the run has nothing to index.
func (w *Walker) Walk(ctx context.Context, rootID string, fn VisitFunc) (Stats, error) {
	if strings.TrimSpace(rootID) == "" {
		return Stats{}, fmt.Errorf("walk: root folder id required")
	}
	stats := Stats{}
	err := w.walkFolder(ctx, rootID, "", true, &stats, fn)
	return stats, err
}

func (w *Walker) walkFolder(ctx context.Context, folderID, folderPath string, isRoot bool, stats *Stats, fn VisitFunc) error {
	stats.FoldersScanned++

	var entries []Entry
	pageToken := ""
	for {
		page, next, err := w.source.ListChildren(ctx, folderID, pageToken)
		if err != nil {
			if isRoot && pageToken == "" {
				return fmt.Errorf("list root folder %s: %w", folderID, err)
			}
			stats.ListingFailures++
			w.logger.Warn("folder listing failed, skipping remainder",
				logging.String("folder_id", folderID),
				logging.String("path", folderPath),
				logging.Error(err))
			break
		}
		entries = append(entries, page...)
		if next == "" {
			break
		}
		pageToken = next
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case entry.IsFolder():
			if isArchived(entry.Name) {
				stats.ArchivedSkipped++
				w.logger.Debug("skipping archived subtree",
					logging.String("folder", entry.Name),
					logging.String("path", folderPath))
				continue
			}
			childPath := joinPath(folderPath, entry.Name)
			if err := w.walkFolder(ctx, entry.ID, childPath, false, stats, fn); err != nil {
				return err
			}
		case isVideo(entry):
			stats.FilesYielded++
			if err := fn(entry, folderPath); err != nil {
				return err
			}
		default:
			stats.FilesSkipped++
		}
	}
	return nil
}

func joinPath(base, name string) string {
	if base == "" {
		return "/" + name
	}
	return base + "/" + name
}
