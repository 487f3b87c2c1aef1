package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int
	BytesSent     int64

	Rejected []string // files refused before any broker contact
}

// Uploader walks a directory of set videos, validates each file, and pushes
// new ones through the broker.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline over every video file under the directory.
func (u *Uploader) Run() (*Stats, error) {
	files, err := u.collectVideos()
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		u.stats.FilesTotal++
		if err := u.uploadOne(f); err != nil {
			u.log.Warn("upload failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}

	return &u.stats, nil
}

// collectVideos walks the directory and returns accepted video files in a
// stable order. Files with unknown extensions are recorded as rejected.
func (u *Uploader) collectVideos() ([]string, error) {
	var files []string
	err := filepath.WalkDir(u.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if _, err := ContentTypeFor(path); err != nil {
			rel, _ := filepath.Rel(u.dir, path)
			u.stats.Rejected = append(u.stats.Rejected, rel)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", u.dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (u *Uploader) uploadOne(path string) error {
	relPath, _ := filepath.Rel(u.dir, path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if err := ValidateSize(info.Size()); err != nil {
		u.stats.Rejected = append(u.stats.Rejected, relPath)
		u.stats.FilesSkipped++
		u.log.Warn("rejected", "file", relPath, "reason", err)
		return nil
	}

	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("state check: %w", err)
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	contentType, err := ContentTypeFor(path)
	if err != nil {
		return err
	}

	if u.dryRun {
		u.log.Info("dry-run: would upload", "file", relPath, "size", info.Size(), "content_type", contentType)
		u.stats.FilesUploaded++
		return nil
	}

	grant, err := u.client.RequestUpload(filepath.Base(path), contentType)
	if err != nil {
		return fmt.Errorf("requesting upload: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	if err := u.client.Put(grant.UploadURL, contentType, data); err != nil {
		return fmt.Errorf("uploading bytes: %w", err)
	}

	if err := u.state.MarkUploaded(relPath, info.Size(), hash, grant.Key); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}

	u.stats.FilesUploaded++
	u.stats.BytesSent += info.Size()
	u.log.Info("uploaded", "file", relPath, "key", grant.Key, "bytes", info.Size())
	return nil
}
