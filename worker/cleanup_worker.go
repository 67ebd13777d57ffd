package worker

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"arsippro/models"
)

// CleanupWorker periodically removes uploaded attachments that no archive
// entry references anymore, e.g. after an entry was deleted or its file link
// replaced. Files younger than the grace period are left alone so an upload
// whose save request is still in flight is never swept.
type CleanupWorker struct {
	DB        *gorm.DB
	UploadDir string
	Logger    *log.Logger

	Interval time.Duration
	Grace    time.Duration
}

func NewCleanupWorker(db *gorm.DB, uploadDir string, logger *log.Logger) *CleanupWorker {
	return &CleanupWorker{
		DB:        db,
		UploadDir: uploadDir,
		Logger:    logger,
		Interval:  time.Hour,
		Grace:     24 * time.Hour,
	}
}

func (cw *CleanupWorker) Start(ctx context.Context) {
	cw.Logger.Println("Attachment cleanup worker started")

	ticker := time.NewTicker(cw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cw.Logger.Println("Attachment cleanup worker shutting down...")
			return
		case <-ticker.C:
			if err := cw.Sweep(); err != nil {
				cw.Logger.Printf("Cleanup sweep failed: %v", err)
			}
		}
	}
}

// Sweep deletes unreferenced files past the grace period and returns the
// first error encountered while listing; individual deletion failures are
// logged and do not abort the sweep.
func (cw *CleanupWorker) Sweep() error {
	entries, err := os.ReadDir(cw.UploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var links []string
	if err := cw.DB.Model(&models.Mail{}).Where("file_link <> ''").Pluck("file_link", &links).Error; err != nil {
		return err
	}

	referenced := make(map[string]struct{}, len(links))
	for _, link := range links {
		// Only locally hosted links map back to files in the upload dir.
		if idx := strings.LastIndex(link, "/files/"); idx != -1 {
			referenced[link[idx+len("/files/"):]] = struct{}{}
		}
	}

	cutoff := time.Now().Add(-cw.Grace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(cw.UploadDir, entry.Name())); err != nil {
			cw.Logger.Printf("Failed to remove orphaned file %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	if removed > 0 {
		cw.Logger.Printf("Removed %d orphaned attachment(s)", removed)
	}
	return nil
}
