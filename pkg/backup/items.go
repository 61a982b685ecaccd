package backup

import (
	"context"
	"fmt"
	"path/filepath"

	"igsaver/internal/downloader"
	"igsaver/pkg/config"
	errs "igsaver/pkg/errors"
	"igsaver/pkg/instagram"
	"igsaver/pkg/logger"
	"igsaver/pkg/metadata"
	"igsaver/pkg/stats"
	"igsaver/pkg/ui"
)

type itemCounts struct {
	downloaded int
	skipped    int
	failed     int
}

// backupContainer walks one container and records its outcome
func (b *Backup) backupContainer(ctx context.Context, c *container, opts Options, st *stats.Stats) {
	log := b.logger.WithFields(map[string]interface{}{
		"container": c.title,
		"kind":      c.kind,
	})

	icon := "📁"
	if c.kind != "Highlight" {
		icon = "📱"
	}
	ui.Printf("\n%s %s\n", icon, c.title)

	if !c.loaded {
		items, err := b.client.ReelItems(ctx, c.id)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Error("cannot access items")
			ui.PrintWarning("No accessible items (may be expired)")
			st.AddError(fmt.Sprintf("%s '%s': %s", c.kind, c.title, shorten(errs.MessageOf(err), 50)))
			st.RecordContainerFailed()
			return
		}
		c.items = items
		c.loaded = true
	}

	if len(c.items) == 0 {
		ui.PrintWarning("No items found")
		log.Info("container is empty")
		st.RecordContainerSkipped()
		return
	}

	counts := b.backupItems(ctx, c, opts, st, log)

	ui.PrintSuccess(fmt.Sprintf("%d downloaded, %d skipped, %d failed", counts.downloaded, counts.skipped, counts.failed))
	log.InfoWithFields("container finished", map[string]interface{}{
		"downloaded": counts.downloaded,
		"skipped":    counts.skipped,
		"failed":     counts.failed,
	})

	switch {
	case counts.downloaded > 0:
		st.RecordContainerDownloaded()
	case counts.failed > 0:
		st.RecordContainerFailed()
	default:
		st.RecordContainerSkipped()
	}
}

// backupItems filters the items of c, skips those already on disk and
// hands the rest to the worker pool
func (b *Backup) backupItems(ctx context.Context, c *container, opts Options, st *stats.Stats, log logger.Logger) itemCounts {
	var counts itemCounts

	bar := ui.NewProgress(c.title, len(c.items), opts.Progress)
	defer bar.Finish()

	skip := func(reason, name string) {
		log.DebugWithFields("skipping item", map[string]interface{}{
			"item":   name,
			"reason": reason,
		})
		st.RecordItemSkipped()
		counts.skipped++
		bar.Increment()
	}

	var jobs []downloader.DownloadJob
	pending := make(map[string]instagram.Item)

	for _, item := range c.items {
		takenAt := item.TakenAt()
		dir := c.layout.ItemDir(c.dir, takenAt)
		base := c.layout.ItemBase(takenAt)
		name := base + item.Ext()
		path := filepath.Join(dir, name)

		if ok, reason := b.filter.Allows(config.ItemInfo{
			Container: c.title,
			Name:      name,
			TakenAt:   takenAt,
			IsVideo:   item.IsVideo(),
		}); !ok {
			skip(reason, name)
			continue
		}

		if _, queued := pending[path]; queued {
			skip("duplicate timestamp", name)
			continue
		}
		if opts.SkipExisting {
			if _, exists := b.storage.Exists(dir, base); exists {
				skip("already exists", name)
				continue
			}
		}

		jobs = append(jobs, downloader.DownloadJob{
			ID:   base,
			URL:  item.MediaURL(b.cfg.Download.VideoQuality),
			Path: path,
		})
		pending[path] = item
	}

	pool := downloader.NewWorkerPool(ctx, b.cfg.Advanced.ConcurrentDownloads, b.client, b.storage, b.pacer, b.logger)
	pool.Run(jobs, func(result downloader.DownloadResult) {
		bar.Increment()
		item := pending[result.Job.Path]

		if !result.Success {
			log.WithError(result.Error).WithField("item", result.Job.ID).Warn("failed to download item")
			st.RecordItemFailed()
			counts.failed++
			return
		}

		if b.filter.HasSizeBounds() && !b.filter.AllowsSize(result.Size) {
			if err := b.storage.Remove(result.Job.Path); err != nil {
				log.WithError(err).Warn("could not remove out-of-bounds file")
			}
			log.DebugWithFields("skipping item", map[string]interface{}{
				"item":   result.Job.ID,
				"reason": "size out of bounds",
				"size":   result.Size,
			})
			st.RecordItemSkipped()
			counts.skipped++
			return
		}

		b.writeSidecars(c, item, result, log)
		st.RecordItemDownloaded(result.Size)
		counts.downloaded++
	})

	return counts
}

// writeSidecars stores the caption and metadata files of a downloaded item.
// Failures are logged and do not fail the item.
func (b *Backup) writeSidecars(c *container, item instagram.Item, result downloader.DownloadResult, log logger.Logger) {
	out := b.cfg.Output
	if !out.IncludeCaption && !out.SaveMetadata {
		return
	}

	base := result.Job.Path[:len(result.Job.Path)-len(filepath.Ext(result.Job.Path))]

	if out.IncludeCaption {
		if _, err := metadata.SaveCaption(base, item.CaptionText()); err != nil {
			log.WithError(err).Warn("could not write caption")
		}
	}
	if out.SaveMetadata {
		meta := metadata.FromItem(item, c.layout.Username, c.title, result.Job.URL, result.Size)
		if err := meta.Save(base); err != nil {
			log.WithError(err).Warn("could not write metadata")
		}
	}
}
