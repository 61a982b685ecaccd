package backup

import (
	"context"
	"fmt"

	errs "igsaver/pkg/errors"
	"igsaver/pkg/instagram"
	"igsaver/pkg/stats"
	"igsaver/pkg/storage"
	"igsaver/pkg/ui"
)

// container is a highlight reel, the active story reel or an archived
// story day
type container struct {
	id    string
	title string
	kind  string
	dir   string

	layout storage.Layout
	// announced count from the tray, used for listing
	mediaCount int

	items  []instagram.Item
	loaded bool
}

func (c *container) count() int {
	if c.loaded {
		return len(c.items)
	}
	return c.mediaCount
}

func (b *Backup) highlightContainers(ctx context.Context, profile *instagram.Profile, layout storage.Layout, opts Options) ([]*container, error) {
	ui.PrintInfo(fmt.Sprintf("Downloading highlights from %s...", profile.Username))

	spin := ui.StartSpinner("Listing highlights", opts.Progress)
	tray, err := b.client.Highlights(ctx, profile.ID)
	spin.Stop()

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.TypeOf(err), err, "Could not fetch highlights")
	}

	containers := make([]*container, 0, len(tray))
	for _, h := range tray {
		containers = append(containers, &container{
			id:         h.ID,
			title:      h.Title,
			kind:       "Highlight",
			dir:        layout.HighlightDir(h.Title),
			layout:     layout,
			mediaCount: h.MediaCount,
		})
	}
	return containers, nil
}

// storyContainers lists the active story reel and, for the logged-in
// account, the archived story days when enabled
func (b *Backup) storyContainers(ctx context.Context, profile *instagram.Profile, layout storage.Layout, opts Options, st *stats.Stats) ([]*container, error) {
	ui.PrintInfo(fmt.Sprintf("Fetching active stories from %s...", profile.Username))

	spin := ui.StartSpinner("Listing stories", opts.Progress)
	reel, err := b.client.Stories(ctx, profile.ID)
	spin.Stop()

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.TypeOf(err), err, "Could not fetch stories")
	}

	var containers []*container
	if reel != nil {
		containers = append(containers, &container{
			id:     reel.ID,
			title:  "Active Stories",
			kind:   "Stories",
			dir:    layout.StoriesDir(),
			layout: layout,
			items:  reel.Items,
			loaded: true,
		})
	}

	if !b.cfg.Download.StoriesIncludeArchived {
		return containers, nil
	}
	if !opts.Self {
		b.logger.WithField("target", opts.Target).Info("story archive is only available for the logged-in account")
		return containers, nil
	}

	days, err := b.client.StoryArchive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		b.logger.WithError(err).Warn("could not list story archive")
		ui.PrintWarning("Could not fetch archived stories", errs.MessageOf(err))
		st.AddError(fmt.Sprintf("Story archive: %s", shorten(errs.MessageOf(err), 50)))
		return containers, nil
	}

	for _, day := range days {
		containers = append(containers, &container{
			id:         day.ID,
			title:      day.Title,
			kind:       "Archive",
			dir:        layout.StoriesDir(),
			layout:     layout,
			mediaCount: day.MediaCount,
		})
	}
	return containers, nil
}
