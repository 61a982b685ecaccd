package backup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"igsaver/pkg/config"
	errs "igsaver/pkg/errors"
	"igsaver/pkg/instagram"
	"igsaver/pkg/logger"
	"igsaver/pkg/ratelimit"
	"igsaver/pkg/stats"
	"igsaver/pkg/storage"
	"igsaver/pkg/ui"
)

// Mode selects what a run downloads
type Mode string

const (
	ModeHighlights Mode = "highlights"
	ModeStories    Mode = "stories"
)

// Client is the Instagram API surface a backup needs
type Client interface {
	Profile(ctx context.Context, username string) (*instagram.Profile, error)
	Highlights(ctx context.Context, userID string) ([]instagram.Highlight, error)
	ReelItems(ctx context.Context, reelID string) ([]instagram.Item, error)
	Stories(ctx context.Context, userID string) (*instagram.Reel, error)
	StoryArchive(ctx context.Context) ([]instagram.Highlight, error)
	DownloadMedia(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Options describe one run
type Options struct {
	// Target is the account to back up
	Target string
	// Self is true when Target is the logged-in account
	Self         bool
	Mode         Mode
	SkipExisting bool
	ListOnly     bool
	Progress     bool
}

// Backup runs backups against one client and output directory
type Backup struct {
	client  Client
	cfg     *config.Config
	filter  *config.Filter
	storage *storage.Manager
	pacer   ratelimit.Limiter
	logger  logger.Logger
}

// New creates a Backup writing below outputDir
func New(client Client, cfg *config.Config, outputDir string, log logger.Logger) (*Backup, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	filter, err := config.NewFilter(cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "invalid filters")
	}

	manager, err := storage.NewManager(outputDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeDownload, err, "cannot use output directory")
	}

	return &Backup{
		client:  client,
		cfg:     cfg,
		filter:  filter,
		storage: manager,
		pacer:   ratelimit.NewPacer(cfg.Delay()),
		logger:  log,
	}, nil
}

// OutputDir returns the root of the backup tree
func (b *Backup) OutputDir() string {
	return b.storage.GetOutputDir()
}

// Label is the statistics label of a mode
func (m Mode) Label() string {
	if m == ModeStories {
		return "Stories"
	}
	return "Highlights"
}

// Run performs one backup. The returned statistics are valid even when an
// error is returned, so an interrupted run can still be summarized.
func (b *Backup) Run(ctx context.Context, opts Options) (*stats.Stats, error) {
	if opts.Mode == "" {
		opts.Mode = ModeHighlights
	}
	st := stats.New(opts.Mode.Label())
	defer st.Finish()

	if opts.Target == "" {
		return st, errs.New(errs.ErrorTypeConfig, "No username specified for download")
	}

	log := b.logger.WithFields(map[string]interface{}{
		"target": opts.Target,
		"mode":   string(opts.Mode),
	})

	profile, err := b.profile(ctx, opts)
	if err != nil {
		log.WithError(err).Error("cannot access profile")
		return st, err
	}

	layout := storage.Layout{
		Root:          b.OutputDir(),
		Username:      profile.Username,
		DateFolders:   b.cfg.Output.UseDateFolders,
		Flatten:       b.cfg.Output.FlattenStructure,
		MaxNameLength: b.cfg.Output.MaxFilenameLength,
	}
	if layout.Username == "" {
		layout.Username = opts.Target
	}

	var containers []*container
	if opts.Mode == ModeStories {
		containers, err = b.storyContainers(ctx, profile, layout, opts, st)
	} else {
		containers, err = b.highlightContainers(ctx, profile, layout, opts)
	}
	if err != nil {
		log.WithError(err).Error("cannot list containers")
		return st, err
	}

	st.SetContainersFound(len(containers))
	log.WithField("containers", len(containers)).Info("containers listed")

	if len(containers) == 0 {
		if opts.Mode == ModeStories {
			ui.PrintWarning(fmt.Sprintf("No active stories found for %s", opts.Target))
		} else {
			ui.PrintWarning(fmt.Sprintf("No highlights found for %s", opts.Target))
		}
		return st, nil
	}

	if opts.ListOnly {
		b.list(containers)
		return st, nil
	}

	for _, c := range containers {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		b.backupContainer(ctx, c, opts, st)
	}

	if err := ctx.Err(); err != nil {
		return st, err
	}

	log.InfoWithFields("backup finished", map[string]interface{}{
		"downloaded": st.Items.Downloaded,
		"skipped":    st.Items.Skipped,
		"failed":     st.Items.Failed,
	})
	return st, nil
}

func (b *Backup) profile(ctx context.Context, opts Options) (*instagram.Profile, error) {
	ui.PrintInfo(fmt.Sprintf("\nFetching profile for %s...", opts.Target))

	spin := ui.StartSpinner("Resolving profile", opts.Progress)
	profile, err := b.client.Profile(ctx, opts.Target)
	spin.Stop()

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errs.IsType(err, errs.ErrorTypeProfileNotFound) || errs.IsType(err, errs.ErrorTypePrivateProfile) {
			return nil, err
		}
		return nil, errs.Wrap(errs.TypeOf(err), err, "Download error")
	}
	return profile, nil
}

// list prints the containers and their item counts without downloading
func (b *Backup) list(containers []*container) {
	ui.Println()
	for i, c := range containers {
		ui.Printf("  %2d. %s (%d items)\n", i+1, c.title, c.count())
	}
	ui.Printf("\nTotal: %d\n", len(containers))
}

// shorten cuts an error message for the summary list
func shorten(msg string, limit int) string {
	msg = strings.TrimSpace(msg)
	r := []rune(msg)
	if len(r) <= limit {
		return msg
	}
	return string(r[:limit])
}
