// Package build renders every configured source into the output directory,
// skipping documents whose content has not changed since the last build.
package build

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	stdsync "sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/fsutil"
	"github.com/g5becks/togglemark/internal/lockfile"
	"github.com/g5becks/togglemark/internal/logger"
	"github.com/g5becks/togglemark/internal/manifest"
	"github.com/g5becks/togglemark/internal/source"
)

const defaultMaxParallel = 3

type sourceFactory func(name string, cfg config.Source) (source.Source, error)

type Options struct {
	SourceNames []string
	Force       bool
	DryRun      bool
	Clean       bool
	MaxParallel int
	OnEvent     func(Event)
	Progress    progress.Writer
	Logger      *logger.Logger

	newSource sourceFactory
}

type runState struct {
	result     *SourceResult
	entry      *lockfile.LockEntry
	collection *manifest.Collection
	err        error
}

type sourceBuild struct {
	name      string
	cfg       config.Source
	destDir   string
	prevEntry *lockfile.LockEntry
	prevColl  *manifest.Collection
}

func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	started := time.Now()
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	newSource := opts.newSource
	if newSource == nil {
		newSource = source.New
	}

	outputDir := resolveOutputRoot(cfg)
	if opts.Clean && !opts.DryRun {
		if err := os.RemoveAll(outputDir); err != nil {
			return nil, oops.
				Code("WRITE_FAILED").
				With("path", outputDir).
				Wrapf(err, "cleaning output directory")
		}
	}

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		return nil, err
	}

	prevManifest, err := manifest.LoadOrNew(outputDir)
	if err != nil {
		return nil, err
	}

	sourceNames, err := resolveSourceNames(cfg.Sources, opts.SourceNames)
	if err != nil {
		return nil, err
	}

	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = cfg.Parallel
	}
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	log.BuildStarted(len(sourceNames), outputDir)

	results := make(map[string]runState, len(sourceNames))
	var resultsMu stdsync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)

	for _, sourceName := range sourceNames {
		sourceCfg := cfg.Sources[sourceName]
		if sourceCfg.Type == config.SourceTypeFiles {
			sourceCfg.Path = cfg.SourceRoot(sourceCfg)
		}

		job := sourceBuild{
			name:      sourceName,
			cfg:       sourceCfg,
			destDir:   cfg.OutputDir(sourceName, sourceCfg),
			prevEntry: lock.GetEntry(sourceName),
			prevColl:  prevManifest.Collections[sourceName],
		}

		group.Go(func() error {
			emit(opts.OnEvent, Event{Kind: EventSourceStart, Source: job.name})

			var tracker *progress.Tracker
			if opts.Progress != nil {
				tracker = &progress.Tracker{Message: job.name, Units: progress.UnitsDefault}
				opts.Progress.AppendTracker(tracker)
			}

			state := runState{}
			src, err := newSource(job.name, job.cfg)
			if err != nil {
				state.err = err
			} else {
				state = buildSource(groupCtx, src, job, cfg, opts, log, tracker)
			}

			if tracker != nil {
				if state.err != nil {
					tracker.MarkAsErrored()
				} else {
					tracker.MarkAsDone()
				}
			}

			if state.err != nil {
				log.SourceError(job.name, state.err)
			}

			resultsMu.Lock()
			results[job.name] = state
			resultsMu.Unlock()

			emit(opts.OnEvent, Event{
				Kind:   EventSourceDone,
				Source: job.name,
				Result: state.result,
				Err:    state.err,
			})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, oops.Wrapf(err, "waiting for build workers")
	}

	runResult := &RunResult{Sources: len(sourceNames)}
	nextManifest := carryManifest(prevManifest, cfg.Sources)

	for _, sourceName := range sourceNames {
		state := results[sourceName]
		if state.err != nil {
			runResult.Errors++
			continue
		}

		runResult.Rendered += state.result.Rendered
		runResult.Skipped += state.result.Skipped
		runResult.Deleted += state.result.Deleted
		if state.result.NotModified {
			runResult.UpToDate++
		}

		lock.SetEntry(sourceName, state.entry)
		nextManifest.Collections[sourceName] = state.collection
	}

	for name := range lock.Sources {
		if _, ok := cfg.Sources[name]; !ok {
			lock.RemoveEntry(name)
		}
	}

	if !opts.DryRun {
		if err := lock.Save(outputDir); err != nil {
			return nil, err
		}

		if err := nextManifest.Save(outputDir); err != nil {
			return nil, err
		}
	}

	runResult.Duration = time.Since(started)
	log.BuildCompleted(runResult.Rendered, runResult.Skipped, runResult.Deleted, runResult.Errors, runResult.Duration)

	if runResult.Errors > 0 {
		return runResult, oops.
			Code("BUILD_FAILED").
			With("failed_sources", runResult.Errors).
			Hint("Run with --verbose for per-document details").
			Errorf("%d source(s) failed during build", runResult.Errors)
	}

	return runResult, nil
}

func buildSource(
	ctx context.Context,
	src source.Source,
	job sourceBuild,
	cfg *config.Config,
	opts Options,
	log *logger.Logger,
	tracker *progress.Tracker,
) runState {
	renderSettings := cfg.RenderSettings(job.cfg)
	settings := settingsFingerprint(renderSettings)
	settingsChanged := job.prevEntry != nil && job.prevEntry.Settings != settings
	rebuildAll := opts.Force || settingsChanged
	if settingsChanged {
		log.SettingsChanged(job.name)
	}

	fetched, err := src.Fetch(ctx, job.prevEntry, source.FetchOptions{Force: rebuildAll})
	if err != nil {
		return runState{err: err}
	}

	now := time.Now().UTC()

	if fetched.NotModified {
		log.Skipped(job.name, "", "not modified")
		return runState{
			result:     &SourceResult{NotModified: true},
			entry:      refreshEntry(job.prevEntry, job.cfg.Type, now),
			collection: refreshCollection(job, cfg, now),
		}
	}

	docPaths := make([]string, 0, len(fetched.Documents))
	for _, doc := range fetched.Documents {
		docPaths = append(docPaths, doc.Path)
	}

	if err := checkCollisions(job.name, docPaths); err != nil {
		return runState{err: err}
	}

	if tracker != nil {
		tracker.UpdateTotal(int64(len(fetched.Documents)))
	}

	result := &SourceResult{}
	entry := &lockfile.LockEntry{
		Type:     job.cfg.Type,
		ETag:     fetched.ETag,
		LastMod:  fetched.LastModified,
		Settings: settings,
		BuiltAt:  now,
		Files:    make(map[string]string, len(fetched.Documents)),
	}
	collection := newCollection(job, cfg, now)

	for _, doc := range fetched.Documents {
		if err := ctx.Err(); err != nil {
			return runState{err: oops.Code("BUILD_FAILED").With("source", job.name).Wrapf(err, "build cancelled")}
		}

		hash := contentHash(doc.Content)
		entry.Files[doc.Path] = hash
		outRel := outputPath(doc.Path)
		dest := filepath.Join(job.destDir, filepath.FromSlash(outRel))

		if !rebuildAll {
			if prevHash, ok := job.prevEntry.FileHash(doc.Path); ok && prevHash == hash && fsutil.Exists(dest) {
				if info, found := job.prevColl.File(doc.Path); found {
					collection.Files = append(collection.Files, info)
					result.Skipped++
					log.Skipped(job.name, doc.Path, "unchanged")
					incrementTracker(tracker)
					continue
				}
			}
		}

		parsed, page, err := renderDocument(doc.Content, renderSettings)
		if err != nil {
			log.DocumentError(job.name, doc.Path, err)
			return runState{err: oops.With("source", job.name).With("path", doc.Path).Wrapf(err, "rendering %q", doc.Path)}
		}

		if !opts.DryRun {
			if err := fsutil.WriteFileAtomic(dest, []byte(page)); err != nil {
				log.DocumentError(job.name, doc.Path, err)
				return runState{err: err}
			}
		}

		collection.Files = append(collection.Files, manifest.NewFileInfo(doc.Path, outRel, doc.Content, parsed))
		result.Rendered++
		log.DocumentRendered(job.name, doc.Path, dest)
		incrementTracker(tracker)
	}

	deleted, err := removeStale(job, entry, opts.DryRun)
	if err != nil {
		return runState{err: err}
	}
	result.Deleted = deleted

	collection.Finalize()

	return runState{result: result, entry: entry, collection: collection}
}

// removeStale deletes the pages of documents that were in the previous build
// but are gone now.
func removeStale(job sourceBuild, entry *lockfile.LockEntry, dryRun bool) (int, error) {
	if job.prevEntry == nil {
		return 0, nil
	}

	stale := make([]string, 0)
	for docPath := range job.prevEntry.Files {
		if _, ok := entry.Files[docPath]; !ok {
			stale = append(stale, docPath)
		}
	}
	slices.Sort(stale)

	for _, docPath := range stale {
		if dryRun {
			continue
		}

		dest := filepath.Join(job.destDir, filepath.FromSlash(outputPath(docPath)))
		if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
			return 0, oops.
				Code("WRITE_FAILED").
				With("source", job.name).
				With("path", dest).
				Wrapf(err, "removing stale page")
		}
	}

	return len(stale), nil
}

func newCollection(job sourceBuild, cfg *config.Config, now time.Time) *manifest.Collection {
	dir, err := filepath.Rel(resolveOutputRoot(cfg), job.destDir)
	if err != nil {
		dir = job.destDir
	}

	location := job.cfg.URL
	if job.cfg.Type == config.SourceTypeFiles {
		location = job.cfg.Path
	}

	return &manifest.Collection{
		Name:      job.name,
		Dir:       filepath.ToSlash(dir),
		Type:      job.cfg.Type,
		Location:  location,
		LastBuild: now,
	}
}

func refreshEntry(prev *lockfile.LockEntry, sourceType string, now time.Time) *lockfile.LockEntry {
	entry := &lockfile.LockEntry{Type: sourceType}
	if prev != nil {
		cloned := *prev
		cloned.Files = maps.Clone(prev.Files)
		entry = &cloned
	}

	entry.BuiltAt = now
	return entry
}

func refreshCollection(job sourceBuild, cfg *config.Config, now time.Time) *manifest.Collection {
	if job.prevColl == nil {
		return newCollection(job, cfg, now)
	}

	cloned := *job.prevColl
	cloned.Files = slices.Clone(job.prevColl.Files)
	cloned.LastBuild = now
	return &cloned
}

// carryManifest starts the next manifest from the previous one, keeping only
// collections of sources that are still configured.
func carryManifest(prev *manifest.Manifest, sources map[string]config.Source) *manifest.Manifest {
	next := manifest.New()
	for name, coll := range prev.Collections {
		if _, ok := sources[name]; ok {
			next.Collections[name] = coll
		}
	}

	return next
}

func emit(handler func(Event), e Event) {
	if handler != nil {
		handler(e)
	}
}

func incrementTracker(tracker *progress.Tracker) {
	if tracker != nil {
		tracker.Increment(1)
	}
}

func resolveSourceNames(
	sourceConfigs map[string]config.Source,
	requestedNames []string,
) ([]string, error) {
	if len(requestedNames) == 0 {
		sourceNames := make([]string, 0, len(sourceConfigs))
		for sourceName := range sourceConfigs {
			sourceNames = append(sourceNames, sourceName)
		}

		slices.Sort(sourceNames)
		return sourceNames, nil
	}

	sourceNames := make([]string, 0, len(requestedNames))
	seen := make(map[string]struct{}, len(requestedNames))

	for _, sourceName := range requestedNames {
		if _, ok := sourceConfigs[sourceName]; !ok {
			return nil, oops.
				Code("SOURCE_NOT_FOUND").
				With("source", sourceName).
				Hint("Check the [sources] tables in togglemark.toml").
				Errorf("source %q not found in config", sourceName)
		}

		if _, exists := seen[sourceName]; exists {
			continue
		}

		seen[sourceName] = struct{}{}
		sourceNames = append(sourceNames, sourceName)
	}

	slices.Sort(sourceNames)
	return sourceNames, nil
}

func resolveOutputRoot(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Output) {
		return cfg.Output
	}

	return filepath.Join(cfg.ConfigDir, cfg.Output)
}
