package catalog

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"path/filepath"
	"strings"
)

// Thumbnails are rendered to fit this box preserving aspect ratio:
// landscape images bound the width, portrait images bound the height.
const (
	ThumbnailMaxWidth  = 200
	ThumbnailMaxHeight = 150
)

// SyncEngine brings the catalog into agreement with the file system, one
// folder at a time, under a hard cap on asset mutations per run. Each
// folder's catalog is persisted before the walk moves on, so an
// interrupted run leaves the catalog durably consistent and the next run
// resumes from a fresh diff.
type SyncEngine struct {
	store     Store
	files     FileGateway
	hasher    HashCalculator
	images    ImageProcessor
	comparer  *DirectoryComparer
	logger    Logger
	clock     Clock
	roots     []string
	batchSize int
}

// NewSyncEngine creates a sync engine over the configured root folders.
// batchSize caps asset mutations per run; zero or negative means no cap.
func NewSyncEngine(store Store, files FileGateway, hasher HashCalculator, images ImageProcessor, logger Logger, clock Clock, roots []string, batchSize int) *SyncEngine {
	return &SyncEngine{
		store:     store,
		files:     files,
		hasher:    hasher,
		images:    images,
		comparer:  NewDirectoryComparer(files),
		logger:    logger,
		clock:     clock,
		roots:     roots,
		batchSize: batchSize,
	}
}

// Run walks the configured roots and yields progress events in processing
// order. The walk happens inside the iterator, in the caller's goroutine;
// breaking out of the range is treated as cancellation. The final event is
// always terminal (Completed, Cancelled or Failed) and a Failed or
// Cancelled event carries the error after the in-flight folder has been
// flushed.
func (e *SyncEngine) Run(ctx context.Context) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		r := &syncRun{
			engine:    e,
			ctx:       ctx,
			yield:     yield,
			remaining: e.batchSize,
			fresh:     make(map[string]bool),
		}
		if e.batchSize <= 0 {
			r.remaining = math.MaxInt
		}
		r.run()
	}
}

// syncRun holds the mutable state of one engine invocation: the shared
// remaining-budget counter and the explicit folder work list.
type syncRun struct {
	engine    *SyncEngine
	ctx       context.Context
	yield     func(Event) bool
	remaining int
	stopped   bool            // consumer broke out of the range
	fresh     map[string]bool // folder ids first cataloged during this run
}

func (r *syncRun) run() {
	e := r.engine

	queue, err := r.seedRoots()
	if err != nil {
		r.emit(Event{Message: "cataloging failed", Reason: ReasonFailed, Err: err})
		return
	}

	for len(queue) > 0 {
		if r.remaining <= 0 {
			break
		}
		folder := queue[0]
		queue = queue[1:]

		if err := r.ctx.Err(); err != nil {
			r.emit(Event{Message: "cataloging cancelled", Reason: ReasonCancelled, Err: err})
			return
		}

		children, err := r.processFolder(folder)
		if err != nil {
			// Flush what this folder already computed before reporting.
			if saveErr := e.store.SaveCatalog(folder); saveErr != nil {
				e.logger.Error("flushing folder after failure", "path", folder.Path, "error", saveErr)
			}
			reason := ReasonFailed
			message := fmt.Sprintf("cataloging failed in %s", folder.Path)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				reason = ReasonCancelled
				message = "cataloging cancelled"
			}
			r.emit(Event{Message: message, Reason: reason, Err: err})
			return
		}
		if r.stopped {
			if saveErr := e.store.SaveCatalog(folder); saveErr != nil {
				e.logger.Error("flushing folder after consumer stop", "path", folder.Path, "error", saveErr)
			}
			return
		}

		if r.remaining > 0 {
			queue = append(queue, children...)
		}
	}

	r.emit(Event{Message: "cataloging complete", Reason: ReasonCompleted})
}

// seedRoots makes sure every configured root path has a Folder record and
// returns the initial work list.
func (r *syncRun) seedRoots() ([]*Folder, error) {
	var queue []*Folder
	for _, root := range r.engine.roots {
		folder, err := r.ensureFolder(NormalizePath(root))
		if err != nil {
			return nil, err
		}
		queue = append(queue, folder)
	}
	return queue, nil
}

func (r *syncRun) ensureFolder(path string) (*Folder, error) {
	folder, err := r.engine.store.FolderByPath(path)
	if err != nil {
		return nil, fmt.Errorf("looking up folder %s: %w", path, err)
	}
	if folder != nil {
		return folder, nil
	}
	folder, err = r.engine.store.AddFolder(path)
	if err != nil {
		return nil, fmt.Errorf("cataloging folder %s: %w", path, err)
	}
	r.fresh[folder.ID] = true
	return folder, nil
}

// processFolder runs the Inspect -> Create/Update/Delete -> Persist cycle
// for one folder and returns the child folders to visit next.
func (r *syncRun) processFolder(folder *Folder) ([]*Folder, error) {
	e := r.engine

	if !e.files.FolderExists(folder.Path) {
		return r.processMissingFolder(folder)
	}

	if !r.emit(Event{Message: fmt.Sprintf("inspecting %s", folder.Path), Reason: ReasonInspecting}) {
		return nil, nil
	}

	diskNames, err := e.files.FileNames(folder.Path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", folder.Path, err)
	}
	cataloged, err := e.store.CataloguedAssets(folder)
	if err != nil {
		return nil, fmt.Errorf("loading catalog for %s: %w", folder.Path, err)
	}
	diff, err := e.comparer.Changes(folder, diskNames, cataloged)
	if err != nil {
		return nil, fmt.Errorf("comparing %s: %w", folder.Path, err)
	}

	mutated := false

	for _, name := range diff.New {
		if r.remaining <= 0 || r.stopped {
			break
		}
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		asset, err := r.catalogFile(folder, name)
		if err != nil {
			return nil, err
		}
		mutated = true
		r.remaining--
		r.emit(Event{
			Asset:   asset,
			Message: fmt.Sprintf("image %s added to catalog", asset.FullPath()),
			Reason:  ReasonCreated,
		})
	}

	for _, name := range diff.Updated {
		if r.remaining <= 0 || r.stopped {
			break
		}
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		// Update is delete + recreate, never an in-place edit.
		if err := e.store.DeleteAsset(folder, name); err != nil {
			return nil, fmt.Errorf("removing outdated asset %s: %w", name, err)
		}
		asset, err := r.catalogFile(folder, name)
		if err != nil {
			return nil, err
		}
		mutated = true
		r.remaining--
		r.emit(Event{
			Asset:   asset,
			Message: fmt.Sprintf("image %s updated in catalog", asset.FullPath()),
			Reason:  ReasonUpdated,
		})
	}

	for _, name := range diff.Deleted {
		if r.remaining <= 0 || r.stopped {
			break
		}
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.store.DeleteAsset(folder, name); err != nil {
			return nil, fmt.Errorf("removing deleted asset %s: %w", name, err)
		}
		mutated = true
		r.remaining--
		r.emit(Event{
			Message: fmt.Sprintf("image %s deleted from catalog", filepath.Join(folder.Path, name)),
			Reason:  ReasonDeleted,
		})
	}

	if mutated || r.fresh[folder.ID] {
		if err := e.store.SaveCatalog(folder); err != nil {
			return nil, fmt.Errorf("persisting catalog for %s: %w", folder.Path, err)
		}
	}

	if r.remaining <= 0 || r.stopped {
		return nil, nil
	}
	return r.childFolders(folder)
}

// processMissingFolder drains a configured folder that no longer exists
// on disk: its assets are deleted budget-limited and, once empty, the
// folder record itself goes away. Cataloged child folders are returned so
// vanished subtrees are visited too.
func (r *syncRun) processMissingFolder(folder *Folder) ([]*Folder, error) {
	e := r.engine

	assets, err := e.store.CataloguedAssets(folder)
	if err != nil {
		return nil, fmt.Errorf("loading catalog for %s: %w", folder.Path, err)
	}

	deleted := 0
	for _, asset := range assets {
		if r.remaining <= 0 || r.stopped {
			break
		}
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.store.DeleteAsset(folder, asset.FileName); err != nil {
			return nil, fmt.Errorf("removing deleted asset %s: %w", asset.FileName, err)
		}
		deleted++
		r.remaining--
		r.emit(Event{
			Message: fmt.Sprintf("image %s deleted from catalog", asset.FullPath()),
			Reason:  ReasonDeleted,
		})
	}

	children, err := r.catalogedChildren(folder, nil)
	if err != nil {
		return nil, err
	}

	if deleted == len(assets) {
		if err := e.store.DeleteFolder(folder); err != nil {
			return nil, fmt.Errorf("removing folder %s: %w", folder.Path, err)
		}
	}
	if deleted > 0 || deleted == len(assets) {
		if err := e.store.SaveCatalog(folder); err != nil {
			return nil, fmt.Errorf("persisting catalog for %s: %w", folder.Path, err)
		}
	}

	return children, nil
}

// catalogFile creates and persists the asset record for one file.
func (r *syncRun) catalogFile(folder *Folder, fileName string) (*Asset, error) {
	e := r.engine
	asset, thumbnail, err := buildAsset(e.files, e.images, e.hasher, e.clock, folder, fileName)
	if err != nil {
		return nil, err
	}
	if err := e.store.AddAsset(asset, thumbnail); err != nil {
		return nil, fmt.Errorf("storing asset %s: %w", asset.FullPath(), err)
	}
	return asset, nil
}

// childFolders returns the union of on-disk subdirectories (cataloging
// new ones) and already-cataloged children missing from disk.
func (r *syncRun) childFolders(folder *Folder) ([]*Folder, error) {
	subdirs, err := r.engine.files.SubDirectories(folder.Path)
	if err != nil {
		return nil, fmt.Errorf("listing subfolders of %s: %w", folder.Path, err)
	}

	var children []*Folder
	for _, dir := range subdirs {
		child, err := r.ensureFolder(NormalizePath(dir))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return r.catalogedChildren(folder, children)
}

// catalogedChildren appends the cataloged immediate children of folder
// that are not already present in the given list.
func (r *syncRun) catalogedChildren(folder *Folder, children []*Folder) ([]*Folder, error) {
	all, err := r.engine.store.Folders()
	if err != nil {
		return nil, fmt.Errorf("listing cataloged folders: %w", err)
	}
	for _, candidate := range all {
		if !folder.IsParentOf(candidate) {
			continue
		}
		seen := false
		for _, child := range children {
			if strings.EqualFold(child.Path, candidate.Path) {
				seen = true
				break
			}
		}
		if !seen {
			children = append(children, candidate)
		}
	}
	return children, nil
}

// emit yields one event and records when the consumer has stopped.
func (r *syncRun) emit(ev Event) bool {
	if r.stopped {
		return false
	}
	if !r.yield(ev) {
		r.stopped = true
		return false
	}
	return true
}

// buildAsset derives a full asset record (bytes, dimensions, rotation,
// hash, thumbnail) from the file on disk. Shared by the sync engine and
// the relocator, which never trusts cached metadata.
func buildAsset(files FileGateway, images ImageProcessor, hasher HashCalculator, clock Clock, folder *Folder, fileName string) (*Asset, []byte, error) {
	fullPath := filepath.Join(folder.Path, fileName)

	data, err := files.FileBytes(fullPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", fullPath, err)
	}
	props, err := images.Properties(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", fullPath, err)
	}
	fileProps, err := files.FileProperties(fullPath)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", fullPath, err)
	}
	thumbnail, thumbWidth, thumbHeight, err := images.Thumbnail(data, props, ThumbnailMaxWidth, ThumbnailMaxHeight)
	if err != nil {
		return nil, nil, fmt.Errorf("rendering thumbnail for %s: %w", fullPath, err)
	}

	asset := &Asset{
		FolderID:             folder.ID,
		Folder:               folder,
		FileName:             fileName,
		FileSize:             fileProps.Size,
		PixelWidth:           props.Width,
		PixelHeight:          props.Height,
		Rotation:             props.Rotation,
		ThumbnailPixelWidth:  thumbWidth,
		ThumbnailPixelHeight: thumbHeight,
		ThumbnailCreatedAt:   clock.Now(),
		Hash:                 hasher.CalculateHash(data),
		FileCreatedAt:        fileProps.CreatedAt,
		FileModifiedAt:       fileProps.ModifiedAt,
	}
	return asset, thumbnail, nil
}
