package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RenameResult lists the assets that were actually renamed and, at the
// same index, the path each one now lives at.
type RenameResult struct {
	SourceAssets []*Asset
	TargetPaths  []string
}

// Len returns the number of completed renames.
func (r *RenameResult) Len() int {
	return len(r.SourceAssets)
}

// BatchRenamer applies a path template across a set of assets, moving
// each file to its computed target. Catalog records are not touched here;
// the next sync run picks the moves up.
type BatchRenamer struct {
	files  FileGateway
	logger Logger
}

func NewBatchRenamer(files FileGateway, logger Logger) *BatchRenamer {
	return &BatchRenamer{files: files, logger: logger}
}

// Rename moves every asset to the path the template resolves to for its
// 1-based position. Assets whose computed path is empty or already their
// current path are skipped. Unless overwriteExisting is set, an occupied
// target is disambiguated with a numeric suffix instead of replaced. A
// gateway failure stops the batch; the result still reports what had
// completed.
func (b *BatchRenamer) Rename(assets []*Asset, template string, overwriteExisting bool) (*RenameResult, error) {
	result := &RenameResult{}
	if err := ValidateTemplate(template); err != nil {
		return result, err
	}

	for i, asset := range assets {
		if asset == nil || asset.Folder == nil {
			b.logger.Warn("skipping uncataloged asset in rename batch", "position", i+1)
			continue
		}

		target := ComputeTargetPath(asset, template, i+1)
		if target == "" {
			b.logger.Warn("template produced no path", "asset", asset.FullPath(), "position", i+1)
			continue
		}
		source := asset.FullPath()
		if strings.EqualFold(source, target) {
			continue
		}

		if !overwriteExisting {
			dir := filepath.Dir(target)
			unique, err := GetUniqueDestinationPath(b.files, dir, filepath.Base(target))
			if err != nil {
				return result, fmt.Errorf("resolving unique name for %s: %w", target, err)
			}
			target = filepath.Join(dir, unique)
		}

		if err := b.files.MoveImage(source, target); err != nil {
			return result, fmt.Errorf("moving %s to %s: %w", source, target, err)
		}
		result.SourceAssets = append(result.SourceAssets, asset)
		result.TargetPaths = append(result.TargetPaths, target)
		b.logger.Info("asset renamed", "from", source, "to", target)
	}

	return result, nil
}
