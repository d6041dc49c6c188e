package catalog_test

import (
	"errors"
	"testing"

	"pixcat/internal/catalog"
	"pixcat/internal/testutil"
)

func renameFixture(t *testing.T, names ...string) (*catalog.BatchRenamer, *testutil.MockFileGateway, []*catalog.Asset) {
	t.Helper()

	files := testutil.NewMockFileGateway()
	folder := &catalog.Folder{ID: "f1", Path: "/photos"}

	var assets []*catalog.Asset
	for _, name := range names {
		files.AddFile("/photos/"+name, []byte(name))
		assets = append(assets, &catalog.Asset{FolderID: "f1", Folder: folder, FileName: name})
	}

	renamer := catalog.NewBatchRenamer(files, catalog.NewNopLogger())
	return renamer, files, assets
}

func TestBatchRenamer_Rename(t *testing.T) {
	t.Run("renames by 1-based position", func(t *testing.T) {
		renamer, files, assets := renameFixture(t, "beach.jpg", "dunes.jpg")

		result, err := renamer.Rename(assets, "<##>.jpg", false)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}

		if result.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", result.Len())
		}
		if result.TargetPaths[0] != "/photos/01.jpg" || result.TargetPaths[1] != "/photos/02.jpg" {
			t.Errorf("TargetPaths = %v", result.TargetPaths)
		}
		if !files.FileExists("/photos/01.jpg") || !files.FileExists("/photos/02.jpg") {
			t.Error("renamed files missing on disk")
		}
		if files.FileExists("/photos/beach.jpg") {
			t.Error("source file still present after rename")
		}
	})

	t.Run("result lists are parallel", func(t *testing.T) {
		renamer, _, assets := renameFixture(t, "beach.jpg", "dunes.jpg")

		result, err := renamer.Rename(assets, "<#>_renamed.jpg", false)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}

		if len(result.SourceAssets) != len(result.TargetPaths) {
			t.Fatalf("lists not parallel: %d vs %d", len(result.SourceAssets), len(result.TargetPaths))
		}
		if result.SourceAssets[0].FileName != "beach.jpg" {
			t.Errorf("SourceAssets[0] = %s", result.SourceAssets[0].FileName)
		}
	})

	t.Run("disambiguates instead of overwriting", func(t *testing.T) {
		renamer, files, assets := renameFixture(t, "beach.jpg")
		files.AddFile("/photos/01.jpg", []byte("occupied"))

		result, err := renamer.Rename(assets, "<##>.jpg", false)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}

		if result.TargetPaths[0] != "/photos/01_1.jpg" {
			t.Errorf("TargetPaths[0] = %s, want /photos/01_1.jpg", result.TargetPaths[0])
		}
		data, err := files.FileBytes("/photos/01.jpg")
		if err != nil || string(data) != "occupied" {
			t.Error("existing file was touched")
		}
	})

	t.Run("overwrites when asked", func(t *testing.T) {
		renamer, files, assets := renameFixture(t, "beach.jpg")
		files.AddFile("/photos/01.jpg", []byte("occupied"))

		result, err := renamer.Rename(assets, "<##>.jpg", true)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}

		if result.TargetPaths[0] != "/photos/01.jpg" {
			t.Errorf("TargetPaths[0] = %s", result.TargetPaths[0])
		}
		data, err := files.FileBytes("/photos/01.jpg")
		if err != nil || string(data) != "beach.jpg" {
			t.Error("target was not overwritten")
		}
	})

	t.Run("skips assets already at their target", func(t *testing.T) {
		renamer, files, assets := renameFixture(t, "01.jpg")

		result, err := renamer.Rename(assets, "<##>.jpg", false)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}

		if result.Len() != 0 {
			t.Errorf("Len() = %d, want 0", result.Len())
		}
		if !files.FileExists("/photos/01.jpg") {
			t.Error("file disappeared")
		}
	})

	t.Run("rejects invalid template up front", func(t *testing.T) {
		renamer, files, assets := renameFixture(t, "beach.jpg")

		_, err := renamer.Rename(assets, "no-tokens.jpg", false)
		if !errors.Is(err, catalog.ErrInvalidArgument) {
			t.Errorf("Rename() error = %v, want ErrInvalidArgument", err)
		}
		if !files.FileExists("/photos/beach.jpg") {
			t.Error("file moved despite invalid template")
		}
	})

	t.Run("moves into template subdirectories", func(t *testing.T) {
		renamer, files, assets := renameFixture(t, "beach.jpg")

		result, err := renamer.Rename(assets, "2021/<#>.jpg", false)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}

		if result.TargetPaths[0] != "/photos/2021/1.jpg" {
			t.Errorf("TargetPaths[0] = %s", result.TargetPaths[0])
		}
		if !files.FileExists("/photos/2021/1.jpg") {
			t.Error("file missing at subdirectory target")
		}
	})
}
