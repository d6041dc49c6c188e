package catalog_test

import (
	"testing"

	"pixcat/internal/catalog"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/photos/album/", "/photos/album"},
		{"/photos/album", "/photos/album"},
		{"/photos//album", "/photos/album"},
		{"/photos/album/../other", "/photos/other"},
		{"/", "/"},
	}
	for _, tc := range cases {
		if got := catalog.NormalizePath(tc.in); got != tc.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFolder_SamePath(t *testing.T) {
	folder := &catalog.Folder{ID: "f1", Path: "/photos/Album"}

	if !folder.SamePath("/photos/album") {
		t.Error("expected case-insensitive path match")
	}
	if !folder.SamePath("/photos/Album/") {
		t.Error("expected trailing separator to be ignored")
	}
	if folder.SamePath("/photos/other") {
		t.Error("unexpected match for different path")
	}
}

func TestFolder_IsParentOf(t *testing.T) {
	parent := &catalog.Folder{ID: "p", Path: "/photos"}
	child := &catalog.Folder{ID: "c", Path: "/photos/Album"}
	grandchild := &catalog.Folder{ID: "g", Path: "/photos/album/2021"}

	if !parent.IsParentOf(child) {
		t.Error("expected /photos to be parent of /photos/Album")
	}
	if parent.IsParentOf(grandchild) {
		t.Error("grandchild must not count as immediate child")
	}
	if parent.IsParentOf(nil) {
		t.Error("nil folder must not count as child")
	}
}

func TestAsset_Identity(t *testing.T) {
	folder := &catalog.Folder{ID: "f1", Path: "/photos"}
	a := &catalog.Asset{FolderID: "f1", Folder: folder, FileName: "a.jpg", Hash: "one"}
	b := &catalog.Asset{FolderID: "f1", Folder: folder, FileName: "a.jpg", Hash: "two"}
	c := &catalog.Asset{FolderID: "f2", FileName: "a.jpg", Hash: "one"}

	if !a.Equal(b) {
		t.Error("assets with same folder and name must be equal regardless of content")
	}
	if a.Equal(c) {
		t.Error("assets in different folders must not be equal")
	}
	if a.Equal(nil) {
		t.Error("asset must not equal nil")
	}
	if a.Key() != b.Key() {
		t.Error("equal assets must share a key")
	}
}

func TestAsset_FullPath(t *testing.T) {
	asset := &catalog.Asset{
		Folder:   &catalog.Folder{ID: "f1", Path: "/photos/album"},
		FileName: "sunset.jpg",
	}
	if got := asset.FullPath(); got != "/photos/album/sunset.jpg" {
		t.Errorf("FullPath() = %q", got)
	}

	orphan := &catalog.Asset{FileName: "sunset.jpg"}
	if got := orphan.FullPath(); got != "sunset.jpg" {
		t.Errorf("FullPath() without folder = %q", got)
	}
}

func TestDuplicatedAssetCollection(t *testing.T) {
	folder := &catalog.Folder{ID: "f1", Path: "/photos"}
	group := &catalog.DuplicatedAssetCollection{Assets: []*catalog.Asset{
		{FolderID: "f1", Folder: folder, FileName: "a.jpg"},
		{FolderID: "f1", Folder: folder, FileName: "b.jpg"},
	}}

	if !group.HasDuplicates() {
		t.Error("two assets should count as duplicates")
	}
	if got := group.Description(); got != "a.jpg (2 duplicates)" {
		t.Errorf("Description() = %q", got)
	}

	single := &catalog.DuplicatedAssetCollection{Assets: group.Assets[:1]}
	if single.HasDuplicates() {
		t.Error("single asset must not count as duplicates")
	}
}
