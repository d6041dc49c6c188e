package catalog_test

import (
	"context"
	"testing"
	"time"

	"pixcat/internal/catalog"
	"pixcat/internal/testutil"
)

type syncFixture struct {
	store catalog.Store
	files *testutil.MockFileGateway
	clock *testutil.StubClock
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	return &syncFixture{
		store: testutil.NewTestStore(t),
		files: testutil.NewMockFileGateway(),
		clock: testutil.FixedClock(),
	}
}

func (f *syncFixture) engine(roots []string, batchSize int) *catalog.SyncEngine {
	return catalog.NewSyncEngine(
		f.store, f.files, catalog.SHA256Calculator{}, testutil.NewStubImageProcessor(),
		catalog.NewNopLogger(), f.clock, roots, batchSize)
}

// runSync drains a sync run and returns the non-terminal events plus the
// terminal event.
func runSync(t *testing.T, engine *catalog.SyncEngine) ([]catalog.Event, catalog.Event) {
	t.Helper()

	var events []catalog.Event
	var terminal catalog.Event
	sawTerminal := false
	for event := range engine.Run(context.Background()) {
		if event.Reason.Terminal() {
			terminal = event
			sawTerminal = true
			continue
		}
		events = append(events, event)
	}
	if !sawTerminal {
		t.Fatal("sync run ended without a terminal event")
	}
	return events, terminal
}

func countReasons(events []catalog.Event) map[catalog.Reason]int {
	counts := map[catalog.Reason]int{}
	for _, event := range events {
		counts[event.Reason]++
	}
	return counts
}

func TestSyncEngine_Run(t *testing.T) {
	t.Run("catalogs new images and ignores other files", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("aaa"))
		f.files.AddFile("/photos/b.png", []byte("bbb"))
		f.files.AddFile("/photos/notes.txt", []byte("text"))

		events, terminal := runSync(t, f.engine([]string{"/photos"}, 0))

		if terminal.Reason != catalog.ReasonCompleted {
			t.Fatalf("terminal = %s, want completed", terminal.Reason)
		}
		counts := countReasons(events)
		if counts[catalog.ReasonCreated] != 2 {
			t.Errorf("created = %d, want 2", counts[catalog.ReasonCreated])
		}
		if counts[catalog.ReasonInspecting] != 1 {
			t.Errorf("inspecting = %d, want 1", counts[catalog.ReasonInspecting])
		}

		folder, err := f.store.FolderByPath("/photos")
		if err != nil || folder == nil {
			t.Fatalf("FolderByPath() = %v, %v", folder, err)
		}
		assets, err := f.store.CataloguedAssets(folder)
		if err != nil {
			t.Fatalf("CataloguedAssets() error = %v", err)
		}
		if len(assets) != 2 {
			t.Fatalf("cataloged %d assets, want 2", len(assets))
		}
		for _, asset := range assets {
			if asset.Hash == "" {
				t.Errorf("asset %s has no hash", asset.FileName)
			}
			ok, err := f.store.ContainsThumbnail(folder, asset.FileName)
			if err != nil || !ok {
				t.Errorf("thumbnail for %s missing (ok=%v err=%v)", asset.FileName, ok, err)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("aaa"))

		runSync(t, f.engine([]string{"/photos"}, 0))
		events, terminal := runSync(t, f.engine([]string{"/photos"}, 0))

		if terminal.Reason != catalog.ReasonCompleted {
			t.Fatalf("terminal = %s", terminal.Reason)
		}
		counts := countReasons(events)
		if counts[catalog.ReasonCreated]+counts[catalog.ReasonUpdated]+counts[catalog.ReasonDeleted] != 0 {
			t.Errorf("second run mutated the catalog: %v", counts)
		}
		if f.store.HasChanges() {
			t.Error("store reports unflushed changes after completed run")
		}
	})

	t.Run("respects the batch budget across runs", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("a"))
		f.files.AddFile("/photos/b.jpg", []byte("b"))
		f.files.AddFile("/photos/c.jpg", []byte("c"))

		events, terminal := runSync(t, f.engine([]string{"/photos"}, 2))
		if terminal.Reason != catalog.ReasonCompleted {
			t.Fatalf("terminal = %s", terminal.Reason)
		}
		if got := countReasons(events)[catalog.ReasonCreated]; got != 2 {
			t.Fatalf("first run created %d, want 2", got)
		}

		events, _ = runSync(t, f.engine([]string{"/photos"}, 2))
		if got := countReasons(events)[catalog.ReasonCreated]; got != 1 {
			t.Fatalf("second run created %d, want 1", got)
		}

		folder, _ := f.store.FolderByPath("/photos")
		assets, _ := f.store.CataloguedAssets(folder)
		if len(assets) != 3 {
			t.Errorf("cataloged %d assets, want 3", len(assets))
		}
	})

	t.Run("re-catalogs modified images", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("before"))

		runSync(t, f.engine([]string{"/photos"}, 0))

		folder, _ := f.store.FolderByPath("/photos")
		before, _ := f.store.CataloguedAssets(folder)

		f.files.AddFile("/photos/a.jpg", []byte("after-edit"))
		f.files.SetFileTimes("/photos/a.jpg", f.clock.Now().Add(-time.Hour), f.clock.Now().Add(time.Hour))
		f.clock.Advance(2 * time.Hour)

		events, _ := runSync(t, f.engine([]string{"/photos"}, 0))
		if got := countReasons(events)[catalog.ReasonUpdated]; got != 1 {
			t.Fatalf("updated = %d, want 1", got)
		}

		after, _ := f.store.CataloguedAssets(folder)
		if len(after) != 1 {
			t.Fatalf("cataloged %d assets, want 1", len(after))
		}
		if after[0].Hash == before[0].Hash {
			t.Error("hash unchanged after modification")
		}

		events, _ = runSync(t, f.engine([]string{"/photos"}, 0))
		if got := countReasons(events)[catalog.ReasonUpdated]; got != 0 {
			t.Errorf("third run updated %d, want 0", got)
		}
	})

	t.Run("removes assets whose file is gone", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("a"))
		f.files.AddFile("/photos/b.jpg", []byte("b"))

		runSync(t, f.engine([]string{"/photos"}, 0))
		f.files.RemoveFile("/photos/b.jpg")

		events, _ := runSync(t, f.engine([]string{"/photos"}, 0))
		if got := countReasons(events)[catalog.ReasonDeleted]; got != 1 {
			t.Fatalf("deleted = %d, want 1", got)
		}

		folder, _ := f.store.FolderByPath("/photos")
		assets, _ := f.store.CataloguedAssets(folder)
		if len(assets) != 1 || assets[0].FileName != "a.jpg" {
			t.Errorf("remaining assets = %v", assets)
		}
	})

	t.Run("discovers subfolders", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("a"))
		f.files.AddFile("/photos/2021/b.jpg", []byte("b"))

		_, terminal := runSync(t, f.engine([]string{"/photos"}, 0))
		if terminal.Reason != catalog.ReasonCompleted {
			t.Fatalf("terminal = %s", terminal.Reason)
		}

		sub, err := f.store.FolderByPath("/photos/2021")
		if err != nil || sub == nil {
			t.Fatalf("subfolder not cataloged: %v, %v", sub, err)
		}
		assets, _ := f.store.CataloguedAssets(sub)
		if len(assets) != 1 || assets[0].FileName != "b.jpg" {
			t.Errorf("subfolder assets = %v", assets)
		}
	})

	t.Run("drains folders that vanished from disk", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/2021/b.jpg", []byte("b"))

		runSync(t, f.engine([]string{"/photos"}, 0))
		f.files.RemoveDirectory("/photos/2021")

		events, terminal := runSync(t, f.engine([]string{"/photos"}, 0))
		if terminal.Reason != catalog.ReasonCompleted {
			t.Fatalf("terminal = %s", terminal.Reason)
		}
		if got := countReasons(events)[catalog.ReasonDeleted]; got != 1 {
			t.Errorf("deleted = %d, want 1", got)
		}

		sub, err := f.store.FolderByPath("/photos/2021")
		if err != nil {
			t.Fatalf("FolderByPath() error = %v", err)
		}
		if sub != nil {
			t.Error("vanished folder still cataloged")
		}
	})

	t.Run("cancelled context yields a cancelled terminal event", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("a"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var terminal catalog.Event
		for event := range f.engine([]string{"/photos"}, 0).Run(ctx) {
			terminal = event
		}
		if terminal.Reason != catalog.ReasonCancelled {
			t.Fatalf("terminal = %s, want cancelled", terminal.Reason)
		}
		if terminal.Err == nil {
			t.Error("cancelled event carries no error")
		}
	})

	t.Run("consumer break flushes completed work", func(t *testing.T) {
		f := newSyncFixture(t)
		f.files.AddDirectory("/photos")
		f.files.AddFile("/photos/a.jpg", []byte("a"))
		f.files.AddFile("/photos/b.jpg", []byte("b"))

		for event := range f.engine([]string{"/photos"}, 0).Run(context.Background()) {
			if event.Reason == catalog.ReasonCreated {
				break
			}
		}

		if f.store.HasChanges() {
			t.Error("store reports unflushed changes after consumer stop")
		}
		folder, _ := f.store.FolderByPath("/photos")
		assets, _ := f.store.CataloguedAssets(folder)
		if len(assets) == 0 {
			t.Error("no assets persisted before consumer stop")
		}
	})
}
