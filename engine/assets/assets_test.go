package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/lumina/engine/core"
)

func TestAssetManagerPathResolution(t *testing.T) {
	am, err := NewAssetManager("assets")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer am.Shutdown()

	want := filepath.Join("assets", "shaders", "scene.vert.spv")
	if got := am.Path("shaders/scene.vert.spv"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if am.Root() != "assets" {
		t.Errorf("expected root kept, got %s", am.Root())
	}
}

func TestAssetManagerSuppressionWindow(t *testing.T) {
	am, err := NewAssetManager(t.TempDir())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer am.Shutdown()

	if !am.shouldFire("shaders/scene.frag.spv") {
		t.Error("the first event for a path must fire")
	}
	if am.shouldFire("shaders/scene.frag.spv") {
		t.Error("an immediate repeat must be suppressed")
	}
	if !am.shouldFire("shaders/sky.frag.spv") {
		t.Error("a different path is tracked independently")
	}
}

func TestAssetManagerFiresEventOnWrite(t *testing.T) {
	core.EventSystemInitialize()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}

	am, err := NewAssetManager(dir)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := am.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer am.Shutdown()

	paths := make(chan string, 8)
	core.EventRegister(core.EVENT_CODE_WATCHED_FILE_WRITTEN, func(context core.EventContext) {
		if e, ok := context.Data.(*core.WatchedFileEvent); ok {
			select {
			case paths <- e.Path:
			default:
			}
		}
	})

	target := filepath.Join(dir, "shaders", "scene.frag.spv")
	if err := os.WriteFile(target, []byte{3, 2, 35, 7}, 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case p := <-paths:
			if p == target {
				return
			}
		case <-deadline:
			t.Fatal("no event observed for the written file")
		}
	}
}
