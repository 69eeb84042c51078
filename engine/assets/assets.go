package assets

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/lumina/engine/core"
)

// Editors and shader compilers emit several write events for a single
// save. Events for the same path inside this window are dropped.
const writeSuppressWindow = 200 * time.Millisecond

// AssetManager resolves paths below the asset root and watches the whole
// tree for writes. Each observed write is republished on the event system
// as EVENT_CODE_WATCHED_FILE_WRITTEN so systems can hot reload.
type AssetManager struct {
	root    string
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	lastFired map[string]time.Time

	done chan struct{}
}

func NewAssetManager(root string) (*AssetManager, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &AssetManager{
		root:      root,
		watcher:   watcher,
		lastFired: make(map[string]time.Time),
		done:      make(chan struct{}),
	}, nil
}

// Initialize starts watching the asset root and every directory below it.
func (am *AssetManager) Initialize() error {
	if err := am.watchRecursive(am.root); err != nil {
		am.watcher.Close()
		return err
	}
	go am.run()
	core.LogInfo("watching asset directory %s", am.root)
	return nil
}

func (am *AssetManager) Shutdown() error {
	close(am.done)
	return am.watcher.Close()
}

// Root returns the asset root directory.
func (am *AssetManager) Root() string {
	return am.root
}

// Path resolves a path relative to the asset root.
func (am *AssetManager) Path(relative string) string {
	return filepath.Join(am.root, relative)
}

func (am *AssetManager) run() {
	for {
		select {
		case e, ok := <-am.watcher.Events:
			if !ok {
				return
			}
			am.handleEvent(e)
		case err, ok := <-am.watcher.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err.Error())
		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	if e.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("asset watcher cannot follow new directory %s: %s", e.Name, err.Error())
			}
			return
		}
	}
	if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !am.shouldFire(e.Name) {
		return
	}
	core.LogDebug("asset written: %s", e.Name)
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_WATCHED_FILE_WRITTEN,
		Data: &core.WatchedFileEvent{Path: e.Name},
	})
}

// shouldFire records the event time for the path and reports whether
// enough time passed since the previous event for the same path.
func (am *AssetManager) shouldFire(path string) bool {
	am.mu.Lock()
	defer am.mu.Unlock()

	now := time.Now()
	if last, ok := am.lastFired[path]; ok && now.Sub(last) < writeSuppressWindow {
		return false
	}
	am.lastFired[path] = now
	return true
}

func (am *AssetManager) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return am.watcher.Add(path)
		}
		return nil
	})
}
