package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domainconfig "ifn-backend/domain/config"
)

const settingsDebounce = 100 * time.Millisecond

// SettingsWatcher reloads the listing settings file when it changes
type SettingsWatcher struct {
	path        string
	environment string
	current     *domainconfig.ListingConfig
	callbacks   []func(*domainconfig.ListingConfig)
	mu          sync.RWMutex
	logger      *zap.Logger
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

// NewSettingsWatcher loads path and starts watching its directory.
// Editors often replace files on save, so the directory is watched, not the file.
func NewSettingsWatcher(path, environment string, logger *zap.Logger) (*SettingsWatcher, error) {
	initial, err := LoadSettings(path, environment)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &SettingsWatcher{
		path:        filepath.Clean(path),
		environment: environment,
		current:     initial,
		logger:      logger,
		watcher:     fsWatcher,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Listing settings hot reloading enabled", zap.String("path", path))
	return w, nil
}

// Current returns the last valid settings
func (w *SettingsWatcher) Current() *domainconfig.ListingConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback run after every successful reload
func (w *SettingsWatcher) OnChange(fn func(*domainconfig.ListingConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Stop ends the watch loop and waits for it to exit
func (w *SettingsWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
}

func (w *SettingsWatcher) watchLoop() {
	defer close(w.done)
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Listing settings changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(settingsDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			w.logger.Info("Stopping listing settings watcher")
			return
		}
	}
}

func (w *SettingsWatcher) reload() {
	next, err := LoadSettings(w.path, w.environment)
	if err != nil {
		w.logger.Error("Invalid listing settings after reload, keeping previous", zap.Error(err))
		return
	}

	w.mu.Lock()
	// Collections bind their sentinels at startup
	if prev := w.current; !slices.Equal(next.Sentinels(), prev.Sentinels()) {
		w.logger.Warn("Category sentinels change only on restart, keeping the loaded ones",
			zap.Strings("loaded", prev.Sentinels()),
			zap.Strings("ignored", next.Sentinels()),
		)
		next.CategorySentinel = prev.CategorySentinel
		next.SentinelAliases = append([]string(nil), prev.SentinelAliases...)
	}
	w.current = next
	callbacks := append([](func(*domainconfig.ListingConfig))(nil), w.callbacks...)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(next)
	}
	w.logger.Info("Listing settings reloaded",
		zap.Int("page_size", next.PageSize),
		zap.Duration("debounce", next.DebounceWindow),
		zap.Int("callbacks_notified", len(callbacks)),
	)
}
