/*
 * MIT License
 *
 * Copyright (c) 2026 Nabbar
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package certloader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/logger"
)

// Watcher reloads a Config's certificate pair whenever the underlying
// key or certificate file changes on disk, debouncing bursts of events
// a single "cp new-cert.pem cert.pem" produces into one reload.
type Watcher struct {
	mu   sync.Mutex
	fsw  *fsnotify.Watcher
	log  logger.Logger
	done chan struct{}

	keyFile, crtFile string
	reload           func() error

	debounce time.Duration
}

// NewWatcher starts watching keyFile/crtFile's containing directories
// (fsnotify follows inodes, not paths: watching the directory survives
// the atomic rename pattern most ACME/cert-manager tooling uses to
// publish a renewed certificate). reload is invoked, serialized, after
// every settled burst of changes.
func NewWatcher(keyFile, crtFile string, log logger.Logger, reload func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(errs.ResourceLimit, err, "create file watcher")
	}
	if log == nil {
		log = logger.Discard()
	}

	w := &Watcher{
		fsw:      fsw,
		log:      log,
		done:     make(chan struct{}),
		keyFile:  keyFile,
		crtFile:  crtFile,
		reload:   reload,
		debounce: 200 * time.Millisecond,
	}

	dirs := map[string]bool{filepath.Dir(keyFile): true, filepath.Dir(crtFile): true}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, errs.Wrap(errs.Invalid, err, "watch directory %q", dir)
		}
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if w.reload != nil {
				if err := w.reload(); err != nil {
					w.log.Warn("certloader: reload failed", logger.Fields{"error": err})
				} else {
					w.log.Info("certloader: certificate pair reloaded", nil)
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("certloader: watch error", logger.Fields{"error": err})
		}
	}
}

func (w *Watcher) matches(name string) bool {
	base := filepath.Base(name)
	return base == filepath.Base(w.keyFile) || base == filepath.Base(w.crtFile)
}

// Close stops the watcher; safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}
	return w.fsw.Close()
}
