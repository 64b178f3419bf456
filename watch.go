package xsession

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// WaitForPath blocks until path exists, the timeout elapses, or ctx is
// canceled. It is used as the readiness probe for daemons that announce
// themselves by creating a filesystem object, like the display server's
// listening socket.
func WaitForPath(ctx context.Context, path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return err
	}

	// Re-check once the watch is in place: the path may have appeared
	// between the first stat and the Add.
	if _, err := os.Stat(path); err == nil {
		_ = watcher.Close()
		return nil
	}

	// Stopper context manages the watcher goroutine lifecycle
	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
	})
	defer func() {
		sctx.Stop(100 * time.Millisecond)
		_ = sctx.Wait()
	}()

	found := make(chan error, 1)

	sctx.Go(func(sctx *stopper.Context) error {
		for {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name == path && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					found <- nil
					return nil
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					found <- err
					return nil
				}
			}
		}
	})

	select {
	case err := <-found:
		return err
	case <-time.After(timeout):
		return ErrReadyTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
