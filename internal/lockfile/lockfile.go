// Package lockfile serializes store writes across concurrent invocations
// (e.g. a cron run racing an interactive shell) with an advisory lock file
// created atomically via O_CREATE|O_EXCL. Acquisition is attempt-bounded and
// fails loudly rather than hanging; locks left behind by a dead process are
// taken over after a stale timeout.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Options controls lock acquisition.
type Options struct {
	// MaxAttempts bounds how many times Acquire tries before giving up.
	MaxAttempts int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration

	// StaleAfter is the age past which a held lock is presumed abandoned
	// and may be broken.
	StaleAfter time.Duration
}

// DefaultOptions returns the standard acquisition parameters: up to ten
// attempts half a second apart, with a thirty-second stale timeout.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: 10,
		RetryDelay:  500 * time.Millisecond,
		StaleAfter:  30 * time.Second,
	}
}

// ErrLockTimeout indicates the lock could not be acquired within the
// attempt budget. Fatal to the current invocation: the tool must not
// proceed without the lock.
type ErrLockTimeout struct {
	Path     string
	Attempts int
}

func (e *ErrLockTimeout) Error() string {
	return fmt.Sprintf("could not acquire lock %s after %d attempts", e.Path, e.Attempts)
}

// Lock is a held advisory lock. While held, the lock file's mtime is
// refreshed in the background so long-running holders are never mistaken
// for stale ones. Release is safe to call more than once and from cleanup
// paths (defer, signal handler).
type Lock struct {
	path string

	mu       sync.Mutex
	released bool
	stop     chan struct{}
}

// Acquire takes the lock at path, waiting at most
// MaxAttempts × RetryDelay. A lock file older than StaleAfter is removed
// and the slot retried.
func Acquire(path string, opts Options) (*Lock, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultOptions().MaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultOptions().RetryDelay
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultOptions().StaleAfter
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		ok, err := tryCreate(path)
		if err != nil {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if ok {
			l := &Lock{path: path, stop: make(chan struct{})}
			go l.keepFresh(opts.StaleAfter / 3)
			return l, nil
		}

		if breakIfStale(path, opts.StaleAfter) {
			continue // slot freed, retry without sleeping
		}
		if attempt < opts.MaxAttempts {
			time.Sleep(opts.RetryDelay)
		}
	}

	return nil, &ErrLockTimeout{Path: path, Attempts: opts.MaxAttempts}
}

// Release removes the lock file. Guaranteed-run cleanup: callers defer it
// and also invoke it from the interrupt path.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return nil
	}
	l.released = true
	close(l.stop)

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// keepFresh refreshes the lock file's mtime while the lock is held. A holder
// can legitimately outlive StaleAfter (a generation request runs for
// minutes), so the refresh is what distinguishes a live lock from an
// abandoned one.
func (l *Lock) keepFresh(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			os.Chtimes(l.path, now, now)
		}
	}
}

// tryCreate atomically creates the lock file. Returns false when another
// holder already exists.
func tryCreate(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	f.Close()
	return true, nil
}

// breakIfStale removes a lock file older than staleAfter. Returns true when
// the slot was freed.
func breakIfStale(path string, staleAfter time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		// Holder released between our create attempt and this stat.
		return errors.Is(err, os.ErrNotExist)
	}
	if time.Since(info.ModTime()) < staleAfter {
		return false
	}
	return os.Remove(path) == nil
}
