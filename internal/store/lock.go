// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked writer polls the advisory file lock.
const lockRetryDelay = 20 * time.Millisecond

// pathLock serializes writers of one document: a one-slot semaphore for
// goroutines of this process and an advisory flock on "<path>.lock" for other
// processes sharing the content directory.
type pathLock struct {
	sem  chan struct{}
	file *flock.Flock
}

// locks maps absolute document paths to their lock so that every handle
// opened on the same file shares it.
var locks sync.Map

func lockFor(path string) *pathLock {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}
	l, _ := locks.LoadOrStore(key, &pathLock{
		sem:  make(chan struct{}, 1),
		file: flock.New(key + ".lock"),
	})
	return l.(*pathLock)
}

// acquire blocks until both locks are held or ctx is done.
// The returned func releases them.
func (l *pathLock) acquire(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := os.MkdirAll(filepath.Dir(l.file.Path()), 0o755); err != nil {
		<-l.sem
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	locked, err := l.file.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		<-l.sem
		if err == nil {
			err = fmt.Errorf("could not lock %s", l.file.Path())
		}
		return nil, err
	}

	return func() {
		_ = l.file.Unlock()
		<-l.sem
	}, nil
}
