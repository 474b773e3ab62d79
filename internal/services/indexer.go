package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/redislock"
	"github.com/yungbote/docqa-backend/internal/rag"
)

// IndexBuilder is satisfied by *rag.Builder.
type IndexBuilder interface {
	Build(ctx context.Context, dir, namespace string) (*rag.BuildStats, error)
}

// FolderLocker serializes rebuilds of one folder across processes.
type FolderLocker interface {
	Lock(ctx context.Context, folder string) (unlock func(), err error)
}

type IndexerService interface {
	Rebuild(ctx context.Context, u *types.User) (*rag.BuildStats, error)
	RebuildFolder(ctx context.Context, folder string) (*rag.BuildStats, error)
	// OnFolderChanged is the folder watcher callback.
	OnFolderChanged(ctx context.Context, folder string)
}

type indexerService struct {
	log     *logger.Logger
	folders folderstore.Store
	builder IndexBuilder
	locker  FolderLocker
	timeout time.Duration
	group   singleflight.Group
	running sync.Map // folder -> *sync.Mutex
}

// NewIndexerService builds indexes synchronously. locker may be nil.
func NewIndexerService(log *logger.Logger, folders folderstore.Store, builder IndexBuilder, locker FolderLocker, timeout time.Duration) IndexerService {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &indexerService{
		log:     log.With("service", "IndexerService"),
		folders: folders,
		builder: builder,
		locker:  locker,
		timeout: timeout,
	}
}

func (s *indexerService) Rebuild(ctx context.Context, u *types.User) (*rag.BuildStats, error) {
	if u == nil {
		return nil, fmt.Errorf("rebuild index: user is nil")
	}
	return s.RebuildFolder(ctx, u.FolderName)
}

// RebuildFolder coalesces callers that arrive before a build has started into that build.
// A caller arriving while a build is already running gets the next one, so its files are always
// part of the index it waits for.
func (s *indexerService) RebuildFolder(ctx context.Context, folder string) (*rag.BuildStats, error) {
	dir, err := s.folders.FolderPath(folder)
	if err != nil {
		return nil, err
	}

	ch := s.group.DoChan(folder, func() (any, error) {
		mu := s.folderMutex(folder)
		mu.Lock()
		defer mu.Unlock()
		s.group.Forget(folder)

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if s.locker != nil {
			unlock, err := s.locker.Lock(bctx, folder)
			if err != nil {
				return nil, fmt.Errorf("lock folder %s: %w", folder, err)
			}
			defer unlock()
		}
		return s.builder.Build(bctx, dir, folder)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*rag.BuildStats), nil
	}
}

func (s *indexerService) OnFolderChanged(ctx context.Context, folder string) {
	stats, err := s.RebuildFolder(ctx, folder)
	if err != nil {
		s.log.Warn("reindex after folder change failed", "folder", folder, "error", err)
		return
	}
	s.log.Info("reindexed after folder change", "folder", folder, "chunks", stats.Chunks)
}

func (s *indexerService) folderMutex(folder string) *sync.Mutex {
	v, _ := s.running.LoadOrStore(folder, &sync.Mutex{})
	return v.(*sync.Mutex)
}

type redisFolderLocker struct {
	log    *logger.Logger
	locker *redislock.Locker
}

func NewRedisFolderLocker(log *logger.Logger, locker *redislock.Locker) FolderLocker {
	return &redisFolderLocker{log: log.With("service", "RedisFolderLocker"), locker: locker}
}

func (r *redisFolderLocker) Lock(ctx context.Context, folder string) (func(), error) {
	lk, err := r.locker.Acquire(ctx, "index:"+folder)
	if err != nil {
		return nil, err
	}
	return func() {
		// release must run even when the build context has expired
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lk.Release(rctx); err != nil {
			r.log.Warn("release index lock", "folder", folder, "error", err)
		}
	}, nil
}
