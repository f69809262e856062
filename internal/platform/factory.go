package platform

import (
	"context"

	"github.com/aretw0/quicknotes/pkg/core"
)

// New opens the store at uri and returns a loaded repository.
//
//	repo, err := platform.New("~/.quicknotes", platform.WithFormat("yaml"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Repository, error) {
	store, err := OpenStore(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}

	o := apply(opts)
	repoOpts := []core.RepositoryOption{core.WithRepositoryLogger(o.logger)}
	if o.idGenerator != nil {
		repoOpts = append(repoOpts, core.WithIDGenerator(o.idGenerator))
	}

	repo := core.NewRepository(store, repoOpts...)
	repo.Initialize(ctx)
	return repo, nil
}
