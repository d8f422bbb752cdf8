package mutate

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/cache"
)

// Refresh fetches the entity behind key and commits it into the cache.
// Each fetch is tagged with the key's generation at issue time; a response
// arriving after a newer fetch (or a direct write) superseded it is
// discarded, so a slow stale response can never overwrite newer data.
func (c *Coordinator) Refresh(ctx context.Context, key cache.Key) error {
	gen := c.store.Begin(key)

	data, err := c.fetch(ctx, key)
	if err != nil {
		c.store.Fail(key, gen, err)
		return err
	}
	c.store.Commit(key, gen, data)
	return nil
}

// EnsureFresh refreshes the key only when its entry is idle, failed, or
// marked stale. Invalidating a key twice therefore still costs exactly one
// refetch.
func (c *Coordinator) EnsureFresh(ctx context.Context, key cache.Key) error {
	if !c.store.NeedsFetch(key) {
		return nil
	}
	return c.Refresh(ctx, key)
}

func (c *Coordinator) fetch(ctx context.Context, key cache.Key) (any, error) {
	switch key.Kind {
	case cache.KindProjects:
		return c.api.FetchProjects(ctx)
	case cache.KindTasks:
		return c.api.FetchTasks(ctx, key.ProjectID)
	case cache.KindTask:
		return c.api.FetchTask(ctx, key.ProjectID, key.TaskID)
	case cache.KindAllTasks:
		return c.api.FetchAllTasks(ctx)
	case cache.KindAssignees:
		return c.api.FetchAssignees(ctx)
	case cache.KindProfile:
		return c.api.FetchUserProfile(ctx)
	}
	return nil, apperr.Newf(apperr.InternalError, "no fetcher for cache kind %q", key.Kind)
}

// refreshTasks re-fetches a project's task list after a mutation settles.
// Errors surface through the cache entry; the mutation's own outcome has
// already been reported.
func (c *Coordinator) refreshTasks(ctx context.Context, projectID string) {
	_ = c.Refresh(ctx, cache.TasksKey(projectID))
}
