package controller

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Activate deletes every generation except the current one and then takes
// control of requests. A failed deletion leaves the controller installed.
func (c *Controller) Activate(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "controller.activate")
	defer span.End()

	if err := c.transition(PhaseActivating, PhaseInstalled); err != nil {
		return err
	}

	deleted, err := c.deleteGenerations(ctx, c.Generation())
	span.SetAttributes(attribute.StringSlice("activate.deleted", deleted))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		_ = c.transition(PhaseInstalled, PhaseActivating)
		return err
	}

	return c.transition(PhaseActivated, PhaseActivating)
}

// deleteGenerations removes every generation not listed in keep and returns
// the deleted names.
func (c *Controller) deleteGenerations(ctx context.Context, keep ...string) ([]string, error) {
	names, err := c.storage.Generations(ctx)
	if err != nil {
		return nil, cacheErr(err)
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}

	deleted := make([]string, 0)
	for _, name := range names {
		if _, ok := keepSet[name]; ok {
			continue
		}
		c.logger.Info(ctx, "deleting old cache", "name", name)
		if _, err := c.storage.Delete(ctx, name); err != nil {
			return deleted, cacheErr(err)
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}
