package controller

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/songbook/internal/common"
)

const (
	MessageSkipWaiting = "SKIP_WAITING"
	MessageCacheURLs   = "CACHE_URLS"
	MessageClearCaches = "CLEAR_CACHES"
	MessageGetVersion  = "GET_VERSION"
)

// Message is a command sent by an application shell.
type Message struct {
	Type string   `json:"type"`
	URLs []string `json:"urls,omitempty"`
}

type Reply struct {
	Type    string         `json:"type"`
	Version string         `json:"version,omitempty"`
	Phase   string         `json:"phase"`
	Deleted []string       `json:"deleted,omitempty"`
	Report  *InstallReport `json:"report,omitempty"`
}

func (c *Controller) HandleMessage(ctx context.Context, msg Message) (*Reply, error) {
	reply := &Reply{Type: msg.Type}

	switch msg.Type {
	case MessageSkipWaiting:
		if err := c.SkipWaiting(ctx); err != nil {
			return nil, err
		}

	case MessageCacheURLs:
		report, err := c.CacheURLs(ctx, msg.URLs)
		if err != nil {
			return nil, err
		}
		reply.Report = report

	case MessageClearCaches:
		deleted, err := c.ClearCaches(ctx)
		if err != nil {
			return nil, err
		}
		reply.Deleted = deleted

	case MessageGetVersion:
		reply.Version = c.Generation()

	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownMessage, msg.Type)
	}

	reply.Phase = c.Phase().String()
	return reply, nil
}

// SkipWaiting activates an installed controller now. Already active
// controllers are left alone.
func (c *Controller) SkipWaiting(ctx context.Context) error {
	switch c.Phase() {
	case PhaseActivated, PhaseActivating:
		return nil
	case PhaseInstalled:
		return c.Activate(ctx)
	default:
		return common.ErrNotInstalled
	}
}

// CacheURLs pushes urls into the current generation, best effort.
func (c *Controller) CacheURLs(ctx context.Context, urls []string) (*InstallReport, error) {
	switch c.Phase() {
	case PhaseInstalled, PhaseActivating, PhaseActivated:
	default:
		return nil, common.ErrNotInstalled
	}
	return c.populate(ctx, urls)
}

// ClearCaches deletes every generation, including the current one. Later
// fetches repopulate the current generation on demand.
func (c *Controller) ClearCaches(ctx context.Context) ([]string, error) {
	return c.deleteGenerations(ctx)
}
