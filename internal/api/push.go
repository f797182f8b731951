package api

import (
	"context"

	"github.com/nao1215/adoperator/internal/model"
)

// SubscribePush registers a push subscription for the user.
func (c *Client) SubscribePush(ctx context.Context, sub model.PushSubscription) error {
	return c.post(ctx, "/push/subscribe", sub, nil)
}
