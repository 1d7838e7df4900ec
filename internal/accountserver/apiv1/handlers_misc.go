package apiv1

import (
	"context"
	"eudiwallet/pkg/model"
)

// Health reports this service's readiness.
func (c *Client) Health(ctx context.Context) (*model.Status, error) {
	_, span := c.tp.Start(ctx, "apiv1:Health")
	defer span.End()

	return model.ManyStatus{}.Check(), nil
}
