package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/infradash/internal/resource"
)

// ConnectionStatus pings the backend. delay is forwarded as a millisecond hint;
// the backend answers "connecting" for short delays. Only ctx bounds the call.
func (c *Client) ConnectionStatus(ctx context.Context, delay time.Duration) (*resource.ConnectionStatus, error) {
	return fetch[resource.ConnectionStatus](ctx, c, "/resources/connection-status", delayQuery(delay), false)
}

// InfrastructureStatus fetches the aggregate document covering every family.
func (c *Client) InfrastructureStatus(ctx context.Context) (*resource.InfrastructureStatus, error) {
	return fetch[resource.InfrastructureStatus](ctx, c, "/resources/status", nil, true)
}

// Compute fetches the instance list. An absent body yields a nil slice.
func (c *Client) Compute(ctx context.Context) ([]resource.Instance, error) {
	list, err := fetch[[]resource.Instance](ctx, c, "/resources/ec2", nil, true)
	if err != nil || list == nil {
		return nil, err
	}
	if *list == nil {
		return []resource.Instance{}, nil
	}
	return *list, nil
}

func (c *Client) LoadBalancer(ctx context.Context) (*resource.LoadBalancer, error) {
	return fetch[resource.LoadBalancer](ctx, c, "/resources/alb", nil, true)
}

func (c *Client) Database(ctx context.Context) (*resource.Database, error) {
	return fetch[resource.Database](ctx, c, "/resources/rds", nil, true)
}

func (c *Client) Storage(ctx context.Context) (*resource.Bucket, error) {
	return fetch[resource.Bucket](ctx, c, "/resources/s3", nil, true)
}

func (c *Client) ContentDelivery(ctx context.Context) (*resource.Distribution, error) {
	return fetch[resource.Distribution](ctx, c, "/resources/cloudfront", nil, true)
}

func (c *Client) Network(ctx context.Context) (*resource.Network, error) {
	return fetch[resource.Network](ctx, c, "/resources/vpc", nil, true)
}

// Health fetches the backend's component health report.
func (c *Client) Health(ctx context.Context) (*resource.HealthReport, error) {
	return fetch[resource.HealthReport](ctx, c, "/resources/health", nil, true)
}

// Family fetches the snapshot of a single family.
func (c *Client) Family(ctx context.Context, f resource.Family) (resource.Snapshots, error) {
	var (
		s   resource.Snapshots
		err error
	)
	switch f {
	case resource.FamilyCompute:
		s.Compute, err = c.Compute(ctx)
	case resource.FamilyLoadBalancer:
		s.LoadBalancer, err = c.LoadBalancer(ctx)
	case resource.FamilyDatabase:
		s.Database, err = c.Database(ctx)
	case resource.FamilyNetwork:
		s.Network, err = c.Network(ctx)
	case resource.FamilyStorage:
		s.Storage, err = c.Storage(ctx)
	case resource.FamilyContentDelivery:
		s.ContentDelivery, err = c.ContentDelivery(ctx)
	default:
		return s, fmt.Errorf("unknown resource family %d", int(f))
	}
	return s, err
}
