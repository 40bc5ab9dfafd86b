package client

import (
	"context"
	"fmt"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// ResourceClient implements daktela.ResourceClient for one model.
type ResourceClient struct {
	executor *Client
	model    string
}

// NewResourceClient creates a client for model.
func NewResourceClient(executor *Client, model string) *ResourceClient {
	return &ResourceClient{
		executor: executor,
		model:    model,
	}
}

// Model implements daktela.ResourceClient.Model.
func (c *ResourceClient) Model() string {
	return c.model
}

// Get implements daktela.ResourceClient.Get.
func (c *ResourceClient) Get(ctx context.Context, name string, fields ...string) (*daktela.Envelope, error) {
	req := daktela.NewReadSingleRequest(c.model, name).WithFields(fields...)

	envelope, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting %s %q: %w", c.model, name, err)
	}

	return envelope, nil
}

// List implements daktela.ResourceClient.List.
func (c *ResourceClient) List(ctx context.Context, params *daktela.ListParams) (*daktela.Envelope, error) {
	req := params.ApplyTo(daktela.NewReadRequest(c.model))

	envelope, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.model, err)
	}

	return envelope, nil
}

// All implements daktela.ResourceClient.All.
func (c *ResourceClient) All(ctx context.Context, params *daktela.ListParams) (*daktela.Envelope, error) {
	req := params.ApplyTo(daktela.NewReadAllRequest(c.model))

	envelope, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing all %s: %w", c.model, err)
	}

	return envelope, nil
}

// Iterate implements daktela.ResourceClient.Iterate.
func (c *ResourceClient) Iterate(ctx context.Context, params *daktela.ListParams, opts ...daktela.PaginationOption) *daktela.PaginationIterator {
	req := params.ApplyTo(daktela.NewReadRequest(c.model))

	return c.executor.Iterate(ctx, req, opts...)
}

// Create implements daktela.ResourceClient.Create.
func (c *ResourceClient) Create(ctx context.Context, attributes map[string]any) (*daktela.Envelope, error) {
	req := daktela.NewCreateRequest(c.model).AddAttributes(attributes)

	envelope, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.model, err)
	}

	return envelope, nil
}

// Update implements daktela.ResourceClient.Update.
func (c *ResourceClient) Update(ctx context.Context, name string, attributes map[string]any) (*daktela.Envelope, error) {
	req := daktela.NewUpdateRequest(c.model, name).AddAttributes(attributes)

	envelope, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("updating %s %q: %w", c.model, name, err)
	}

	return envelope, nil
}

// Delete implements daktela.ResourceClient.Delete.
func (c *ResourceClient) Delete(ctx context.Context, name string) (*daktela.Envelope, error) {
	envelope, err := c.executor.Execute(ctx, daktela.NewDeleteRequest(c.model, name))
	if err != nil {
		return nil, fmt.Errorf("deleting %s %q: %w", c.model, name, err)
	}

	return envelope, nil
}

var _ daktela.ResourceClient = (*ResourceClient)(nil)
