package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/daktela/daktela-v6-go/internal/constants"
	internalhttp "github.com/daktela/daktela-v6-go/internal/http"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// Client implements the daktela.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	logger     daktela.Logger

	// Resource clients
	users            daktela.ResourceClient
	tickets          daktela.ResourceClient
	activities       daktela.ResourceClient
	campaignsRecords daktela.ResourceClient
}

// New creates a dispatcher on top of an HTTP client.
func New(httpClient *internalhttp.Client, logger daktela.Logger) *Client {
	if logger == nil {
		logger = daktela.NullLogger{}
	}

	client := &Client{
		httpClient: httpClient,
		logger:     logger,
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.users = NewResourceClient(c, daktela.ModelUsers)
	c.tickets = NewResourceClient(c, daktela.ModelTickets)
	c.activities = NewResourceClient(c, daktela.ModelActivities)
	c.campaignsRecords = NewResourceClient(c, daktela.ModelCampaignsRecords)
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *internalhttp.Client {
	return c.httpClient
}

// Execute implements daktela.Executor. A request that was already executed
// returns its cached envelope without another call. Successful results are
// cached on the request.
func (c *Client) Execute(ctx context.Context, req *daktela.Request) (*daktela.Envelope, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", daktela.ErrInvalidArgument)
	}

	if req.IsExecuted() && req.Envelope() != nil {
		return req.Envelope(), nil
	}

	if err := req.Err(); err != nil {
		return nil, fmt.Errorf("building %s request: %w", req.Kind, err)
	}

	c.logger.Debug("Executing request", map[string]interface{}{
		"kind":   req.Kind.String(),
		"mode":   req.Mode.String(),
		"model":  req.Model,
		"object": req.ObjectName,
	})

	envelope, err := c.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	req.Complete(envelope)

	return envelope, nil
}

func (c *Client) dispatch(ctx context.Context, req *daktela.Request) (*daktela.Envelope, error) {
	switch req.Kind {
	case daktela.KindCreate:
		return c.httpClient.Post(ctx, req.Endpoint(), daktela.FlattenQuery(req.AdditionalQueryParams), req.Attributes)
	case daktela.KindUpdate:
		if req.ObjectName == "" {
			return nil, daktela.NewNotFoundError("No object name specified")
		}

		return c.httpClient.Put(ctx, req.Endpoint(), daktela.FlattenQuery(req.AdditionalQueryParams), req.Attributes)
	case daktela.KindDelete:
		if req.ObjectName == "" {
			return nil, daktela.NewNotFoundError("No object name specified")
		}

		return c.httpClient.Delete(ctx, req.Endpoint(), daktela.FlattenQuery(req.AdditionalQueryParams))
	case daktela.KindRead:
		switch req.Mode {
		case daktela.ReadSingle:
			return c.readSingle(ctx, req)
		case daktela.ReadMultiple:
			return c.httpClient.Get(ctx, req.Endpoint(), daktela.FlattenQuery(req.ListQuery(req.Skip, req.Take)))
		case daktela.ReadAll:
			return c.readAll(ctx, req)
		}
	}

	return nil, daktela.NewUnknownRequestKindError()
}

func (c *Client) readSingle(ctx context.Context, req *daktela.Request) (*daktela.Envelope, error) {
	if req.ObjectName == "" {
		return nil, daktela.NewNotFoundError("No object name specified")
	}

	return c.httpClient.Get(ctx, req.Endpoint(), daktela.FlattenQuery(req.SingleQuery()))
}

// readAll pages through a list with skip = page * take. It stops after a
// page shorter than take or after the page ceiling. A page reporting errors
// ends the read and is returned as-is unless error pages are skipped. A
// page without list data is skipped the same way and keeps the data
// gathered so far.
func (c *Client) readAll(ctx context.Context, req *daktela.Request) (*daktela.Envelope, error) {
	take := req.Take
	if take <= 0 {
		take = constants.DefaultTake
	}

	merged := []interface{}{}
	result := daktela.NewEnvelope(merged, 0, nil, 0)

	for page := 0; page < constants.ReadAllPageLimit; page++ {
		current, err := c.httpClient.Get(ctx, req.Endpoint(), daktela.FlattenQuery(req.ListQuery(page*take, take)))
		if err != nil {
			return nil, fmt.Errorf("reading page %d of %s: %w", page, req.Model, err)
		}

		if current.HasErrors() && !req.SkipErrorRequests {
			return current, nil
		}

		items, isList := current.List()
		if !isList && !req.SkipErrorRequests {
			return current, nil
		}

		merged = append(merged, items...)
		result = daktela.NewEnvelope(merged, current.Total, current.Errors, current.HTTPStatus)

		if len(items) < take {
			break
		}
	}

	c.logger.Debug("Read all finished", map[string]interface{}{
		"model": req.Model,
		"items": len(merged),
	})

	return result, nil
}

// Iterate implements daktela.Client.Iterate.
func (c *Client) Iterate(ctx context.Context, req *daktela.Request, opts ...daktela.PaginationOption) *daktela.PaginationIterator {
	return daktela.NewPaginationIterator(ctx, c, req, opts...)
}

// Ping implements daktela.HealthClient.Ping.
func (c *Client) Ping(ctx context.Context) bool {
	return c.httpClient.Ping(ctx)
}

// HealthCheck implements daktela.HealthClient.HealthCheck.
func (c *Client) HealthCheck(ctx context.Context) daktela.HealthStatus {
	return c.httpClient.HealthCheck(ctx)
}

// Send performs a raw call against an arbitrary endpoint.
func (c *Client) Send(ctx context.Context, method, endpoint string, query map[string]interface{}, body interface{}) (*daktela.Envelope, error) {
	if method == "" {
		method = http.MethodGet
	}

	return c.httpClient.Send(ctx, method, endpoint, daktela.FlattenQuery(query), body)
}

// Resource client accessors

// Resource implements daktela.ResourceClients.Resource.
func (c *Client) Resource(model string) daktela.ResourceClient {
	return NewResourceClient(c, model)
}

// Users implements daktela.ResourceClients.Users.
func (c *Client) Users() daktela.ResourceClient {
	return c.users
}

// Tickets implements daktela.ResourceClients.Tickets.
func (c *Client) Tickets() daktela.ResourceClient {
	return c.tickets
}

// Activities implements daktela.ResourceClients.Activities.
func (c *Client) Activities() daktela.ResourceClient {
	return c.activities
}

// CampaignsRecords implements daktela.ResourceClients.CampaignsRecords.
func (c *Client) CampaignsRecords() daktela.ResourceClient {
	return c.campaignsRecords
}

var _ daktela.Client = (*Client)(nil)
