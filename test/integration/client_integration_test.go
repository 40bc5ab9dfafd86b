//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/daktela/daktela-v6-go/pkg/daktelaclient"
	"github.com/stretchr/testify/suite"
)

// ClientIntegrationTestSuite exercises the library against a live instance.
type ClientIntegrationTestSuite struct {
	suite.Suite
	config *TestConfig
	client daktela.Client
	ctx    context.Context //nolint:containedctx // shared by the suite's tests
	cancel context.CancelFunc
}

// SetupSuite connects to the instance named by the environment.
func (s *ClientIntegrationTestSuite) SetupSuite() {
	s.config = LoadTestConfig()
	s.config.SkipIfMissingConfig(s.T())

	client, err := daktelaclient.NewWithToken(s.config.Instance, s.config.AccessToken)
	s.Require().NoError(err)

	s.client = client
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
}

// TearDownSuite releases the suite context.
func (s *ClientIntegrationTestSuite) TearDownSuite() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *ClientIntegrationTestSuite) TestHealth() {
	s.True(s.client.Ping(s.ctx))

	status := s.client.HealthCheck(s.ctx)
	s.True(status.Healthy, status.Error)
	s.Equal(200, status.StatusCode)
	s.Positive(status.LatencyMs)
}

func (s *ClientIntegrationTestSuite) TestWhoAmI() {
	env, err := s.client.Send(s.ctx, "", "whoim", nil, nil)
	s.Require().NoError(err)
	s.True(env.IsSuccess())

	name, err := env.Value().Path("user", "name")
	s.Require().NoError(err)
	s.NotEmpty(name.String())
}

func (s *ClientIntegrationTestSuite) TestListUsers() {
	params := daktela.NewListParams()
	params.Take = 5
	params.Fields = []string{"name", "title"}

	env, err := s.client.Users().List(s.ctx, params)
	s.Require().NoError(err)
	s.Require().True(env.IsSuccess())

	users, err := daktela.DecodeList[daktela.User](env)
	s.Require().NoError(err)
	s.LessOrEqual(len(users), 5)

	if len(users) == 0 {
		return
	}

	single, err := s.client.Users().Get(s.ctx, users[0].Name)
	s.Require().NoError(err)

	user, err := daktela.DecodeOne[daktela.User](single)
	s.Require().NoError(err)
	s.Equal(users[0].Name, user.Name)
}

func (s *ClientIntegrationTestSuite) TestIterateTickets() {
	iterator := s.client.Tickets().Iterate(s.ctx,
		daktela.NewListParams().WithSort("edited", daktela.SortDesc),
		daktela.WithPageSize(10),
		daktela.WithMaxItems(25))

	count, err := iterator.Count()
	s.Require().NoError(err)
	s.LessOrEqual(count, 25)
}

func (s *ClientIntegrationTestSuite) TestTicketLifecycle() {
	s.config.SkipUnlessWrites(s.T())

	created, err := s.client.Tickets().Create(s.ctx, map[string]any{
		"title": GenerateTestName("integration"),
		"stage": string(daktela.TicketStageOpen),
	})
	s.Require().NoError(err)
	s.Require().True(created.IsSuccess(), "create failed: %v", created.Errors)

	ticket, err := daktela.DecodeOne[daktela.Ticket](created)
	s.Require().NoError(err)
	s.Require().NotZero(ticket.Name)

	name := ticket.Name.String()

	defer func() {
		_, _ = s.client.Tickets().Delete(s.ctx, name)
	}()

	updated, err := s.client.Tickets().Update(s.ctx, name, map[string]any{"stage": "CLOSE"})
	s.Require().NoError(err)
	s.True(updated.IsSuccess(), "update failed: %v", updated.Errors)

	deleted, err := s.client.Tickets().Delete(s.ctx, name)
	s.Require().NoError(err)
	s.True(deleted.IsSuccess(), "delete failed: %v", deleted.Errors)
}

func TestClientIntegration(t *testing.T) {
	suite.Run(t, new(ClientIntegrationTestSuite))
}
