// Package daktelaclient provides the primary entry point for constructing a
// Daktela V6 API client that implements the daktela.Client interface.
//
// It layers configuration, HTTP transport and authentication on top of the
// request and response types defined in the daktela package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/daktela/daktela-v6-go/pkg/daktela"
//	  "github.com/daktela/daktela-v6-go/pkg/daktelaclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Instance and token, default retry and rate limit policies.
//	  cli, err := daktelaclient.NewWithToken("mycompany.daktela.com", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or from DAKTELA_INSTANCE, DAKTELA_ACCESS_TOKEN and friends.
//	  cli, err = daktelaclient.NewFromEnv()
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := cli.Users().List(ctx, daktela.NewListParams())
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Environment
//
// LoadConfig reads DAKTELA_INSTANCE, DAKTELA_ACCESS_TOKEN (or the older
// DAKTELA_ACCESSTOKEN), DAKTELA_AUTH_METHOD, DAKTELA_TIMEOUT,
// DAKTELA_USER_AGENT_SUFFIX, DAKTELA_MAX_RETRIES, DAKTELA_SKIP_TLS_VERIFY and
// DAKTELA_DEBUG. A .env file in the working directory is loaded first when
// present. DAKTELA_TIMEOUT takes seconds or a Go duration.
//
// # Sharing clients
//
// Registry keeps one client per instance and token for callers that serve
// several tenants. It is owned by the caller; the package keeps no global
// state.
package daktelaclient
