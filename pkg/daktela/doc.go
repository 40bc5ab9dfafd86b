// Package daktela provides types, interfaces, and helpers for working with the
// Daktela V6 REST API.
//
// # Overview
//
// The daktela package defines the request description (Request), the parsed
// response (Envelope), the retry and rate limit policies, the pagination
// cursor and the error taxonomy. A concrete client is provided by the
// daktelaclient package, which wires configuration, transport and
// authentication. Most consumers import daktelaclient to construct a client
// and then describe operations with the Request builders exposed here.
//
// Getting a client
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
//	  cli, err := daktelaclient.New(&daktela.Config{
//	    Instance:    "mycompany.daktela.com",
//	    AccessToken: "token",
//	    RetryPolicy: daktela.DefaultRetryPolicy(),
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  req := daktela.NewReadRequest("tickets").
//	    AddFilter("stage", daktela.OpEqual, daktela.TicketStageOpen).
//	    AddSort("edited", daktela.SortDesc).
//	    WithTake(50)
//
//	  env, err := cli.Execute(ctx, req)
//	  if err != nil { log.Fatal(err) }
//	  _ = env.Items()
//	}
//
// # Pagination
//
// Iterate returns a PaginationIterator. Its cursors pull pages lazily:
//
//	it := cli.Iterate(ctx, daktela.NewReadRequest("users"), daktela.WithPageSize(50))
//	items := it.Items()
//	for items.HasNext() {
//	  user, err := items.Next()
//	  if err != nil { break }
//	  _ = user
//	}
//
// Every cursor and every helper such as Count or ToSlice fetches again from
// offset zero.
//
// # Errors
//
// RequestError covers transport failures, exhausted retries and undecodable
// bodies. NotFoundError, RateLimitError and UnknownRequestKindError unwrap to
// a RequestError, so errors.As with *RequestError matches all of them. Use
// IsNotFound, IsRateLimited and RetryAfter to branch on specific cases.
// Non-2xx responses that are not retried are not errors: inspect
// Envelope.HTTPStatus and Envelope.Errors.
//
// # Interceptors
//
// InterceptorChain runs hooks around every physical attempt, retries
// included. The package ships logging, header, throttling and metrics
// interceptors.
package daktela
