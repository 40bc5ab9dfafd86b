package client_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/daktela/daktela-v6-go/internal/auth"
	"github.com/daktela/daktela-v6-go/internal/client"
	internalhttp "github.com/daktela/daktela-v6-go/internal/http"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// recordedRequest is one call seen by fakeAPI.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

// fakeAPI records every call and delegates the answer to a handler.
type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) (*fakeAPI, *client.Client) {
	t.Helper()

	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorded := recordedRequest{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  request.URL.Query(),
		}

		if request.Body != nil {
			_ = json.NewDecoder(request.Body).Decode(&recorded.Body)
		}

		api.mu.Lock()
		api.requests = append(api.requests, recorded)
		api.mu.Unlock()

		handler(writer, request)
	}))
	t.Cleanup(api.server.Close)

	return api, newTestClient(api.server.URL)
}

func (a *fakeAPI) calls() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]recordedRequest{}, a.requests...)
}

// newTestClient creates a dispatcher without retries for baseURL.
func newTestClient(baseURL string) *client.Client {
	authenticator := auth.NewAuthenticator(daktela.AuthHeader, auth.NewStaticTokenManager("test-token"))

	return client.New(internalhttp.NewClient(baseURL, authenticator), nil)
}

// listHandler serves items page by page honouring skip and take.
func listHandler(items []interface{}) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		skip, _ := strconv.Atoi(request.URL.Query().Get("skip"))
		take, _ := strconv.Atoi(request.URL.Query().Get("take"))

		end := min(skip+take, len(items))
		page := []interface{}{}

		if skip < len(items) {
			page = items[skip:end]
		}

		writeResult(writer, http.StatusOK, page, len(items))
	}
}

func writeResult(writer http.ResponseWriter, status int, data interface{}, total int) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]interface{}{
		"result": map[string]interface{}{"data": data, "total": total},
		"error":  []interface{}{},
	})
}

func writeErrors(writer http.ResponseWriter, status int, errs ...string) {
	list := make([]interface{}, 0, len(errs))
	for _, e := range errs {
		list = append(list, e)
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]interface{}{
		"result": map[string]interface{}{"data": []interface{}{}, "total": 0},
		"error":  list,
	})
}

func makeItems(n int) []interface{} {
	items := make([]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, map[string]interface{}{"name": fmt.Sprintf("item-%d", i)})
	}

	return items
}

func names(t *testing.T, items []interface{}) []string {
	t.Helper()

	out := make([]string, 0, len(items))

	for _, item := range items {
		name, err := daktela.NewValue(item).Field("name")
		if err != nil {
			t.Fatalf("item without name: %v", err)
		}

		out = append(out, name.String())
	}

	return out
}
