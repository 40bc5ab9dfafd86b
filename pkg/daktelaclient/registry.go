package daktelaclient

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	internalhttp "github.com/daktela/daktela-v6-go/internal/http"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// Registry shares one client per instance and token. The zero value is not
// usable; create it with NewRegistry.
type Registry struct {
	mutex   sync.Mutex
	clients map[string]daktela.Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]daktela.Client)}
}

// RegistryKey returns the key under which a client for instance and token
// is stored. The instance is normalised first.
func RegistryKey(instance, token string) string {
	sum := sha256.Sum256([]byte(internalhttp.NormalizeURL(instance) + token))

	return hex.EncodeToString(sum[:])
}

// Get returns the client stored for instance and token.
func (r *Registry) Get(instance, token string) (daktela.Client, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	client, ok := r.clients[RegistryKey(instance, token)]

	return client, ok
}

// Put stores client, replacing any previous one.
func (r *Registry) Put(instance, token string, client daktela.Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.clients[RegistryKey(instance, token)] = client
}

// GetOrCreate returns the stored client for the instance and token of
// config or creates one with New. Other settings of config only apply
// when a client is created.
func (r *Registry) GetOrCreate(config *daktela.Config) (daktela.Client, error) {
	if config == nil {
		return nil, daktela.ErrConfigRequired
	}

	key := RegistryKey(config.Instance, config.AccessToken)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if client, ok := r.clients[key]; ok {
		return client, nil
	}

	client, err := New(config)
	if err != nil {
		return nil, err
	}

	r.clients[key] = client

	return client, nil
}

// Remove drops the client stored for instance and token and reports
// whether there was one.
func (r *Registry) Remove(instance, token string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := RegistryKey(instance, token)
	if _, ok := r.clients[key]; !ok {
		return false
	}

	delete(r.clients, key)

	return true
}

// Len returns the number of stored clients.
func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.clients)
}
