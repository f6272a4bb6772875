// Package cache implementa o serviço de cache em memória com expiração
// por tempo usado para memoizar o dataset carregado do Drive. É injetado
// tanto no caminho de requisição quanto na rotina de verificação em
// segundo plano, em vez de depender de estado global.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache é um cache chave-valor com TTL. Seguro para uso concorrente;
// leituras durante uma invalidação podem observar o valor antigo ou o
// novo, sem garantia mais forte.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get devolve o valor da chave e se ele existe e ainda não expirou.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// SetWithTTL grava o valor com expiração relativa a agora.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Invalidate descarta todas as entradas.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
