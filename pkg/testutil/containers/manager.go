//go:build integration

// Package containers starts shared testcontainers for integration tests.
// Each container is started once per test binary and reused by every suite;
// suites isolate themselves with TruncateTables / FlushAll.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out lazily started, process-wide containers.
type Manager struct {
	pgOnce  sync.Once
	pg      *PostgresContainer
	rdsOnce sync.Once
	rds     *RedisContainer
	rpOnce  sync.Once
	rp      *RedpandaContainer
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// GetPostgres returns the shared Postgres container with migrations applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.pgOnce.Do(func() {
		m.pg = NewPostgresContainer(t)
	})
	if m.pg == nil {
		t.Fatal("postgres container failed to start in an earlier test")
	}
	return m.pg
}

// GetRedis returns the shared Redis container.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.rdsOnce.Do(func() {
		m.rds = NewRedisContainer(t)
	})
	if m.rds == nil {
		t.Fatal("redis container failed to start in an earlier test")
	}
	return m.rds
}

// GetRedpanda returns the shared Kafka-compatible broker.
func (m *Manager) GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	m.rpOnce.Do(func() {
		m.rp = NewRedpandaContainer(t)
	})
	if m.rp == nil {
		t.Fatal("redpanda container failed to start in an earlier test")
	}
	return m.rp
}
