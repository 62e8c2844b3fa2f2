package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/elector"
	"github.com/arloliu/elector/memtree"
)

func TestStatusRouter(t *testing.T) {
	tree := memtree.New()
	cfg := elector.TestConfig()
	registry := prometheus.NewRegistry()

	session, err := elector.NewSession(&cfg, elector.Shared(tree.NewClient()),
		elector.WithMetrics(elector.NewPrometheusMetrics(registry, "elector")))
	require.NoError(t, err)
	require.NoError(t, session.Connect(t.Context()))

	router := newStatusRouter(session, registry)

	t.Run("status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var snap map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		require.Equal(t, true, snap["isLeader"])
		require.Equal(t, session.CandidateID(), snap["candidateId"])
		require.Equal(t, "Leader", snap["phase"])
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "elector_session_leadership_changes_total")
	})

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, session.Disconnect(context.Background()))

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestLoadConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "elector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"backend: zookeeper",
		"servers: [\"zk-0:2181\"]",
		"electionPath: /from/file",
	}, "\n")), 0o600))

	cfg, err := loadConfig(&runOptions{
		configPath: path,
		servers:    []string{"etcd-0:2379"},
		backend:    elector.BackendEtcd,
	})
	require.NoError(t, err)
	require.Equal(t, "/from/file", cfg.ElectionPath)
	require.Equal(t, []string{"etcd-0:2379"}, cfg.Servers)
	require.Equal(t, elector.BackendEtcd, cfg.Backend)

	_, err = loadConfig(&runOptions{path: "relative"})
	require.ErrorIs(t, err, elector.ErrInvalidConfig)
}
