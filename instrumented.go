package elector

import (
	"context"
	"time"

	"github.com/arloliu/elector/types"
)

// instrumentedTree records latency and outcome of every tree operation.
type instrumentedTree struct {
	types.TreeClient
	metrics types.TreeMetrics
}

func (t instrumentedTree) record(op string, start time.Time, err error) {
	t.metrics.RecordTreeOperation(op, time.Since(start).Seconds(), err == nil)
}

func (t instrumentedTree) MkdirAll(ctx context.Context, path string) error {
	start := time.Now()
	err := t.TreeClient.MkdirAll(ctx, path)
	t.record("mkdirp", start, err)

	return err
}

func (t instrumentedTree) CreateEphemeralSequential(ctx context.Context, prefix string, data []byte) (string, error) {
	start := time.Now()
	p, err := t.TreeClient.CreateEphemeralSequential(ctx, prefix, data)
	t.record("create", start, err)

	return p, err
}

func (t instrumentedTree) Children(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	children, err := t.TreeClient.Children(ctx, path)
	t.record("children", start, err)

	return children, err
}

func (t instrumentedTree) ChildrenW(ctx context.Context, path string) ([]string, <-chan types.TreeEvent, error) {
	start := time.Now()
	children, watch, err := t.TreeClient.ChildrenW(ctx, path)
	t.record("children", start, err)

	return children, watch, err
}

func (t instrumentedTree) ExistsW(ctx context.Context, path string) (bool, <-chan types.TreeEvent, error) {
	start := time.Now()
	exists, watch, err := t.TreeClient.ExistsW(ctx, path)
	t.record("exists", start, err)

	return exists, watch, err
}

func (t instrumentedTree) GetData(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := t.TreeClient.GetData(ctx, path)
	t.record("get", start, err)

	return data, err
}

func (t instrumentedTree) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := t.TreeClient.Delete(ctx, path)
	t.record("delete", start, err)

	return err
}
