package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"events/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cleanerStub struct {
	calls atomic.Int32
	panic bool
}

func (c *cleanerStub) CleanupOutbox(ctx context.Context) {
	c.calls.Add(1)
	if c.panic {
		panic("boom")
	}
}

func TestRegisterCleanupOutboxJob_InvalidSpec(t *testing.T) {
	c := NewController(context.Background(), zap.NewNop().Sugar())
	err := c.RegisterCleanupOutboxJob(&cleanerStub{}, config.Cron{Schedule: "not a cron"})
	assert.Error(t, err)
}

func TestRegisterCleanupOutboxJob_Runs(t *testing.T) {
	c := NewController(context.Background(), zap.NewNop().Sugar())
	stub := &cleanerStub{}
	require.NoError(t, c.RegisterCleanupOutboxJob(stub, config.Cron{Interval: "@every 1s"}))

	c.Start()
	defer c.Stop()

	assert.Eventually(t, func() bool { return stub.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestRegisterCleanupOutboxJob_DefaultSpec(t *testing.T) {
	c := NewController(context.Background(), zap.NewNop().Sugar())
	require.NoError(t, c.RegisterCleanupOutboxJob(&cleanerStub{}, config.Cron{}))

	entries := c.scheduler.c.Entries()
	require.Len(t, entries, 1)
}

func TestCleanupOutboxJob_RecoversPanic(t *testing.T) {
	stub := &cleanerStub{panic: true}
	job := NewCleanupOutboxJob(stub, zap.NewNop().Sugar())

	assert.NotPanics(t, func() { job.Run(context.Background()) })
	assert.Equal(t, int32(1), stub.calls.Load())
}
