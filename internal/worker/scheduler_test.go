package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScanner struct{ calls int }

func (s *countingScanner) Scan(context.Context) (int, error) {
	s.calls++
	return 0, nil
}

func TestStartScheduler_EmptySpecDisables(t *testing.T) {
	c, err := StartScheduler(context.Background(), "", nil, &countingScanner{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStartScheduler_InvalidSpec(t *testing.T) {
	_, err := StartScheduler(context.Background(), "not a cron spec", nil, &countingScanner{})
	assert.Error(t, err)
}

func TestStartScheduler_RegistersScan(t *testing.T) {
	c, err := StartScheduler(context.Background(), "0 8 * * *", nil, &countingScanner{})
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
