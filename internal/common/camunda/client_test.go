package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/retry"
)

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(fmt.Errorf("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, isRetryableZeebeError(fmt.Errorf("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(fmt.Errorf("rpc error: code = NotFound desc = job not found")))
}

func TestMapZeebeError(t *testing.T) {
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(mapZeebeError(fmt.Errorf("deadline exceeded"), "complete job")))
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(mapZeebeError(fmt.Errorf("job not found"), "complete job")))
	assert.Equal(t, errors.ErrCodeUnauthenticated, errors.CodeOf(mapZeebeError(fmt.Errorf("unauthorized"), "deploy")))
	assert.Equal(t, errors.ErrCodeTransport, errors.CodeOf(mapZeebeError(fmt.Errorf("boom"), "deploy")))
}

func TestExecuteWithRetry(t *testing.T) {
	var delays []time.Duration
	c := &Client{config: &ClientConfig{Retry: retry.Policy{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}}}

	calls := 0
	err := c.ExecuteWithRetry(context.Background(), "publish message", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("code = Unavailable")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{time.Second}, delays)

	calls = 0
	err = c.ExecuteWithRetry(context.Background(), "publish message", func(ctx context.Context) error {
		calls++
		return fmt.Errorf("job not found")
	})
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
	assert.Equal(t, 1, calls)
}

func TestConfigFrom(t *testing.T) {
	cc := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", Plaintext: true, RequestTimeout: 1500})
	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.RequestTimeout)
	assert.Equal(t, 3, cc.Retry.MaxRetries)
}
