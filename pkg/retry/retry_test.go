package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(retries int) *Config {
	return &Config{
		MaxRetries:    retries,
		BackoffFactor: 2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestRetrier_Do(t *testing.T) {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")

	tests := []struct {
		name         string
		failures     int
		permanent    bool
		retries      int
		wantErr      error
		wantAttempts int
	}{
		{name: "first try", failures: 0, retries: 3, wantAttempts: 1},
		{name: "after retries", failures: 2, retries: 3, wantAttempts: 3},
		{name: "budget spent", failures: 10, retries: 2, wantErr: errTemp, wantAttempts: 3},
		{name: "permanent stops", failures: 10, permanent: true, retries: 5, wantErr: errFatal, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := NewRetrier(fastConfig(tt.retries)).Do(context.Background(), func() error {
				attempts++
				if attempts > tt.failures {
					return nil
				}
				if tt.permanent {
					return Permanent(errFatal)
				}
				return errTemp
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second

	attempts := 0
	err := NewRetrier(cfg).Do(ctx, func() error {
		attempts++
		cancel()
		return errors.New("temporary")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
