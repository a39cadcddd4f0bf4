package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(attempts int) DialPolicy {
	return DialPolicy{
		Attempts: attempts,
		Delay:    time.Millisecond,
		MaxDelay: 2 * time.Millisecond,
	}
}

func TestTargets(t *testing.T) {
	p := testPolicy(1)

	assert.Equal(t,
		[]string{"localhost:5432", "127.0.0.1:5432"},
		p.Targets("localhost:5432"))
	assert.Equal(t,
		[]string{"db.internal:5432"},
		p.Targets("db.internal:5432"))
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := testPolicy(5)

	calls := 0
	err := p.Do("db.internal:5432", func(target string) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAllCandidates(t *testing.T) {
	p := testPolicy(2)

	var targets []string
	wantErr := errors.New("connection refused")
	err := p.Do("localhost:5432", func(target string) error {
		targets = append(targets, target)
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	// 2 attempts against each of the two candidates
	assert.Equal(t, []string{
		"localhost:5432", "localhost:5432",
		"127.0.0.1:5432", "127.0.0.1:5432",
	}, targets)
}

func TestDoClampsZeroAttempts(t *testing.T) {
	p := testPolicy(0)

	calls := 0
	err := p.Do("db.internal:5432", func(target string) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
