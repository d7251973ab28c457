package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/snapshot"
	"github.com/rewindkit/go-rewind/version"
)

func TestEveryNEventsPolicy(t *testing.T) {
	t.Run("zero threshold is rejected", func(t *testing.T) {
		_, err := snapshot.NewEveryNEventsPolicy(0)
		assert.Error(t, err)
	})

	t.Run("advises exactly at positive multiples of the threshold", func(t *testing.T) {
		policy, err := snapshot.NewEveryNEventsPolicy(100)
		require.NoError(t, err)

		// Version 0 means no Domain Events recorded: there is nothing
		// worth snapshotting, no matter the threshold.
		assert.False(t, policy.ShouldRecord(0))

		testcases := map[version.Version]bool{
			1:   false,
			99:  false,
			100: true,
			101: false,
			150: false,
			200: true,
			300: true,
		}

		for v, expected := range testcases {
			assert.Equal(t, expected, policy.ShouldRecord(v), "version: %d", v)
		}
	})

	t.Run("threshold of one advises on every recorded event", func(t *testing.T) {
		policy, err := snapshot.NewEveryNEventsPolicy(1)
		require.NoError(t, err)

		assert.False(t, policy.ShouldRecord(0))
		assert.True(t, policy.ShouldRecord(1))
		assert.True(t, policy.ShouldRecord(2))
	})

	t.Run("the advice is stable for the same version", func(t *testing.T) {
		policy, err := snapshot.NewEveryNEventsPolicy(10)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			assert.True(t, policy.ShouldRecord(20))
			assert.False(t, policy.ShouldRecord(21))
		}
	})
}

func TestNeverPolicy(t *testing.T) {
	policy := snapshot.NeverPolicy{}

	assert.False(t, policy.ShouldRecord(0))
	assert.False(t, policy.ShouldRecord(1))
	assert.False(t, policy.ShouldRecord(1000))
}

func TestAlwaysPolicy(t *testing.T) {
	policy := snapshot.AlwaysPolicy{}

	assert.False(t, policy.ShouldRecord(0))
	assert.True(t, policy.ShouldRecord(1))
	assert.True(t, policy.ShouldRecord(71))
}
