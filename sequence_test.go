package chromakey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundPolicy_Index(t *testing.T) {
	assert.Equal(t, 3, PolicyLoop.Index(23, 10))
	assert.Equal(t, 6, PolicyReverse.Index(23, 10))
	assert.Equal(t, 0, PolicyStatic.Index(23, 10))

	var got []int
	for i := 0; i < 8; i++ {
		got = append(got, PolicyPingPong.Index(i, 4))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 2, 1, 0, 1}, got)

	for _, p := range []BackgroundPolicy{PolicyLoop, PolicyStatic, PolicyReverse, PolicyPingPong} {
		assert.Equal(t, -1, p.Index(5, 0), p.String())
		for i := 0; i < 50; i++ {
			assert.Equal(t, 0, p.Index(i, 1), p.String())
			idx := p.Index(i, 7)
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, 7)
		}
	}
}

func TestBackgroundPolicy_reverseMirrorsLoop(t *testing.T) {
	for m := 1; m < 6; m++ {
		for i := 0; i < 20; i++ {
			assert.Equal(t, m-1-PolicyLoop.Index(i, m), PolicyReverse.Index(i, m))
		}
	}
}

func TestParseBackgroundPolicy(t *testing.T) {
	for s, want := range map[string]BackgroundPolicy{
		"":          PolicyLoop,
		"loop":      PolicyLoop,
		"Static":    PolicyStatic,
		" reverse ": PolicyReverse,
		"ping-pong": PolicyPingPong,
		"pingpong":  PolicyPingPong,
	} {
		p, err := ParseBackgroundPolicy(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, p, s)
	}

	_, err := ParseBackgroundPolicy("shuffle")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	var p BackgroundPolicy
	require.NoError(t, p.UnmarshalText([]byte("reverse")))
	assert.Equal(t, PolicyReverse, p)
	b, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "reverse", string(b))
}
