package secret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvProvider_Current(t *testing.T) {
	p := NewEnvProvider("s2", "s1")

	current, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s2", current)
}

func TestEnvProvider_AllValid(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		expected []string
	}{
		{name: "rotation in progress", current: "s2", previous: "s1", expected: []string{"s2", "s1"}},
		{name: "no previous", current: "s2", previous: "", expected: []string{"s2"}},
		{name: "previous equals current", current: "s2", previous: "s2", expected: []string{"s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEnvProvider(tt.current, tt.previous)

			secrets, err := p.AllValid(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, secrets)
		})
	}
}
