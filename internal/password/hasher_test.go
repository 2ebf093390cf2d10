package password

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher()

	stored, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	assert.True(t, h.Verify("correct horse battery staple", stored))
	assert.False(t, h.Verify("correct horse battery stale", stored))
	assert.False(t, h.Verify("", stored))
}

func TestHasher_Hash_UniqueSalts(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("password123")
	require.NoError(t, err)
	second, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("password123", first))
	assert.True(t, h.Verify("password123", second))
}

func TestHasher_Verify_MalformedStored(t *testing.T) {
	h := NewHasher()

	tests := []struct {
		name   string
		stored string
	}{
		{name: "empty", stored: ""},
		{name: "not base64", stored: "%%%not-base64%%%"},
		{name: "too short", stored: base64.StdEncoding.EncodeToString(make([]byte, 16))},
		{name: "salt only", stored: base64.StdEncoding.EncodeToString(make([]byte, saltLength))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, h.Verify("whatever", tt.stored))
		})
	}
}

func TestHasher_Verify_BitFlip(t *testing.T) {
	h := NewHasher()

	stored, err := h.Hash("password123")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(stored)
	require.NoError(t, err)

	// flip one bit in the derived key portion
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	assert.False(t, h.Verify("password123", tampered))
}
