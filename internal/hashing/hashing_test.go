package hashing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDeterministic(t *testing.T) {
	ctx := context.Background()
	d := SHA256{}

	first, err := d.Digest(ctx, "!abc123:example.org")
	require.NoError(t, err)
	second, err := d.Digest(ctx, "!abc123:example.org")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDigestShape(t *testing.T) {
	ctx := context.Background()
	d := SHA256{}

	out, err := d.Digest(ctx, "@user:example.org")
	require.NoError(t, err)

	assert.Len(t, out, 64)
	assert.Equal(t, strings.ToLower(out), out)
	_, err = hex.DecodeString(out)
	assert.NoError(t, err)
}

func TestDigestMatchesSHA256(t *testing.T) {
	ctx := context.Background()
	d := SHA256{}

	out, err := d.Digest(ctx, "!abc123")
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("!abc123"))
	assert.Equal(t, hex.EncodeToString(sum[:]), out)
}

func TestDigestDistinguishesInputs(t *testing.T) {
	ctx := context.Background()
	d := SHA256{}

	a, err := d.Digest(ctx, "room-one")
	require.NoError(t, err)
	b, err := d.Digest(ctx, "room-two")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
