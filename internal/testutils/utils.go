package testutils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainward/chainward/internal/principal"
)

func RandomPrincipal(t *testing.T) principal.Principal {
	var p principal.Principal
	_, err := rand.Read(p[:])
	require.NoError(t, err)
	return p
}
