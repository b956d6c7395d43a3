package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("coating-line-9")
	require.NoError(t, err)
	require.Contains(t, encoded, "$argon2id$")

	require.True(t, Verify("coating-line-9", encoded))
	require.False(t, Verify("wrong", encoded))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.True(t, Verify("same-password", first))
	require.True(t, Verify("same-password", second))
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	require.False(t, Verify("anything", "not-a-hash"))
	require.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1,p=4$bad!$worse!"))
}
