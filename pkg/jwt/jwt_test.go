package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	id := Identity{UserID: "u-1", Roles: []string{"bodeguero"}, StoragePointIDs: []string{"sp-1", "sp-2"}, Language: "es"}
	token, err := Generate("secret", "test", 5, id)
	require.NoError(t, err)

	got, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate("secret", "test", 5, Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = Parse("other", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate("secret", "test", -1, Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestGenerate_RequiresSecretAndUser(t *testing.T) {
	_, err := Generate("", "test", 5, Identity{UserID: "u-1"})
	assert.Error(t, err)
	_, err = Generate("secret", "test", 5, Identity{})
	assert.Error(t, err)
}
