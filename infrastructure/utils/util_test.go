package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"karaoke-browser/infrastructure/utils"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := utils.GenerateToken(map[string]interface{}{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "secret")
	require.NoError(t, err)

	claims, err := utils.ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := utils.GenerateToken(map[string]interface{}{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, "secret")
	require.NoError(t, err)

	_, err = utils.ParseToken(expired, "secret")
	assert.Error(t, err)

	valid, err := utils.GenerateToken(map[string]interface{}{"sub": "user-1"}, "secret")
	require.NoError(t, err)
	_, err = utils.ParseToken(valid, "other-secret")
	assert.Error(t, err)

	_, err = utils.ParseToken("not-a-token", "secret")
	assert.Error(t, err)
}
