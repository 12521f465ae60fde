package utils

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", hash)
	assert.True(t, CheckPasswordHash("pw1", hash))
	assert.False(t, CheckPasswordHash("pw2", hash))
	assert.False(t, CheckPasswordHash("pw1", "not-a-hash"))
}

func TestUserContext(t *testing.T) {
	_, ok := GetUsernameFromContext(context.Background())
	assert.False(t, ok)

	ctx := SetUserContext(context.Background(), "alice", "user")

	username, ok := GetUsernameFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", username)

	role, ok := GetRoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user", role)
}

func TestDecodeFormAndValidate(t *testing.T) {
	type signup struct {
		Username string `form:"username" validate:"required,min=3"`
		Role     string `form:"role" validate:"required,oneof=admin user"`
	}

	var req signup
	require.NoError(t, DecodeForm(&req, url.Values{
		"username": {"al"},
		"role":     {"root"},
	}))

	errs := ValidateStruct(req)
	require.Len(t, errs, 2)
	assert.Equal(t, "Minimum length is 3", errs["Username"])
	assert.Equal(t, "Must be one of: admin, user", errs["Role"])

	req = signup{Username: "alice", Role: "user"}
	assert.Nil(t, ValidateStruct(req))
}

func TestValidateNumericBounds(t *testing.T) {
	type review struct {
		Rating int `validate:"required,gte=1,lte=5"`
	}

	assert.Equal(t, "Must be at most 5", ValidateStruct(review{Rating: 9})["Rating"])
	assert.Equal(t, "Must be at least 1", ValidateStruct(review{Rating: -1})["Rating"])
	assert.Equal(t, "This field is required", ValidateStruct(review{})["Rating"])
	assert.Nil(t, ValidateStruct(review{Rating: 3}))
}

func TestFormatValidationErrors(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{"Price": "This field is required"})
	assert.Equal(t, "Price: This field is required", msg)
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(AppConfig{Name: "shop", LogPath: dir})
	require.NoError(t, err)

	logger.Info("hello", zap.String("k", "v"))
	_ = logger.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "shop.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
	assert.Contains(t, string(raw), `"app":"shop"`)
}
