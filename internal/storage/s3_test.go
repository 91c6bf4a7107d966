package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	bucket, key, err := parseLocation("s3://posters-bucket/posters/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "posters-bucket", bucket)
	assert.Equal(t, "posters/abc.jpg", key)

	for _, bad := range []string{
		"https://example.com/poster.jpg",
		"s3://",
		"s3://bucket-only",
		"s3:///no-bucket",
	} {
		_, _, err := parseLocation(bad)
		assert.Error(t, err, "location %q", bad)
	}
}

func TestIsLocation(t *testing.T) {
	assert.True(t, IsLocation("s3://bucket/key"))
	assert.False(t, IsLocation("https://example.com/poster.jpg"))
	assert.False(t, IsLocation(""))
}
