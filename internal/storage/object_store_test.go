package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/config"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.linkdeck.app/ws/u/favicon-1.png",
		publicURL("https://cdn.linkdeck.app/", true, "minio:9000", "assets", "ws/u/favicon-1.png"))
	assert.Equal(t,
		"http://minio:9000/assets/ws/u/favicon-1.png",
		publicURL("", false, "minio:9000", "assets", "/ws/u/favicon-1.png"))
}

func TestNewObjectStoreParsesSchemeFromEndpoint(t *testing.T) {
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:  "https://s3.example.com",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "assets",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com/assets/a.png", store.PublicURL("a.png"))
}
