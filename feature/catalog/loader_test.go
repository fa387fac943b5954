package catalog

import (
	"net/http/httptest"
	"testing"

	"library-manager/core/loader"
	"library-manager/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	mockClient := new(mocks.Client)
	// A nil db still registers routes; the handlers answer 503.
	feature := NewFeature(mockClient, testBucket, zap.NewNop(), nil, catalogConfig())

	assert.Equal(t, "catalog", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())

	var _ loader.Feature = feature

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/orphans", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
