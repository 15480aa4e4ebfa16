package portal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/config"
	"property-poster/portal"
)

func TestDefaultRegistry(t *testing.T) {
	r := portal.DefaultRegistry(config.Default().Timing, nil)

	assert.Equal(t, config.DefaultSites(), r.Sites())
	for _, site := range config.DefaultSites() {
		a, ok := r.Lookup(site)
		require.True(t, ok, site)
		assert.Equal(t, site, a.Site())
	}
	_, ok := r.Lookup("unknown.al")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := portal.NewRegistry()
	require.NoError(t, r.Register(portal.NewIndomio(config.Default().Timing, nil)))
	assert.Error(t, r.Register(portal.NewIndomio(config.Default().Timing, nil)))
}

func TestImageCeilingConstants(t *testing.T) {
	assert.Equal(t, 5, portal.NjoftimeProfile().MaxImages)
	assert.Equal(t, 10, portal.MerrjepProfile().MaxImages)
	assert.Equal(t, 15, portal.IndomioProfile().MaxImages)
}
