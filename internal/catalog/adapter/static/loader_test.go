package static

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledContent(t *testing.T) {
	content, err := Load("")
	require.NoError(t, err)

	assert.Len(t, content.Emirates, 7)
	assert.Equal(t, "Dubai", content.Emirates[0].Name)
	assert.Equal(t, "Global Commercial Hub", content.Emirates[0].Desc)
	assert.Len(t, content.Services, 7)
	assert.Len(t, content.Partners, 4)
	assert.Len(t, content.WhyDubai, 3)
	assert.Len(t, content.Testimonials, 3)
	assert.Len(t, content.FAQs, 7)
	assert.Len(t, content.ProcessSteps, 3)
	assert.Len(t, content.Amenities, 10)
	assert.Contains(t, content.Translations, "EN")
	assert.Contains(t, content.Translations, "AR")
	assert.Equal(t, "rtl", content.Translations["AR"]["dir"])

	require.Len(t, content.Properties, 2)
	villa := content.Properties[0]
	assert.Equal(t, "City Walk Crystlane", villa.Title)
	assert.Equal(t, "4", villa.Beds.String())
	assert.Equal(t, "4,500", villa.Sqft.String())
	assert.Len(t, villa.NearbyPlaces, 2)
	assert.NotNil(t, content.Properties[1].NearbyPlaces)
}

func TestBundledContent_StaticsHaveNoIdentity(t *testing.T) {
	for _, p := range Bundled().Properties {
		assert.True(t, p.ID.IsZero())

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.NotContains(t, string(out), `"_id"`)
	}
}

func TestBundledContent_TranslationsEncodeAsJSON(t *testing.T) {
	_, err := json.Marshal(Bundled().SiteContent)
	assert.NoError(t, err)
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("partners:\n  - name: NAKHEEL\n    logo: /n.png\n"), 0o600))

	content, err := Load(path)
	require.NoError(t, err)
	require.Len(t, content.Partners, 1)
	assert.Equal(t, "NAKHEEL", content.Partners[0].Name)
	assert.Empty(t, content.Emirates)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("partnerz:\n  - name: typo\n"))
	assert.Error(t, err)
}
