package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosspub/crosspub/pkg/locator"
)

func TestRegistry_ShippedPlatforms(t *testing.T) {
	assert.Equal(t, []string{"bilibili", "douyin", "kuaishou", "wechat", "xiaohongshu"}, Names())
}

func TestGet_UnknownPlatform(t *testing.T) {
	_, err := Get("youtube")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported platform")
}

func TestRegister_LaterWins(t *testing.T) {
	original, err := Get("douyin")
	require.NoError(t, err)
	defer Register(original)

	Register(&Definition{Name: "douyin", EntryURL: "https://example.com"})

	got, err := Get("douyin")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.EntryURL)
}

// Every shipped definition must carry the roles the engine cannot work
// without, plus the signals it uses to classify outcomes.
func TestDefinitions_Complete(t *testing.T) {
	required := []SemanticRole{RoleFileInput, RoleTitle, RoleSubmit}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			def, err := Get(name)
			require.NoError(t, err)

			assert.Equal(t, name, def.Name)
			assert.NotEmpty(t, def.EntryURL)
			assert.NotEmpty(t, def.UploadURL)
			assert.NotEmpty(t, def.LoginURLKeywords)

			for _, role := range required {
				assert.NotEmpty(t, def.Role(role), "missing role %s", role)
			}

			// A workflow needs at least one way to tell success.
			hasSuccessSignal := len(def.SuccessURLFragments) > 0 || len(def.Role(RoleSuccessMarker)) > 0
			assert.True(t, hasSuccessSignal, "no success signal")

			assert.Greater(t, def.Limits.TitleRunes, 0, "title limit unset")
		})
	}
}

func TestDefinitions_EveryStrategyWellFormed(t *testing.T) {
	for _, name := range Names() {
		def, err := Get(name)
		require.NoError(t, err)

		for role, spec := range def.Roles {
			for i, strategy := range spec {
				assert.NotEmpty(t, strategy.Pattern, "%s/%s strategy %d has empty pattern", name, role, i)
				switch strategy.Kind {
				case locator.KindCSS, locator.KindXPath, locator.KindRole, locator.KindText, locator.KindScan:
				default:
					t.Errorf("%s/%s strategy %d has unknown kind %q", name, role, i, strategy.Kind)
				}
			}
		}
	}
}

func TestRole_UndefinedIsNil(t *testing.T) {
	def, err := Get("douyin")
	require.NoError(t, err)
	assert.Nil(t, def.Role(SemanticRole("nonexistent")))
}
