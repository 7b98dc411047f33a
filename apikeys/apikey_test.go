package apikeys_test

import (
	"strings"
	"testing"

	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	raw, key, err := apikeys.Generate("bga", 4, "Gate sensor")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(raw, "bga_"))
	require.Len(t, raw, len("bga_")+64)
	require.True(t, apikeys.WellFormed(raw, "bga"))

	require.Equal(t, apikeys.Hash(raw), key.KeyHash)
	require.NotContains(t, key.KeyHash, raw)
	require.Equal(t, raw[:15]+"...", key.Masked())
	require.Equal(t, int64(4), key.OrgID)
	require.True(t, key.Active)

	other, _, err := apikeys.Generate("bga", 4, "Gate sensor")
	require.NoError(t, err)
	require.NotEqual(t, raw, other)
}

func TestWellFormed(t *testing.T) {
	valid := "bga_" + strings.Repeat("ab", 32)

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"valid", valid, true},
		{"wrong prefix", "xyz_" + strings.Repeat("ab", 32), false},
		{"too short", "bga_abcd", false},
		{"not hex", "bga_" + strings.Repeat("zz", 32), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, apikeys.WellFormed(tt.raw, "bga"))
		})
	}
}
