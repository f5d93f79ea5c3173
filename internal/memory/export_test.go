package memory

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	for _, path := range []string{"/backup/nexus.json", "/backup/nexus.yaml"} {
		t.Run(string(FormatFor(path)), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			want := sampleSnapshot()
			// Empty file lists do not survive omitempty encoders.
			want.Tasks[0].FileIDs = nil

			require.NoError(t, Export(fs, path, want))

			ok, err := afero.Exists(fs, path+checksumSuffix)
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = afero.Exists(fs, path+".tmp")
			require.NoError(t, err)
			assert.False(t, ok)

			got, err := Import(fs, path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestImport_ChecksumMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Export(fs, "/nexus.json", sampleSnapshot()))
	require.NoError(t, afero.WriteFile(fs, "/nexus.json", []byte(`{"users":[]}`), 0o644))

	_, err := Import(fs, "/nexus.json")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestImport_WithoutChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/legacy.json", []byte(`{"currentUserId":"u2"}`), 0o644))

	got, err := Import(fs, "/legacy.json")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.CurrentUserID)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("a.YML"))
	assert.Equal(t, FormatJSON, FormatFor("a.json"))
	assert.Equal(t, FormatJSON, FormatFor("backup"))
}
