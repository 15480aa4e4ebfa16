package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/utils"
)

func TestImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.JPG", "a.png", "notes.txt", "c.jpeg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755))

	files, err := utils.ImageFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "c.jpeg"),
	}, files)
}

func TestImageFilesMissingDir(t *testing.T) {
	_, err := utils.ImageFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"2", 2, false},
		{" 3 ", 3, false},
		{"", 0, false},
		{"-1", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := utils.ParseCount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseArea(t *testing.T) {
	v, err := utils.ParseArea("85,5")
	require.NoError(t, err)
	assert.InDelta(t, 85.5, v, 1e-9)

	v, err = utils.ParseArea("120 m²")
	require.NoError(t, err)
	assert.InDelta(t, 120.0, v, 1e-9)

	_, err = utils.ParseArea("-4")
	assert.Error(t, err)
}

func TestFormatArea(t *testing.T) {
	assert.Equal(t, "85.5", utils.FormatArea(85.5))
	assert.Equal(t, "90", utils.FormatArea(90))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Balcony", "Parking"}, utils.SplitList(" Balcony, ,Parking,"))
	assert.Equal(t, []string{}, utils.SplitList(""))
}
