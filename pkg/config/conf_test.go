package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.8, c.ClusterThreshold)
	assert.Equal(t, 0.5, c.Params.GridSpacing)

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestReadOrCreate_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	c, err := ReadOrCreate(dir)
	require.NoError(t, err)

	c.ClusterThreshold = 0.5
	c.Params.FeatRadius = 3.0
	require.NoError(t, Save(dir, c))

	c2, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.5, c2.ClusterThreshold)
	assert.Equal(t, 3.0, c2.Params.FeatRadius)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestReadOrCreate_BadYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("{not yaml"), 0600))
	_, err := ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestReadOrCreate_FillsZeroParams(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("cluster_threshold: 0.7\n"), 0600))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.7, c.ClusterThreshold)
	assert.Equal(t, 0.5, c.Params.GridSpacing)
}

func TestReadOrCreate_PartialParamsKept(t *testing.T) {
	dir := t.TempDir()
	// grid_spacing set by the user, feat_width left out
	partial := "params:\n  grid_spacing: 0.25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(partial), 0600))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.25, c.Params.GridSpacing)
	assert.Equal(t, 1.0, c.Params.FeatWidth)
	assert.Equal(t, 2.5, c.Params.FeatRadius)
	assert.Equal(t, 2.0, c.Params.GridMargin)
	assert.Equal(t, 0.8, c.Params.VdwScale)
	assert.Equal(t, 0.8, c.ClusterThreshold)
}

func TestReadOrCreate_ZeroWidthReplaced(t *testing.T) {
	dir := t.TempDir()
	bad := "params:\n  grid_spacing: 0.5\n  feat_width: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(bad), 0600))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Params.FeatWidth)
}

func TestSave_NilConfig(t *testing.T) {
	assert.Error(t, Save(t.TempDir(), nil))
	assert.Error(t, Save("", getDefaultConfig()))
}
