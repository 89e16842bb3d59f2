package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

func TestTemplateRegistryCreatesEmptyOnMiss(t *testing.T) {
	dir := t.TempDir()
	registry := NewTemplateRegistry(dir)

	tpl, err := registry.Load(dto.RegionMelaka)
	require.NoError(t, err)
	assert.Empty(t, tpl)

	// First sight persists an empty template for the authoring process
	// to fill in.
	data, err := os.ReadFile(filepath.Join(dir, "Melaka.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))

	// Second load goes through the file path, still empty.
	tpl, err = registry.Load(dto.RegionMelaka)
	require.NoError(t, err)
	assert.Empty(t, tpl)
}

func TestTemplateRegistryLoadsExisting(t *testing.T) {
	dir := t.TempDir()
	content := `{"Address": {"x": 100, "y": 400, "w": 900, "h": 420}, "Bil Semasa": {"x": 1500, "y": 1200, "w": 500, "h": 120}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Selangor2.json"), []byte(content), 0o644))

	registry := NewTemplateRegistry(dir)
	tpl, err := registry.Load(dto.RegionSelangor2)
	require.NoError(t, err)

	assert.Len(t, tpl, 2)
	assert.Equal(t, dto.Rect{X: 100, Y: 400, W: 900, H: 420}, tpl[dto.AddressField])
	assert.Equal(t, dto.Rect{X: 1500, Y: 1200, W: 500, H: 120}, tpl["Bil Semasa"])
}

func TestTemplateRegistryRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Johor.json"), []byte("not json"), 0o644))

	registry := NewTemplateRegistry(dir)
	_, err := registry.Load(dto.RegionJohor)
	assert.Error(t, err)
}
