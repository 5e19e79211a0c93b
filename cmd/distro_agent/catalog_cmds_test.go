package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/types"
)

func ids(records []*types.Distro) []string {
	out := make([]string, len(records))
	for i, d := range records {
		out[i] = d.ID
	}
	return out
}

func TestList_All(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	out, err := execute(t, runList)
	require.NoError(t, err)
	assert.Contains(t, out, "DISTRIBUTIONS")
	assert.Contains(t, out, "Linux Mint")
	assert.Contains(t, out, "3 distributions")
}

func TestList_JSONFilters(t *testing.T) {
	useCatalog(t, fixtureDir(t))
	jsonOutput = true

	tests := []struct {
		name  string
		setup func()
		want  []string
	}{
		{name: "no filter", setup: func() {}, want: []string{"ubuntu", "mint", "arch"}},
		{name: "family case-insensitive", setup: func() { listFamily = "arch" }, want: []string{"arch"}},
		{name: "target", setup: func() { listTarget = "Beginner" }, want: []string{"ubuntu", "mint"}},
		{name: "any tag", setup: func() { listTags = []string{" minimal", "lts"} }, want: []string{"ubuntu", "arch"}},
		{name: "min ram", setup: func() { listMinRAM = 2048 }, want: []string{"mint", "arch"}},
		{name: "combined", setup: func() { listFamily = "Debian"; listMinRAM = 2048 }, want: []string{"mint"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listFamily, listTarget, listTags, listMinRAM = "", "", nil, 0
			tt.setup()

			out, err := execute(t, runList)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(decodeJSON[[]*types.Distro](t, out)))
		})
	}
}

func TestList_Errors(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	listFamily = "BSD"
	_, err := execute(t, runList)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown family "BSD"`)

	listFamily, listMinRAM = "", -1
	_, err = execute(t, runList)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--min-ram")
}

func TestList_MissingDirectoryIsEmpty(t *testing.T) {
	useCatalog(t, t.TempDir()+"/missing")

	out, err := execute(t, runList)
	require.NoError(t, err)
	assert.Contains(t, out, "No distributions matched.")
}

func TestSearch(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	out, err := execute(t, runSearch, "windows-like")
	require.NoError(t, err)
	assert.Contains(t, out, "SEARCH: windows-like")
	assert.Contains(t, out, "Linux Mint")
	assert.NotContains(t, out, "Arch Linux")
}

func TestSearch_EmptyQueryListsAll(t *testing.T) {
	useCatalog(t, fixtureDir(t))
	jsonOutput = true

	out, err := execute(t, runSearch)
	require.NoError(t, err)
	assert.Len(t, decodeJSON[[]*types.Distro](t, out), 3)
}

func TestShow(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	out, err := execute(t, runShow, "mint")
	require.NoError(t, err)
	assert.Contains(t, out, "LINUX MINT")
	assert.Contains(t, out, "Cinnamon, MATE, Xfce")

	jsonOutput = true
	out, err = execute(t, runShow, "arch")
	require.NoError(t, err)
	assert.Equal(t, "Arch Linux", decodeJSON[types.Distro](t, out).Name)
}

func TestShow_NotFound(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	for _, id := range []string{"gentoo", "../mint"} {
		_, err := execute(t, runShow, id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	}
}
