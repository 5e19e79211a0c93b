package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/types"
)

func intPtr(i int) *int { return &i }

// record returns a schema-valid distro; callers adjust fields as needed.
func record(id, name string, family types.Family, targets []types.TargetUser, tags []string, ramMB int, rank *int) *types.Distro {
	if tags == nil {
		tags = []string{}
	}
	return &types.Distro{
		ID:                  id,
		Name:                name,
		Family:              family,
		LatestVersion:       "1.0",
		ReleaseDate:         "2024-04-25",
		TargetUsers:         targets,
		DesktopEnvironments: []string{"GNOME"},
		PackageManager:      "apt",
		Kernel:              "6.8",
		MinRAMMB:            ramMB,
		MinStorageMB:        20480,
		ISOFiles: []types.ISOFile{{
			ID:       id + "-desktop",
			URL:      "https://example.com/" + id + ".iso",
			Filename: id + ".iso",
			SizeMB:   2800,
			SHA256:   strings.Repeat("ab", 32),
			Protocol: "https",
		}},
		InstallSteps: []types.InstallStep{{
			ID:               "boot",
			Title:            "Boot the installer",
			DetailMD:         "Boot from USB.",
			EstimatedMinutes: 5,
			Risk:             "low",
		}},
		OfficialDocsURL: "https://example.com/docs/" + id,
		License:         "GPL",
		PopularityRank:  rank,
		Tags:            tags,
		LastVerified:    "2024-05-01",
	}
}

func writeRecord(t *testing.T, dir, file string, d *types.Distro) {
	t.Helper()
	data, err := json.MarshalIndent(d, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), data, 0644))
}

func writeRaw(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

// fixtureDir writes a small catalog and returns its directory.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	ubuntu := record("ubuntu", "Ubuntu", types.FamilyDebian,
		[]types.TargetUser{types.TargetBeginner, types.TargetIntermediate}, []string{"beginner-friendly", "lts"}, 4096, intPtr(1))
	mint := record("mint", "Linux Mint", types.FamilyDebian,
		[]types.TargetUser{types.TargetBeginner}, []string{"windows-like", "beginner-friendly"}, 2048, intPtr(2))
	mint.DesktopEnvironments = []string{"Cinnamon", "MATE", "Xfce"}
	arch := record("arch", "Arch Linux", types.FamilyArch,
		[]types.TargetUser{types.TargetAdvanced}, []string{"rolling-release", "minimal"}, 512, intPtr(5))
	arch.DesktopEnvironments = []string{}
	manjaro := record("manjaro", "Manjaro", types.FamilyArch,
		[]types.TargetUser{types.TargetBeginner, types.TargetIntermediate}, []string{"rolling-release"}, 4096, intPtr(4))
	manjaro.DesktopEnvironments = []string{"KDE Plasma"}
	fedora := record("fedora", "Fedora Workstation", types.FamilyRedHat,
		[]types.TargetUser{types.TargetDeveloper, types.TargetIntermediate}, []string{"Development", "cutting-edge"}, 4096, nil)

	writeRecord(t, dir, "ubuntu.json", ubuntu)
	writeRecord(t, dir, "mint.json", mint)
	writeRecord(t, dir, "arch.json", arch)
	writeRecord(t, dir, "manjaro.json", manjaro)
	writeRecord(t, dir, "fedora.json", fedora)
	return dir
}

func ids(records []*types.Distro) []string {
	out := make([]string, len(records))
	for i, d := range records {
		out[i] = d.ID
	}
	return out
}
