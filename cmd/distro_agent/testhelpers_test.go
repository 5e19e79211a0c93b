package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/types"
)

func intPtr(i int) *int { return &i }

// record returns a schema-valid distro.
func record(id, name string, family types.Family, targets []types.TargetUser, tags []string, ramMB int, rank int) *types.Distro {
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
		PopularityRank:  intPtr(rank),
		Tags:            tags,
		LastVerified:    "2024-05-01",
	}
}

func fixtureRecords() []*types.Distro {
	ubuntu := record("ubuntu", "Ubuntu", types.FamilyDebian,
		[]types.TargetUser{types.TargetBeginner, types.TargetIntermediate}, []string{"beginner-friendly", "lts"}, 4096, 1)
	mint := record("mint", "Linux Mint", types.FamilyDebian,
		[]types.TargetUser{types.TargetBeginner}, []string{"windows-like", "beginner-friendly"}, 2048, 2)
	mint.DesktopEnvironments = []string{"Cinnamon", "MATE", "Xfce"}
	arch := record("arch", "Arch Linux", types.FamilyArch,
		[]types.TargetUser{types.TargetAdvanced}, []string{"rolling-release", "minimal"}, 512, 5)
	return []*types.Distro{ubuntu, mint, arch}
}

func writeRecords(t *testing.T, dir string, records ...*types.Distro) {
	t.Helper()
	for _, d := range records {
		data, err := json.MarshalIndent(d, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, d.ID+".json"), data, 0644))
	}
}

// fixtureDir writes the fixture catalog and returns its directory.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRecords(t, dir, fixtureRecords()...)
	return dir
}

// useCatalog points the CLI at dir with the assistant disabled and resets
// every command flag when the test ends.
func useCatalog(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Catalog.Dir = dir
	cfg.LLM.Provider = config.ProviderNone
	cfg.Logging.Level = "disabled"
	appConfig = cfg
	t.Cleanup(resetFlags)
	return cfg
}

func resetFlags() {
	appConfig = nil
	configPath, catalogDir, logLevel = "", "", ""
	jsonOutput = false

	listFamily, listTarget, listTags, listMinRAM = "", "", nil, 0
	recommendAnswersFile, recommendAnswers, recommendExplain = "", nil, false
	validateCheckLinks, validateReport = false, ""
	validateLinkTimeout, validateConcurrency = 0, 0
	askDistro, askPlatform, askSkill, askAllowHostedISO = "", string(types.PlatformLinux), string(types.TargetBeginner), false
	servePort = 0
}

// execute calls a command's run function with a captured stdout.
func execute(t *testing.T, run func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := run(cmd, args)
	return out.String(), err
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	return v
}
