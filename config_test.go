package gitversioning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireSampleConfiguration(t *testing.T, cfg Configuration) {
	t.Helper()
	require.True(t, cfg.UpdateDescriptor)

	require.Len(t, cfg.Branches, 2)
	require.Equal(t, "main", cfg.Branches[0].Pattern)
	require.Equal(t, "${version}", cfg.Branches[0].VersionFormat)
	require.Equal(t, ".+", cfg.Branches[1].Pattern)
	require.NotNil(t, cfg.Branches[1].UpdateDescriptor)
	require.False(t, *cfg.Branches[1].UpdateDescriptor)
	require.True(t, cfg.Branches[1].Matches("feature/x"))

	require.Len(t, cfg.Tags, 1)
	require.Equal(t, "v", cfg.Tags[0].Prefix)
	require.True(t, cfg.Tags[0].Matches("v1.0.0"))

	require.Equal(t, "${commit.short}", cfg.Commit.VersionFormat)
}

func TestLoadConfiguration(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), ".git-versioning.yml", `
updatePom: true
branch:
  - pattern: main
    versionFormat: ${version}
  - pattern: .+
    versionFormat: ${branch}-SNAPSHOT
    updatePom: false
tag:
  - pattern: v(?<version>.*)
    versionFormat: ${version}
    prefix: v
commit:
  versionFormat: ${commit.short}
`)
		cfg, err := LoadConfiguration(path)
		require.NoError(t, err)
		requireSampleConfiguration(t, cfg)
	})

	t.Run("TOML", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), ".git-versioning.toml", `
updatePom = true

[[branch]]
pattern = "main"
versionFormat = "${version}"

[[branch]]
pattern = ".+"
versionFormat = "${branch}-SNAPSHOT"
updatePom = false

[[tag]]
pattern = 'v(?<version>.*)'
versionFormat = "${version}"
prefix = "v"

[commit]
versionFormat = "${commit.short}"
`)
		cfg, err := LoadConfiguration(path)
		require.NoError(t, err)
		requireSampleConfiguration(t, cfg)
	})

	t.Run("XML", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), ".mvn/maven-git-versioning-extension.xml", `<?xml version="1.0" encoding="UTF-8"?>
<gitVersioning>
  <updatePom>true</updatePom>
  <branch>
    <pattern>main</pattern>
    <versionFormat>${version}</versionFormat>
  </branch>
  <branch>
    <pattern>.+</pattern>
    <versionFormat>${branch}-SNAPSHOT</versionFormat>
    <updatePom>false</updatePom>
  </branch>
  <tag>
    <pattern><![CDATA[v(?<version>.*)]]></pattern>
    <versionFormat>${version}</versionFormat>
    <prefix>v</prefix>
  </tag>
  <commit>
    <versionFormat>${commit.short}</versionFormat>
  </commit>
</gitVersioning>
`)
		cfg, err := LoadConfiguration(path)
		require.NoError(t, err)
		requireSampleConfiguration(t, cfg)
	})

	t.Run("Missing file", func(t *testing.T) {
		cfg, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		require.Equal(t, DefaultConfiguration(), cfg)
	})

	t.Run("Commit without format", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "rules.yaml", "commit:\n  pattern: .*\n")
		cfg, err := LoadConfiguration(path)
		require.NoError(t, err)
		require.Equal(t, DefaultCommitVersionFormat, cfg.Commit.VersionFormat)
	})

	t.Run("Invalid pattern", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "rules.yml", "branch:\n  - pattern: '[a-'\n    versionFormat: x\n")
		_, err := LoadConfiguration(path)
		require.ErrorIs(t, err, ErrInvalidConfiguration)
		require.Contains(t, err.Error(), "branch[0]")
		require.Contains(t, err.Error(), path)
	})

	t.Run("Missing pattern", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "rules.yml", "tag:\n  - versionFormat: x\n")
		_, err := LoadConfiguration(path)
		require.ErrorIs(t, err, ErrInvalidConfiguration)
		require.Contains(t, err.Error(), "pattern is required")
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "rules.toml", "branch = [")
		_, err := LoadConfiguration(path)
		require.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Unsupported format", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "rules.ini", "x=y")
		_, err := LoadConfiguration(path)
		require.ErrorIs(t, err, ErrInvalidConfiguration)
		require.Contains(t, err.Error(), "unsupported configuration format")
	})
}

func TestLoadConfigurationFromDir(t *testing.T) {
	t.Run("No file", func(t *testing.T) {
		cfg, path, err := LoadConfigurationFromDir(t.TempDir())
		require.NoError(t, err)
		require.Empty(t, path)
		require.Equal(t, DefaultConfiguration(), cfg)
	})

	t.Run("First file wins", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".git-versioning.toml", "[commit]\nversionFormat = \"toml\"\n")
		expected := writeConfig(t, dir, ".git-versioning.yaml", "commit:\n  versionFormat: yaml\n")

		cfg, path, err := LoadConfigurationFromDir(dir)
		require.NoError(t, err)
		require.Equal(t, expected, path)
		require.Equal(t, "yaml", cfg.Commit.VersionFormat)
	})
}

func TestConfigurationClone(t *testing.T) {
	original := Configuration{
		Branches: []RefDescriptor{{Pattern: "main", VersionFormat: "x"}},
		Tags:     []RefDescriptor{{Pattern: "v.*", VersionFormat: "y"}},
	}

	clone := original.Clone()
	require.NoError(t, clone.Compile())
	clone.Branches[0].VersionFormat = "changed"

	require.Equal(t, "x", original.Branches[0].VersionFormat)
	require.Nil(t, original.Branches[0].re)
	require.Nil(t, original.Tags[0].re)
	require.Empty(t, original.Commit.VersionFormat)
}
