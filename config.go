package gitversioning

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultCommitVersionFormat reproduces the raw commit id.
const DefaultCommitVersionFormat = "${commit}"

// DefaultConfigFiles are tried in order by LoadConfigurationFromDir.
var DefaultConfigFiles = []string{
	".git-versioning.yml",
	".git-versioning.yaml",
	".git-versioning.toml",
	".mvn/maven-git-versioning-extension.xml",
}

// ConfigFile is the on-disk rule set.
type ConfigFile struct {
	UpdatePom bool            `yaml:"updatePom" toml:"updatePom" xml:"updatePom"`
	Branch    []RefDescriptor `yaml:"branch" toml:"branch" xml:"branch"`
	Tag       []RefDescriptor `yaml:"tag" toml:"tag" xml:"tag"`
	Commit    *RefDescriptor  `yaml:"commit" toml:"commit" xml:"commit"`
}

// DefaultConfiguration has no branch or tag rules and versions every build
// with the raw commit id.
func DefaultConfiguration() Configuration {
	return Configuration{
		Commit: RefDescriptor{VersionFormat: DefaultCommitVersionFormat},
	}
}

// Configuration converts the file into a compiled Configuration.
func (f ConfigFile) Configuration() (Configuration, error) {
	cfg := DefaultConfiguration()
	cfg.UpdateDescriptor = f.UpdatePom
	cfg.Branches = append(cfg.Branches, f.Branch...)
	cfg.Tags = append(cfg.Tags, f.Tag...)
	if f.Commit != nil {
		cfg.Commit = *f.Commit
		if cfg.Commit.VersionFormat == "" {
			cfg.Commit.VersionFormat = DefaultCommitVersionFormat
		}
	}

	if err := cfg.Compile(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Clone returns a copy that shares no rule slices with c.
func (c Configuration) Clone() Configuration {
	c.Branches = append([]RefDescriptor(nil), c.Branches...)
	c.Tags = append([]RefDescriptor(nil), c.Tags...)
	return c
}

// Compile validates every rule and compiles its pattern. It must be called
// before the configuration is used for selection.
func (c *Configuration) Compile() error {
	for i := range c.Branches {
		if err := c.Branches[i].compile(fmt.Sprintf("branch[%d]", i), true); err != nil {
			return err
		}
	}
	for i := range c.Tags {
		if err := c.Tags[i].compile(fmt.Sprintf("tag[%d]", i), true); err != nil {
			return err
		}
	}
	if c.Commit.VersionFormat == "" {
		c.Commit.VersionFormat = DefaultCommitVersionFormat
	}
	// the commit rule always applies, so its pattern only feeds captures
	return c.Commit.compile("commit", false)
}

func (d *RefDescriptor) compile(rule string, patternRequired bool) error {
	if d.Pattern == "" {
		if patternRequired {
			return &ConfigurationError{Rule: rule, Err: errors.New("pattern is required")}
		}
		d.re = nil
		return nil
	}

	re, err := CompilePattern(d.Pattern)
	if err != nil {
		return &ConfigurationError{Rule: rule, Pattern: d.Pattern, Err: err}
	}
	d.re = re
	return nil
}

// LoadConfiguration reads a rule file. The format is chosen by extension:
// .yml/.yaml, .toml or .xml. A missing file yields DefaultConfiguration.
func LoadConfiguration(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfiguration(), nil
		}
		return Configuration{}, fmt.Errorf("reading configuration: %w", err)
	}

	file, err := ParseConfigFile(filepath.Ext(path), data)
	if err != nil {
		return Configuration{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := file.Configuration()
	if err != nil {
		return Configuration{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigurationFromDir loads the first of DefaultConfigFiles present in
// dir, or DefaultConfiguration when there is none.
func LoadConfigurationFromDir(dir string) (Configuration, string, error) {
	for _, name := range DefaultConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadConfiguration(path)
		return cfg, path, err
	}
	return DefaultConfiguration(), "", nil
}

// ParseConfigFile decodes data in the format named by ext.
func ParseConfigFile(ext string, data []byte) (ConfigFile, error) {
	var file ConfigFile
	var err error

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yml", "yaml":
		err = yaml.Unmarshal(data, &file)
	case "toml":
		_, err = toml.Decode(string(data), &file)
	case "xml":
		err = xml.Unmarshal(data, &file)
	default:
		return file, &ConfigurationError{Rule: "file", Err: fmt.Errorf("unsupported configuration format %q", ext)}
	}
	if err != nil {
		return file, &ConfigurationError{Rule: "file", Err: err}
	}
	return file, nil
}
