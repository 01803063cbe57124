// Package gitversioning derives build versions from the state of a Git
// repository and a small set of ref rules.
//
// The git inspection helpers in this package are adapted from pulumictl
// (https://github.com/pulumi/pulumictl), licensed under the Apache License 2.0.
package gitversioning

import (
	"regexp"
	"sort"
	"strings"
)

// NoCommit is the commit id used when the repository has no commits yet.
const NoCommit = "0000000000000000000000000000000000000000"

// RefType identifies which kind of ref a version was derived from.
type RefType string

const (
	RefTypeCommit RefType = "commit"
	RefTypeBranch RefType = "branch"
	RefTypeTag    RefType = "tag"
)

// RepositorySituation is a snapshot of HEAD taken before resolution.
type RepositorySituation struct {
	// HeadCommit is the full 40 character commit id, or NoCommit
	HeadCommit string

	// HeadBranch is the checked out branch; empty when HEAD is detached
	HeadBranch string

	// HeadTags are the tags pointing at HEAD, in no particular order
	HeadTags []string

	// Dirty reports uncommitted changes in the working tree
	Dirty bool
}

// Detached reports whether HEAD is not on a branch.
func (s RepositorySituation) Detached() bool {
	return s.HeadBranch == ""
}

// RefDescriptor maps refs matching Pattern to a version built from
// VersionFormat.
type RefDescriptor struct {
	// Pattern is matched against the full ref name. Empty matches everything.
	Pattern string `json:"pattern,omitempty" yaml:"pattern" toml:"pattern" xml:"pattern"`

	// VersionFormat is the template rendered into the version string
	VersionFormat string `json:"versionFormat" yaml:"versionFormat" toml:"versionFormat" xml:"versionFormat"`

	// Prefix is removed from the ref name before rendering and comparison
	Prefix string `json:"prefix,omitempty" yaml:"prefix" toml:"prefix" xml:"prefix"`

	// UpdateDescriptor overrides Configuration.UpdateDescriptor when set
	UpdateDescriptor *bool `json:"updatePom,omitempty" yaml:"updatePom" toml:"updatePom" xml:"updatePom"`

	re *regexp.Regexp
}

// Matches reports whether name fully matches the descriptor pattern.
// Descriptors without a pattern match any name.
func (d RefDescriptor) Matches(name string) bool {
	if d.re == nil {
		return d.Pattern == ""
	}
	return d.re.MatchString(name)
}

// StripPrefix removes the first occurrence of the descriptor prefix from name.
// A name that does not contain the prefix is returned unchanged.
func (d RefDescriptor) StripPrefix(name string) string {
	if d.Prefix == "" {
		return name
	}
	return strings.Replace(name, d.Prefix, "", 1)
}

// Configuration is the ordered rule set used to pick a version format.
type Configuration struct {
	// Branches are tried in order when building from a branch
	Branches []RefDescriptor

	// Tags are tried in order when building from a tag
	Tags []RefDescriptor

	// Commit is the fallback used when no branch or tag rule applies
	Commit RefDescriptor

	// UpdateDescriptor is the default for rules that do not set updatePom
	UpdateDescriptor bool
}

// Overrides carry externally provided ref names, typically from CI, and
// replace what the repository reports. Nil means not provided. An empty tag
// means HEAD has no tags; an empty branch means HEAD is detached.
type Overrides struct {
	Branch *string
	Tag    *string
}

// Override returns value as an Overrides field.
func Override(value string) *string {
	return &value
}

// CaptureMap holds regex group values keyed by group index and group name.
type CaptureMap map[string]string

// Project identifies the build descriptor being versioned.
type Project struct {
	ArtifactID string
	// Version is the version declared in the descriptor
	Version string
	Parent  *Project
}

// String renders the project as artifact:version.
func (p Project) String() string {
	return p.ArtifactID + ":" + p.Version
}

// ProjectVersion is the outcome of a resolution. RefValue is RefName with
// the prefix of the winning rule removed.
type ProjectVersion struct {
	Version          string     `json:"version"`
	Commit           string     `json:"commit"`
	RefName          string     `json:"refName"`
	RefType          RefType    `json:"refType"`
	RefValue         string     `json:"refValue"`
	Metadata         CaptureMap `json:"metadata,omitempty"`
	UpdateDescriptor bool       `json:"updatePom"`
	ParentVersion    string     `json:"parentVersion,omitempty"`
}

// String returns the version string.
func (v *ProjectVersion) String() string {
	return v.Version
}

// Properties returns the build properties exposed to the build descriptor.
func (v *ProjectVersion) Properties() map[string]string {
	props := map[string]string{
		"version":                 v.Version,
		"git.commit":              v.Commit,
		"git.ref":                 v.RefName,
		"git." + string(v.RefType): v.RefValue,
	}
	for key, value := range v.Metadata {
		props["git.ref."+key] = value
	}
	return props
}

// SortedPropertyKeys returns the keys of Properties in lexical order.
func (v *ProjectVersion) SortedPropertyKeys() []string {
	props := v.Properties()
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
