package gitversioning

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const snapshotSuffix = "-SNAPSHOT"

// Resolve computes the version of project for the given repository
// situation. The configuration is validated first; a *ConfigurationError
// aborts resolution without producing a version.
func Resolve(situation RepositorySituation, config Configuration, overrides Overrides, project Project, log *MessageLog) (*ProjectVersion, error) {
	config = config.Clone()
	if err := config.Compile(); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", project.ArtifactID, err)
	}
	return resolve(situation, config, overrides, project, log), nil
}

// resolve expects a compiled configuration.
func resolve(situation RepositorySituation, config Configuration, overrides Overrides, project Project, log *MessageLog) *ProjectVersion {
	if situation.HeadCommit == "" {
		situation.HeadCommit = NoCommit
	}

	if situation.Dirty {
		log.Warn("project repository working tree is not clean")
	}

	sel := Select(situation, config, overrides, log)
	refValue := sel.Descriptor.StripPrefix(sel.RefName)

	values := commonValues(project, situation.HeadCommit)
	values[string(sel.RefType)] = refValue

	captures := Capture(sel.Descriptor.re, sel.RefName)
	for key, value := range captures {
		values[key] = value
	}

	version := Render(sel.Descriptor.VersionFormat, values)

	updateDescriptor := config.UpdateDescriptor
	if sel.Descriptor.UpdateDescriptor != nil {
		updateDescriptor = *sel.Descriptor.UpdateDescriptor
	}

	pv := &ProjectVersion{
		Version:          escapeVersion(version),
		Commit:           situation.HeadCommit,
		RefName:          sel.RefName,
		RefType:          sel.RefType,
		RefValue:         refValue,
		Metadata:         captures,
		UpdateDescriptor: updateDescriptor,
	}

	log.Info(fmt.Sprintf("%s - %s: %s -> version: %s", project, pv.RefType, pv.RefName, pv.Version),
		zap.String("artifact", project.ArtifactID))

	return pv
}

// commonValues are the substitution values available to every template.
func commonValues(project Project, commit string) map[string]string {
	values := map[string]string{
		"commit":       commit,
		"commit.short": shortCommit(commit),
	}
	if project.Version != "" {
		values["version"] = project.Version
		values["version.release"] = strings.TrimSuffix(project.Version, snapshotSuffix)
	}
	return values
}

func shortCommit(commit string) string {
	if len(commit) < 7 {
		return commit
	}
	return commit[:7]
}

// escapeVersion keeps ref names such as feature/x from introducing path
// separators into the version.
func escapeVersion(version string) string {
	return strings.ReplaceAll(version, "/", "-")
}
