package gitversioning

import (
	"fmt"

	"go.uber.org/zap"
)

// Selection is the ref a version is derived from and the rule that applies.
type Selection struct {
	RefType    RefType
	RefName    string
	Descriptor RefDescriptor
}

// Select classifies the situation as a tag, branch or commit build and picks
// the winning descriptor. Overrides replace the branch and tags reported by
// the situation.
//
// Tag mode applies when a tag override is given or HEAD is detached. The tag
// rules are tried in order and the first rule matching any candidate tag
// wins; among the tags it matches the highest version is taken. In branch
// mode the first rule matching the branch name wins. When nothing matches the
// commit rule applies with the head commit id as ref name.
//
// The configuration must have been validated.
func Select(situation RepositorySituation, config Configuration, overrides Overrides, log *MessageLog) Selection {
	branch := situation.HeadBranch
	if overrides.Branch != nil {
		branch = *overrides.Branch
	}
	tags := situation.HeadTags
	if overrides.Tag != nil {
		tags = nil
		if *overrides.Tag != "" {
			tags = []string{*overrides.Tag}
		}
	}

	if overrides.Tag != nil && overrides.Branch != nil {
		log.Warn(fmt.Sprintf("provided branch [%s] will be ignored due to provided tag [%s]",
			*overrides.Branch, *overrides.Tag))
	}

	if overrides.Tag != nil || branch == "" {
		log.Debug("tag version", zap.String("commit", situation.HeadCommit))
		if sel, ok := selectTag(tags, config.Tags); ok {
			return sel
		}
	} else {
		log.Debug("branch version", zap.String("commit", situation.HeadCommit))
		if sel, ok := selectBranch(branch, config.Branches); ok {
			return sel
		}
	}

	return Selection{
		RefType:    RefTypeCommit,
		RefName:    situation.HeadCommit,
		Descriptor: config.Commit,
	}
}

func selectTag(tags []string, descriptors []RefDescriptor) (Selection, bool) {
	if len(tags) == 0 {
		return Selection{}, false
	}

	for _, d := range descriptors {
		var matched []string
		for _, tag := range tags {
			if d.Matches(tag) {
				matched = append(matched, tag)
			}
		}
		if len(matched) == 0 {
			continue
		}
		return Selection{
			RefType:    RefTypeTag,
			RefName:    MaxVersion(matched, d.Prefix),
			Descriptor: d,
		}, true
	}
	return Selection{}, false
}

func selectBranch(branch string, descriptors []RefDescriptor) (Selection, bool) {
	if branch == "" {
		return Selection{}, false
	}

	for _, d := range descriptors {
		if d.Matches(branch) {
			return Selection{
				RefType:    RefTypeBranch,
				RefName:    branch,
				Descriptor: d,
			}, true
		}
	}
	return Selection{}, false
}
