package gitversioning

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// SituationProvider reports the state of HEAD.
type SituationProvider interface {
	Situation() (RepositorySituation, error)
}

// GitSituationProvider reads the situation from a go-git repository.
type GitSituationProvider struct {
	Repository *git.Repository
}

// OpenRepository opens a Git repository at the specified path
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// Situation implements SituationProvider.
func (p GitSituationProvider) Situation() (RepositorySituation, error) {
	return ReadSituation(p.Repository)
}

// ReadSituation captures HEAD commit, branch, tags and worktree state.
// A repository without commits yields NoCommit, no branch and no tags.
func ReadSituation(repo *git.Repository) (RepositorySituation, error) {
	if repo == nil {
		return RepositorySituation{}, ErrRepositoryRequired
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return RepositorySituation{HeadCommit: NoCommit}, nil
		}
		return RepositorySituation{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	situation := RepositorySituation{HeadCommit: head.Hash().String()}
	if head.Name().IsBranch() {
		situation.HeadBranch = head.Name().Short()
	}

	situation.HeadTags, err = headTags(repo, head.Hash())
	if err != nil {
		return RepositorySituation{}, fmt.Errorf("listing head tags: %w", err)
	}

	situation.Dirty, err = workTreeIsDirty(repo)
	if err != nil {
		return RepositorySituation{}, fmt.Errorf("checking if worktree is dirty: %w", err)
	}

	return situation, nil
}

// headTags returns the short names of all tags pointing at hash. Annotated
// tags are peeled to their target commit.
func headTags(repo *git.Repository, hash plumbing.Hash) ([]string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var names []string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		obj, err := repo.TagObject(ref.Hash())
		switch err {
		case nil:
			// Annotated tag
			if obj.Target == hash {
				names = append(names, ref.Name().Short())
			}
		case plumbing.ErrObjectNotFound:
			// Lightweight tag
			if ref.Hash() == hash {
				names = append(names, ref.Name().Short())
			}
		default:
			return err
		}
		return nil
	})

	return names, err
}

func workTreeIsDirty(repo *git.Repository) (bool, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return false, nil
		}
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	// Fast path for filesystem storage
	if _, ok := repo.Storer.(*filesystem.Storage); ok {
		if dirty, err := checkDirtyWithGitCommand(workTree.Filesystem.Root()); err == nil {
			return dirty, nil
		}
	}

	// Fallback to go-git status check
	status, err := workTree.Status()
	if err != nil {
		return false, fmt.Errorf("getting git status: %w", err)
	}

	return !status.IsClean(), nil
}

func checkDirtyWithGitCommand(repoPath string) (bool, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return false, err
	}

	// Refresh index first
	cmd := exec.Command("git", "update-index", "-q", "--refresh")
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		// If update-index fails, assume dirty
		return true, nil
	}

	// Check for changes
	cmd = exec.Command("git", "diff-files", "--name-status", "--ignore-space-at-eol")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return true, nil
		}
		return false, err
	}

	return len(output) > 0, nil
}
