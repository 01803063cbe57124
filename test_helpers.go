package gitversioning

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoFSCreate creates a new filesystem-based git repository for testing
func testRepoFSCreate(path string) (*git.Repository, error) {
	fs := osfs.New(path)
	storage := filesystem.NewStorage(fs, nil)
	return git.Init(storage, fs)
}

// testRepoCommit writes a file and commits it, returning the commit hash
func testRepoCommit(repo *git.Repository, filename, content string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := writeFile(workTree.Filesystem, filename, content); err != nil {
		return plumbing.ZeroHash, err
	}

	if _, err := workTree.Add(filename); err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit("Commit "+filename, &git.CommitOptions{Author: testSignature})
}

// testRepoSingleCommit adds a single commit to the repository and returns the commit hash
func testRepoSingleCommit(repo *git.Repository) (plumbing.Hash, error) {
	return testRepoCommit(repo, "test.txt", "Hello world")
}

// testRepoTaggedHead commits once and points every given tag at that commit.
// Tags named with an "annotated:" prefix are created as annotated tags.
func testRepoTaggedHead(repo *git.Repository, tags []string) (plumbing.Hash, error) {
	hash, err := testRepoSingleCommit(repo)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	for _, tag := range tags {
		var opts *git.CreateTagOptions
		if name, ok := cutAnnotated(tag); ok {
			tag = name
			opts = &git.CreateTagOptions{Tagger: testSignature, Message: "Release " + name}
		}
		if _, err := repo.CreateTag(tag, hash, opts); err != nil {
			return plumbing.ZeroHash, err
		}
	}

	return hash, nil
}

// testRepoDetach checks out hash directly, leaving HEAD detached
func testRepoDetach(repo *git.Repository, hash plumbing.Hash) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}
	return workTree.Checkout(&git.CheckoutOptions{Hash: hash})
}

// testRepoBranch creates and checks out a new branch at HEAD
func testRepoBranch(repo *git.Repository, branch string) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}
	return workTree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
}

func cutAnnotated(tag string) (string, bool) {
	const prefix = "annotated:"
	if len(tag) > len(prefix) && tag[:len(prefix)] == prefix {
		return tag[len(prefix):], true
	}
	return tag, false
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
