package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/memory"
)

// parseGitURL splits git+<clone-url>#<rev>:<path> into its parts. The
// revision may name a branch, a tag or a commit, and defaults to HEAD when
// left empty, as in git+https://host/data.git#:people.ndjson.
func parseGitURL(raw string) (cloneURL, rev, path string, err error) {
	trimmed := strings.TrimPrefix(raw, "git+")

	cut := strings.LastIndex(trimmed, "#")
	if cut < 0 {
		return "", "", "", fmt.Errorf("git URL missing #rev:path fragment: %s", raw)
	}

	rev, path, ok := strings.Cut(trimmed[cut+1:], ":")
	if !ok || path == "" {
		return "", "", "", fmt.Errorf("git URL fragment must be rev:path: %s", raw)
	}
	if rev == "" {
		rev = "HEAD"
	}

	return trimmed[:cut], rev, path, nil
}

// openGitReader clones the repository behind a git+ URL into memory and
// returns a reader for one file of the tree at the requested revision. A
// path missing from the tree maps to fs.ErrNotExist.
func openGitReader(raw string) (io.ReadCloser, error) {
	cloneURL, rev, path, err := parseGitURL(raw)
	if err != nil {
		return nil, err
	}

	repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{URL: cloneURL})
	if err != nil {
		return nil, fmt.Errorf("git clone %s: %w", cloneURL, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("git revision %s: %w", rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("git commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s: %w", raw, fs.ErrNotExist)
		}
		return nil, err
	}

	return file.Reader()
}
