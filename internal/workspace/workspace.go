package workspace

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/driveops/sharesync/internal/utils"
)

var (
	ErrRootLocked = errors.New("sync root locked by another process")
)

// Workspace is the local directory tree being mirrored. It owns an advisory
// lock that keeps concurrent passes against the same root from interleaving.
// The lock file lives in the OS temp dir, never inside the synced tree.
type Workspace struct {
	Root string

	flock *flock.Flock
}

func New(rootDir string) (*Workspace, error) {
	root, err := utils.ResolvePath(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", rootDir, err)
	}

	if !utils.DirExists(root) {
		return nil, fmt.Errorf("local directory %q does not exist", root)
	}

	return &Workspace{
		Root:  root,
		flock: flock.New(lockFilePath(root)),
	}, nil
}

func (w *Workspace) Lock() error {
	locked, err := w.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock sync root: %w", err)
	}
	if !locked {
		return ErrRootLocked
	}
	return nil
}

func (w *Workspace) Unlock() error {
	if !w.flock.Locked() {
		return nil
	}

	if err := w.flock.Unlock(); err != nil {
		return fmt.Errorf("unlock sync root: %w", err)
	}

	return os.Remove(w.flock.Path())
}

// AbsPath returns the absolute path of a root-relative file.
func (w *Workspace) AbsPath(relPath string) string {
	return filepath.Join(w.Root, filepath.FromSlash(relPath))
}

// RelPath returns the normalized root-relative path of an absolute file.
func (w *Workspace) RelPath(absPath string) (string, error) {
	relPath, err := filepath.Rel(w.Root, absPath)
	if err != nil {
		return "", err
	}
	return NormPath(relPath), nil
}

// NormPath normalizes a path by cleaning it, replacing backslashes with
// slashes, and trimming leading slashes. Local and remote paths both pass
// through here so the two sides compare as identical strings.
func NormPath(path string) string {
	path = filepath.Clean(path)
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	return path
}

func lockFilePath(root string) string {
	hash := sha1.Sum([]byte(root))
	return filepath.Join(os.TempDir(), "sharesync-"+hex.EncodeToString(hash[:8])+".lock")
}
