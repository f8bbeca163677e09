package sync

import (
	"bufio"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/driveops/sharesync/internal/utils"
)

const (
	// IgnoreFileName is the rules file read from the sync root.
	IgnoreFileName = ".gitignore"

	// gitDirName is pruned unconditionally, rules or not.
	gitDirName = ".git"
)

// IgnoreList decides which local paths stay out of a sync pass. Rules come
// from the root's ignore file plus any extra exclude globs. Paths are matched
// in forward-slash relative form.
type IgnoreList struct {
	rules  *gitignore.GitIgnore
	extras []string
}

// NewIgnoreList compiles the root's ignore file. A missing file means no
// rules, extraGlobs are doublestar patterns appended from the command line.
func NewIgnoreList(rootDir string, extraGlobs []string) *IgnoreList {
	ignorePath := filepath.Join(rootDir, IgnoreFileName)
	var ignoreLines []string

	if utils.FileExists(ignorePath) {
		file, err := os.Open(ignorePath)
		if err != nil {
			slog.Warn("failed to open ignore file", "path", ignorePath, "error", err)
		} else {
			defer file.Close()

			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if line != "" {
					ignoreLines = append(ignoreLines, line)
				}
			}
			if err := scanner.Err(); err != nil {
				slog.Warn("error reading ignore file", "path", ignorePath, "error", err)
			} else {
				slog.Debug("loaded ignore file", "path", ignorePath, "rules", len(ignoreLines))
			}
		}
	}

	return &IgnoreList{
		rules:  gitignore.CompileIgnoreLines(ignoreLines...),
		extras: extraGlobs,
	}
}

// Match reports whether a file at relPath is ignored.
func (l *IgnoreList) Match(relPath string) bool {
	if l.rules.MatchesPath(relPath) {
		return true
	}

	for _, glob := range l.extras {
		if ok, err := doublestar.Match(glob, relPath); err == nil && ok {
			return true
		}
	}

	return false
}

// MatchDir is the directory form of Match. Rules like "build/" only match
// with the trailing slash, so both spellings are checked.
func (l *IgnoreList) MatchDir(relPath string) bool {
	if path.Base(relPath) == gitDirName {
		return true
	}

	return l.Match(relPath) || l.Match(relPath+"/")
}
