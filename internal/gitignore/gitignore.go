package gitignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Rule is the ignore pattern that keeps encrypted artifacts out of
// version control.
const Rule = "*.gpg"

const fileName = ".gitignore"

// EnsureRule makes sure dir's .gitignore contains Rule. It only acts when
// dir is itself a git repository root; anything else is a no-op. Running
// it any number of times converges on the same file content.
func EnsureRule(dir string) error {
	if _, err := git.PlainOpen(dir); err != nil {
		// Not a repository root: nothing to keep out of version control.
		return nil
	}

	path := filepath.Join(dir, fileName)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(path, []byte(Rule+"\n"), 0644); writeErr != nil {
			return fmt.Errorf("failed to create %s: %w", path, writeErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if hasRule(string(content)) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	line := Rule + "\n"
	if len(content) > 0 && content[len(content)-1] != '\n' {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

func hasRule(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == Rule {
			return true
		}
	}
	return false
}
