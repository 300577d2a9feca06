package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haydenwalker/envseal/internal/config"
	"github.com/haydenwalker/envseal/internal/gitignore"
	logger "github.com/haydenwalker/envseal/internal/logging"
	"github.com/haydenwalker/envseal/internal/provider"
	"github.com/haydenwalker/envseal/internal/ui"
)

// Failure records one file whose transform did not succeed.
type Failure struct {
	Path string
	Err  error
}

// Result aggregates one batch. Attempted counts every file handed to the
// transform, Succeeded the ones that completed, and Produced holds the
// paths each success created (or, for clean, deleted).
type Result struct {
	Attempted int
	Succeeded int
	Produced  []string
	Failures  []Failure
	Cancelled bool
}

// Engine applies one transform to every matching file under a directory.
// Failures are isolated per file: a batch always runs to the end of its
// snapshot unless the operator cancels it at the clean confirmation.
type Engine struct {
	Provider provider.Provider
	Logger   logger.Logger
	In       io.Reader // confirmation input, nil means os.Stdin
	Out      io.Writer // listing and prompt output, nil means os.Stdout
}

func (e *Engine) in() io.Reader {
	if e.In != nil {
		return e.In
	}
	return os.Stdin
}

func (e *Engine) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

// Encrypt encrypts every .env file under cfg.Directory for cfg.Recipient,
// leaving the plaintext files in place. After at least one success it
// ensures the directory's version-control ignore rules exclude the
// encrypted artifacts.
func (e *Engine) Encrypt(cfg config.Config) (Result, error) {
	var res Result

	if err := e.Provider.Check(); err != nil {
		return res, err
	}

	files := Discover(cfg.Directory, PlainName, cfg.Exclude)
	e.Logger.Debugf("Discovered %d %s files under %s", len(files), PlainName, cfg.Directory)
	if len(files) == 0 {
		e.Logger.Warnf("No %s files found in %s", PlainName, cfg.Directory)
		return res, nil
	}

	for _, file := range files {
		res.Attempted++
		dst, err := e.Provider.Encrypt(file, cfg.Recipient)
		if err != nil {
			e.Logger.Errorf("Failed to encrypt %s: %v", file, err)
			res.Failures = append(res.Failures, Failure{Path: file, Err: err})
			continue
		}
		e.Logger.Infof("Encrypted %s -> %s", file, dst)
		res.Succeeded++
		res.Produced = append(res.Produced, dst)
	}

	if res.Succeeded > 0 {
		if err := gitignore.EnsureRule(cfg.Directory); err != nil {
			e.Logger.Warnf("Failed to update ignore rules in %s: %v", cfg.Directory, err)
		}
	}

	e.Logger.Infof("Encrypted %d of %d files", res.Succeeded, res.Attempted)
	return res, nil
}

// Decrypt decrypts every .env.gpg file under cfg.Directory back to its
// plaintext sibling, overwriting existing plaintext without confirmation.
func (e *Engine) Decrypt(cfg config.Config) (Result, error) {
	var res Result

	if err := e.Provider.Check(); err != nil {
		return res, err
	}

	files := Discover(cfg.Directory, EncryptedName, cfg.Exclude)
	e.Logger.Debugf("Discovered %d %s files under %s", len(files), EncryptedName, cfg.Directory)
	if len(files) == 0 {
		e.Logger.Warnf("No %s files found in %s", EncryptedName, cfg.Directory)
		return res, nil
	}

	for _, file := range files {
		res.Attempted++
		dst, err := e.Provider.Decrypt(file)
		if err != nil {
			e.Logger.Errorf("Failed to decrypt %s: %v", file, err)
			res.Failures = append(res.Failures, Failure{Path: file, Err: err})
			continue
		}
		e.Logger.Infof("Decrypted %s -> %s", file, dst)
		res.Succeeded++
		res.Produced = append(res.Produced, dst)
	}

	e.Logger.Infof("Decrypted %d of %d files", res.Succeeded, res.Attempted)
	return res, nil
}

// Clean deletes every .env file under cfg.Directory. The full list is
// always shown before anything is deleted; without cfg.Force the operator
// must confirm it first. The list shown and the list deleted are the same
// snapshot, so files appearing between the two steps are never touched.
func (e *Engine) Clean(cfg config.Config) (Result, error) {
	var res Result

	files := Discover(cfg.Directory, PlainName, cfg.Exclude)
	e.Logger.Debugf("Discovered %d %s files under %s", len(files), PlainName, cfg.Directory)
	if len(files) == 0 {
		e.Logger.Warnf("No %s files found in %s", PlainName, cfg.Directory)
		return res, nil
	}

	fmt.Fprintf(e.out(), "The following %d file(s) will be deleted:\n", len(files))
	for _, file := range files {
		fmt.Fprintf(e.out(), "    - %s\n", ui.Path.Sprint(file))
	}

	if !cfg.Force && !e.confirm() {
		e.Logger.Infof("Clean cancelled by operator; nothing was deleted")
		res.Cancelled = true
		return res, nil
	}

	e.deleteFiles(files, &res)
	e.Logger.Infof("Deleted %d of %d files", res.Succeeded, res.Attempted)
	return res, nil
}

// deleteFiles removes the snapshot in order with per-file isolation.
func (e *Engine) deleteFiles(files []string, res *Result) {
	for _, file := range files {
		res.Attempted++
		if err := os.Remove(file); err != nil {
			e.Logger.Errorf("Failed to delete %s: %v", file, err)
			res.Failures = append(res.Failures, Failure{Path: file, Err: err})
			continue
		}
		e.Logger.Infof("Deleted %s", file)
		res.Succeeded++
		res.Produced = append(res.Produced, file)
	}
}

// confirm reads one line from the confirmation input. Only y or yes (any
// case) proceeds; anything else, including an empty line or a read
// failure, cancels.
func (e *Engine) confirm() bool {
	fmt.Fprint(e.out(), "Do you want to continue? [y/N]: ")

	response, err := bufio.NewReader(e.in()).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
