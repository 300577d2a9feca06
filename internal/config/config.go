package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Mode selects which transform a run applies.
type Mode int

const (
	Encrypt Mode = iota + 1
	Decrypt
	Clean
)

func (m Mode) String() string {
	switch m {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	case Clean:
		return "clean"
	default:
		return "unknown"
	}
}

// Config is the validated, immutable input for one engine run.
type Config struct {
	Mode      Mode
	Directory string // absolute path, verified to exist
	Force     bool   // skip the clean confirmation prompt
	Recipient string // GPG identity, set iff Mode is Encrypt
	Exclude   []string
}

// ProjectFileName is the optional per-directory configuration file.
const ProjectFileName = ".envseal.toml"

// ProjectFile mirrors the optional .envseal.toml at the target root.
type ProjectFile struct {
	Recipient string   `toml:"recipient"`
	Exclude   []string `toml:"exclude"`
}

// LoadProjectFile reads dir's .envseal.toml. A missing file is not an
// error and yields the zero value.
func LoadProjectFile(dir string) (ProjectFile, error) {
	var pf ProjectFile

	path := filepath.Join(dir, ProjectFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return pf, nil
	}

	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return pf, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return pf, nil
}

// New builds a validated Config for one run. The directory is resolved to
// an absolute path and must exist; the optional project file supplies a
// default recipient (encrypt only) and extra exclude patterns, with flag
// values taking precedence.
func New(mode Mode, dir string, force bool, recipient string, exclude []string) (Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(absDir)
	if os.IsNotExist(err) {
		return Config{}, fmt.Errorf("directory does not exist: %s", absDir)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to access %s: %w", absDir, err)
	}
	if !info.IsDir() {
		return Config{}, fmt.Errorf("not a directory: %s", absDir)
	}

	pf, err := LoadProjectFile(absDir)
	if err != nil {
		return Config{}, err
	}

	if mode == Encrypt && recipient == "" {
		recipient = pf.Recipient
	}
	exclude = append(append([]string{}, exclude...), pf.Exclude...)

	cfg := Config{
		Mode:      mode,
		Directory: absDir,
		Force:     force,
		Recipient: recipient,
		Exclude:   exclude,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the Config invariants: exactly one known mode, an
// absolute directory, and a recipient present iff the mode is Encrypt.
func (c Config) Validate() error {
	switch c.Mode {
	case Encrypt, Decrypt, Clean:
	default:
		return fmt.Errorf("no mode selected")
	}

	if !filepath.IsAbs(c.Directory) {
		return fmt.Errorf("directory must be absolute: %s", c.Directory)
	}

	if c.Mode == Encrypt && c.Recipient == "" {
		return fmt.Errorf("a recipient is required to encrypt (use --recipient or set one in %s)", ProjectFileName)
	}
	if c.Mode != Encrypt && c.Recipient != "" {
		return fmt.Errorf("a recipient only applies to encrypt")
	}

	return nil
}
