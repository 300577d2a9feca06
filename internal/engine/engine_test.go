package engine

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"

	"github.com/haydenwalker/envseal/internal/config"
	logger "github.com/haydenwalker/envseal/internal/logging"
)

// fakeProvider is an in-memory stand-in for the gpg subprocess. Encrypt
// prepends a reversible header so decrypt can restore the exact bytes.
type fakeProvider struct {
	checkErr  error
	failPaths map[string]bool

	encryptCalls int
	decryptCalls int
}

const fakeHeader = "sealed:"

func (f *fakeProvider) Check() error {
	return f.checkErr
}

func (f *fakeProvider) Encrypt(src, recipient string) (string, error) {
	f.encryptCalls++
	if f.failPaths[src] {
		return "", errors.New("simulated provider failure")
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	dst := src + ".gpg"
	sealed := append([]byte(fakeHeader+recipient+"\n"), data...)
	if err := os.WriteFile(dst, sealed, 0644); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *fakeProvider) Decrypt(src string) (string, error) {
	f.decryptCalls++
	if f.failPaths[src] {
		return "", errors.New("simulated provider failure")
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	idx := bytes.IndexByte(data, '\n')
	if !bytes.HasPrefix(data, []byte(fakeHeader)) || idx < 0 {
		return "", errors.New("not sealed by the fake provider")
	}

	dst := strings.TrimSuffix(src, ".gpg")
	if err := os.WriteFile(dst, data[idx+1:], 0600); err != nil {
		return "", err
	}
	return dst, nil
}

// failOnRead fails the test if the engine touches the confirmation input.
type failOnRead struct{ t *testing.T }

func (r failOnRead) Read([]byte) (int, error) {
	r.t.Error("Confirmation input was read when it should not have been")
	return 0, errors.New("unexpected read")
}

func newTestEngine(p *fakeProvider) (*Engine, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Engine{Provider: p, Logger: logger.Logger{}, Out: out}, out
}

func cleanConfig(t *testing.T, dir string, force bool) config.Config {
	t.Helper()
	cfg, err := config.New(config.Clean, dir, force, "", nil)
	if err != nil {
		t.Fatalf("Failed to build config: %v", err)
	}
	return cfg
}

func encryptConfig(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg, err := config.New(config.Encrypt, dir, false, "ops@example.com", nil)
	if err != nil {
		t.Fatalf("Failed to build config: %v", err)
	}
	return cfg
}

func decryptConfig(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg, err := config.New(config.Decrypt, dir, false, "", nil)
	if err != nil {
		t.Fatalf("Failed to build config: %v", err)
	}
	return cfg
}

func TestEncrypt_CreatesSiblingsAndKeepsOriginals(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "a", ".env"), "A=1\n")
	writeTestFile(t, filepath.Join(tmpDir, "b", ".env"), "B=2\n")

	eng, _ := newTestEngine(&fakeProvider{})
	res, err := eng.Encrypt(encryptConfig(t, tmpDir))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if res.Attempted != 2 || res.Succeeded != 2 || len(res.Failures) != 0 {
		t.Fatalf("Unexpected result: %+v", res)
	}

	for _, rel := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(tmpDir, rel, ".env.gpg")); err != nil {
			t.Errorf("Expected ciphertext in %s: %v", rel, err)
		}
	}

	// Originals are byte-unchanged: encryption is additive.
	data, err := os.ReadFile(filepath.Join(tmpDir, "a", ".env"))
	if err != nil || string(data) != "A=1\n" {
		t.Errorf("Original plaintext changed: %q, %v", data, err)
	}

	// Not a repository, so no ignore file appears.
	if _, err := os.Stat(filepath.Join(tmpDir, ".gitignore")); !os.IsNotExist(err) {
		t.Error("Expected no .gitignore outside a repository")
	}
}

func TestEncrypt_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, "app", ".env")
	original := "SECRET=hunter2\nTOKEN=abc\n"
	writeTestFile(t, envPath, original)

	eng, _ := newTestEngine(&fakeProvider{})
	if _, err := eng.Encrypt(encryptConfig(t, tmpDir)); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Clobber the plaintext, then decrypt to restore it.
	writeTestFile(t, envPath, "WRONG=1\n")
	res, err := eng.Decrypt(decryptConfig(t, tmpDir))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if res.Succeeded != 1 {
		t.Fatalf("Unexpected result: %+v", res)
	}

	data, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatalf("Failed to read restored plaintext: %v", err)
	}
	if string(data) != original {
		t.Errorf("Round trip mismatch: %q", data)
	}
}

func TestEncrypt_WritesIgnoreRuleInRepository(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := git.PlainInit(tmpDir, false); err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	writeTestFile(t, filepath.Join(tmpDir, ".env"), "A=1\n")

	eng, _ := newTestEngine(&fakeProvider{})
	if _, err := eng.Encrypt(encryptConfig(t, tmpDir)); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, ".gitignore"))
	if err != nil {
		t.Fatalf("Expected a .gitignore: %v", err)
	}
	if string(data) != "*.gpg\n" {
		t.Errorf("Unexpected .gitignore content: %q", data)
	}
}

func TestEncrypt_NoIgnoreRuleWhenNothingSucceeded(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := git.PlainInit(tmpDir, false); err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	envPath := filepath.Join(tmpDir, ".env")
	writeTestFile(t, envPath, "A=1\n")

	p := &fakeProvider{failPaths: map[string]bool{envPath: true}}
	eng, _ := newTestEngine(p)
	res, err := eng.Encrypt(encryptConfig(t, tmpDir))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if res.Succeeded != 0 || len(res.Failures) != 1 {
		t.Fatalf("Unexpected result: %+v", res)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".gitignore")); !os.IsNotExist(err) {
		t.Error("Expected no .gitignore when no file was encrypted")
	}
}

func TestEncrypt_FailureIsolation(t *testing.T) {
	tmpDir := t.TempDir()
	for _, rel := range []string{"a", "b", "c"} {
		writeTestFile(t, filepath.Join(tmpDir, rel, ".env"), rel+"\n")
	}
	failing := filepath.Join(tmpDir, "b", ".env")

	p := &fakeProvider{failPaths: map[string]bool{failing: true}}
	eng, _ := newTestEngine(p)
	res, err := eng.Encrypt(encryptConfig(t, tmpDir))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if res.Attempted != 3 || res.Succeeded != 2 {
		t.Fatalf("Unexpected result: %+v", res)
	}
	if len(res.Failures) != 1 || res.Failures[0].Path != failing {
		t.Fatalf("Unexpected failures: %+v", res.Failures)
	}

	// The file after the failing one was still processed.
	if _, err := os.Stat(filepath.Join(tmpDir, "c", ".env.gpg")); err != nil {
		t.Errorf("Expected c/.env.gpg despite earlier failure: %v", err)
	}
}

func TestEncrypt_EmptyTreeNeverCallsProvider(t *testing.T) {
	p := &fakeProvider{}
	eng, _ := newTestEngine(p)

	res, err := eng.Encrypt(encryptConfig(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if res.Attempted != 0 || res.Succeeded != 0 {
		t.Fatalf("Unexpected result: %+v", res)
	}
	if p.encryptCalls != 0 {
		t.Errorf("Provider was called %d times on an empty tree", p.encryptCalls)
	}
}

func TestEncrypt_ProviderMissingIsFatalBeforeAnyFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, ".env"), "A=1\n")

	p := &fakeProvider{checkErr: errors.New("gpg is not installed")}
	eng, _ := newTestEngine(p)

	if _, err := eng.Encrypt(encryptConfig(t, tmpDir)); err == nil {
		t.Fatal("Expected the precondition failure to be returned")
	}
	if p.encryptCalls != 0 {
		t.Errorf("No file should be touched when the provider is missing")
	}
}

func TestDecrypt_OverwritesExistingPlaintext(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	writeTestFile(t, envPath, "OLD=1\n")

	eng, _ := newTestEngine(&fakeProvider{})
	if _, err := eng.Encrypt(encryptConfig(t, tmpDir)); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	writeTestFile(t, envPath, "STALE=1\n")
	res, err := eng.Decrypt(decryptConfig(t, tmpDir))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if res.Succeeded != 1 {
		t.Fatalf("Unexpected result: %+v", res)
	}

	data, _ := os.ReadFile(envPath)
	if string(data) != "OLD=1\n" {
		t.Errorf("Expected plaintext to be overwritten, got: %q", data)
	}

	// The ciphertext is left in place.
	if _, err := os.Stat(envPath + ".gpg"); err != nil {
		t.Errorf("Ciphertext should remain: %v", err)
	}
}

func TestClean_CancelledOnEmptyResponse(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "a", ".env"), "A=1\n")
	writeTestFile(t, filepath.Join(tmpDir, "b", ".env"), "B=2\n")

	eng, out := newTestEngine(&fakeProvider{})
	eng.In = strings.NewReader("\n")

	res, err := eng.Clean(cleanConfig(t, tmpDir, false))
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !res.Cancelled || res.Attempted != 0 || res.Succeeded != 0 {
		t.Fatalf("Expected a cancelled result, got: %+v", res)
	}

	// The full list was shown before the prompt.
	output := out.String()
	for _, rel := range []string{"a", "b"} {
		if !strings.Contains(output, filepath.Join(tmpDir, rel, ".env")) {
			t.Errorf("Listing is missing %s/.env:\n%s", rel, output)
		}
	}
	if !strings.Contains(output, "[y/N]") {
		t.Errorf("Expected a confirmation prompt:\n%s", output)
	}

	// Nothing was deleted.
	for _, rel := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(tmpDir, rel, ".env")); err != nil {
			t.Errorf("File %s/.env should still exist: %v", rel, err)
		}
	}
}

func TestClean_CancelledOnNegativeResponse(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, ".env"), "A=1\n")

	eng, _ := newTestEngine(&fakeProvider{})
	eng.In = strings.NewReader("n\n")

	res, err := eng.Clean(cleanConfig(t, tmpDir, false))
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !res.Cancelled {
		t.Fatalf("Expected a cancelled result, got: %+v", res)
	}
}

func TestClean_ConfirmedResponses(t *testing.T) {
	for _, answer := range []string{"y\n", "Y\n", "yes\n", "YES\n", "y"} {
		tmpDir := t.TempDir()
		envPath := filepath.Join(tmpDir, ".env")
		writeTestFile(t, envPath, "A=1\n")

		eng, _ := newTestEngine(&fakeProvider{})
		eng.In = strings.NewReader(answer)

		res, err := eng.Clean(cleanConfig(t, tmpDir, false))
		if err != nil {
			t.Fatalf("Clean failed for answer %q: %v", answer, err)
		}
		if res.Cancelled || res.Succeeded != 1 {
			t.Fatalf("Expected deletion for answer %q, got: %+v", answer, res)
		}
		if _, err := os.Stat(envPath); !os.IsNotExist(err) {
			t.Errorf("File should be deleted for answer %q", answer)
		}
	}
}

func TestClean_ForceSkipsPrompt(t *testing.T) {
	tmpDir := t.TempDir()
	for _, rel := range []string{"a", "b", "c"} {
		writeTestFile(t, filepath.Join(tmpDir, rel, ".env"), rel+"\n")
	}

	eng, _ := newTestEngine(&fakeProvider{})
	eng.In = failOnRead{t}

	res, err := eng.Clean(cleanConfig(t, tmpDir, true))
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if res.Succeeded != 3 || res.Cancelled {
		t.Fatalf("Unexpected result: %+v", res)
	}
	for _, rel := range []string{"a", "b", "c"} {
		if _, err := os.Stat(filepath.Join(tmpDir, rel, ".env")); !os.IsNotExist(err) {
			t.Errorf("File %s/.env should be deleted", rel)
		}
	}
}

func TestClean_EmptyTreeNeverPrompts(t *testing.T) {
	eng, out := newTestEngine(&fakeProvider{})
	eng.In = failOnRead{t}

	res, err := eng.Clean(cleanConfig(t, t.TempDir(), false))
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if res.Attempted != 0 || res.Cancelled {
		t.Fatalf("Unexpected result: %+v", res)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no listing output, got: %q", out.String())
	}
}

func TestDeleteFiles_FailureIsolation(t *testing.T) {
	tmpDir := t.TempDir()
	existing := []string{
		filepath.Join(tmpDir, "a", ".env"),
		filepath.Join(tmpDir, "c", ".env"),
	}
	for _, path := range existing {
		writeTestFile(t, path, "X=1\n")
	}
	// A snapshot entry that vanished after discovery fails to delete but
	// must not stop the rest of the batch.
	snapshot := []string{existing[0], filepath.Join(tmpDir, "b", ".env"), existing[1]}

	eng, _ := newTestEngine(&fakeProvider{})
	var res Result
	eng.deleteFiles(snapshot, &res)

	if res.Attempted != 3 || res.Succeeded != 2 || len(res.Failures) != 1 {
		t.Fatalf("Unexpected result: %+v", res)
	}
	if res.Failures[0].Path != snapshot[1] {
		t.Errorf("Unexpected failing path: %s", res.Failures[0].Path)
	}
	for _, path := range existing {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("File %s should be deleted", path)
		}
	}
}
