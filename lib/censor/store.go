package censor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-pkgz/fileutils"
)

// rulesFileVersion tags the persisted blob format. Load rejects any other
// version instead of guessing.
const rulesFileVersion = 1

// rulesBlob is the on-disk form of RuleSet, a single CBOR document.
type rulesBlob struct {
	Version int      `cbor:"version"`
	Words   []string `cbor:"words"`
	Admins  []Admin  `cbor:"admins"`
}

// FileStore persists a RuleSet as a CBOR blob in a single file. Writes go
// through a temp file in the same directory followed by a rename, so a crash
// mid-write can't leave a truncated blob behind. With backup enabled the
// previous blob is copied to <file>.bak before each write.
type FileStore struct {
	fileName string
	backup   bool
}

// NewFileStore makes a store keeping the rule set in the given file.
func NewFileStore(fileName string, backup bool) *FileStore {
	return &FileStore{fileName: fileName, backup: backup}
}

// Save writes the full rule set, replacing the previous blob.
func (f *FileStore) Save(rules RuleSet) error {
	data, err := cbor.Marshal(rulesBlob{Version: rulesFileVersion, Words: rules.Words, Admins: rules.Admins})
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.fileName), 0o700); err != nil {
		return fmt.Errorf("failed to make dir for %s: %w", f.fileName, err)
	}

	if f.backup && fileutils.IsFile(f.fileName) {
		if err := fileutils.CopyFile(f.fileName, f.fileName+".bak"); err != nil {
			return fmt.Errorf("failed to backup %s: %w", f.fileName, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.fileName), filepath.Base(f.fileName)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to make temp file for %s: %w", f.fileName, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.fileName); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.fileName, err)
	}
	return nil
}

// Load reads the full rule set. A missing file comes back wrapping
// fs.ErrNotExist so the caller can treat it as a recoverable fresh start,
// anything else means the blob is there but can't be used.
func (f *FileStore) Load() (RuleSet, error) {
	data, err := os.ReadFile(f.fileName)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to read %s: %w", f.fileName, err)
	}
	var blob rulesBlob
	if err := cbor.Unmarshal(data, &blob); err != nil {
		return RuleSet{}, fmt.Errorf("failed to decode %s: %w", f.fileName, err)
	}
	if blob.Version != rulesFileVersion {
		return RuleSet{}, fmt.Errorf("unsupported rules file version %d in %s", blob.Version, f.fileName)
	}
	return RuleSet{Words: blob.Words, Admins: blob.Admins}, nil
}
