package project

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// digest fingerprints descriptor bytes for snapshot naming and the
// stale-write guard.
func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// backupDir resolves where snapshots of the descriptor at path go: an
// explicit override, or .xcproj-backups next to the descriptor.
func backupDir(path, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(filepath.Dir(path), ".xcproj-backups")
}

// BackupDirFor reports where snapshots of the descriptor at path are
// stored, honoring an override directory.
func BackupDirFor(path, override string) string {
	return backupDir(path, override)
}

// BackupManifest describes one stored snapshot.
type BackupManifest struct {
	Path    string    `toml:"path"`
	Created time.Time `toml:"created"`
	Size    int64     `toml:"size"`
	Digest  string    `toml:"digest"`
}

// writeBackup stores a compressed snapshot of data under dir, keyed by
// content digest, with a manifest alongside. Snapshots are
// content-addressed, so storing the same bytes twice is a no-op.
func writeBackup(dir, srcPath string, data []byte) error {
	sum := digest(data)
	snap := filepath.Join(dir, sum+".pbxproj.zst")
	if _, err := os.Stat(snap); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("backup %s: %w", srcPath, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("backup %s: %w", srcPath, err)
	}
	defer enc.Close()
	if err := os.WriteFile(snap, enc.EncodeAll(data, nil), 0o644); err != nil {
		return fmt.Errorf("backup %s: %w", srcPath, err)
	}

	m := BackupManifest{
		Path:    srcPath,
		Created: time.Now().UTC(),
		Size:    int64(len(data)),
		Digest:  sum,
	}
	blob, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("backup manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sum+".toml"), blob, 0o644); err != nil {
		return fmt.Errorf("backup manifest: %w", err)
	}
	return nil
}

// ReadBackup restores the snapshot stored under dir for the given
// digest, verifying the decompressed bytes still match it.
func ReadBackup(dir, sum string) ([]byte, BackupManifest, error) {
	var m BackupManifest
	raw, err := os.ReadFile(filepath.Join(dir, sum+".toml"))
	if err != nil {
		return nil, m, fmt.Errorf("read backup %s: %w", sum, err)
	}
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, m, fmt.Errorf("read backup %s: %w", sum, err)
	}

	blob, err := os.ReadFile(filepath.Join(dir, sum+".pbxproj.zst"))
	if err != nil {
		return nil, m, fmt.Errorf("read backup %s: %w", sum, err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, m, fmt.Errorf("read backup %s: %w", sum, err)
	}
	defer dec.Close()
	data, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, m, fmt.Errorf("read backup %s: %w", sum, err)
	}
	if digest(data) != sum {
		return nil, m, fmt.Errorf("read backup %s: snapshot does not match its digest", sum)
	}
	return data, m, nil
}

// ListBackups returns the manifests stored under dir, oldest first.
// A missing directory reads as empty.
func ListBackups(dir string) ([]BackupManifest, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	var out []BackupManifest
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		var m BackupManifest
		if err := toml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("list backups: %s: %w", e.Name(), err)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

// PruneBackups deletes the oldest snapshots under dir until at most
// keep remain, returning how many were removed. keep <= 0 keeps all.
func PruneBackups(dir string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	all, err := ListBackups(dir)
	if err != nil {
		return 0, err
	}
	if len(all) <= keep {
		return 0, nil
	}

	removed := 0
	for _, m := range all[:len(all)-keep] {
		for _, name := range []string{m.Digest + ".pbxproj.zst", m.Digest + ".toml"} {
			if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("prune backups: %w", err)
			}
		}
		removed++
	}
	return removed, nil
}
