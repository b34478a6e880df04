// Package fsutil regroupe les opérations fichiers partagées.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const backupTimeLayout = "20060102T150405"

// WriteFileAtomic remplace path par data sans jamais laisser de fichier
// tronqué : écriture dans un temporaire du même répertoire puis rename.
// Les répertoires parents sont créés au besoin.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	// best-effort : certaines plateformes ne supportent pas fsync
	_ = tmp.Sync()
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Backup copie path vers path.bak.<horodatage> et retourne le chemin créé.
func Backup(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("lecture de %s pour sauvegarde impossible : %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	backup := path + ".bak." + now.Format(backupTimeLayout)
	if err := WriteFileAtomic(backup, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("écriture de la sauvegarde %s impossible : %w", backup, err)
	}
	return backup, nil
}

// Restore remet en place le contenu d'une sauvegarde créée par Backup.
func Restore(backup, path string) error {
	data, err := os.ReadFile(backup)
	if err != nil {
		return fmt.Errorf("lecture de la sauvegarde %s impossible : %w", backup, err)
	}
	return WriteFileAtomic(path, data, 0o644)
}
