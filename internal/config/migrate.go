package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// migrations[v] fait passer une config de la version v à v+1.
var migrations = map[int]func(*Config){
	// config_version absent (0) : même format que la version 1
	0: func(*Config) {},
	// 1 -> 2 : "language: fr" devient "languages: [fr]"
	1: func(c *Config) {
		if c.Language != "" {
			c.Languages = []string{c.Language}
			c.Language = ""
		}
	},
}

// orchestrateConfigUpgrade : sauvegarde, migration, écriture
func orchestrateConfigUpgrade(cfg *Config, fromVersion int, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config nil lors de la migration")
	}
	path := cfg.configFilePath
	if path == "" {
		return errors.New("chemin du fichier de configuration inconnu : impossible de faire une sauvegarde")
	}

	backupPath, err := fsutil.Backup(path, time.Now())
	if err != nil {
		return fmt.Errorf("échec de la sauvegarde avant migration : %w", err)
	}

	if err := migrateConfig(cfg, fromVersion); err != nil {
		return fmt.Errorf("échec lors de la migration de la configuration (depuis %d) : %w", fromVersion, err)
	}
	cfg.normalizeConfig()

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("échec d'encodage YAML de la configuration migrée : %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		if rerr := fsutil.Restore(backupPath, path); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return fmt.Errorf("échec d'écriture du fichier de configuration migré %s : %w", path, err)
	}

	logger.Info("configuration mise à jour",
		slog.Int("from", fromVersion),
		slog.Int("to", CurrentConfigVersion),
		slog.String("backup", backupPath))
	return nil
}

// migrateConfig applique dans l'ordre les étapes from -> CurrentConfigVersion.
func migrateConfig(cfg *Config, from int) error {
	if from < 0 || from > CurrentConfigVersion {
		return fmt.Errorf("config_version %d non supportée", from)
	}
	for v := from; v < CurrentConfigVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return fmt.Errorf("aucune migration depuis la version %d", v)
		}
		step(cfg)
	}
	cfg.ConfigVersion = CurrentConfigVersion
	return nil
}
