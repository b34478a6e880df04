package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// applyEnv charge le .env (s'il existe) puis applique les variables YTRANSCRIPT_*.
// Les variables déjà présentes dans l'environnement priment sur le .env.
func (c *Config) applyEnv(envFile string, environ map[string]string) error {
	if environ == nil {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("lecture du fichier %s impossible : %w", envFile, err)
			}
		}
	} else if envFile != "" {
		dotenv, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("lecture du fichier %s impossible : %w", envFile, err)
		}
		merged := make(map[string]string, len(environ)+len(dotenv))
		for k, v := range dotenv {
			merged[k] = v
		}
		for k, v := range environ {
			merged[k] = v
		}
		environ = merged
	}

	if err := env.ParseWithOptions(c, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return fmt.Errorf("analyse des variables d'environnement %s* impossible : %w", EnvPrefix, err)
	}
	return nil
}
