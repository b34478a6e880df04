package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate vérifie la cohérence de la config ; toutes les erreurs sont regroupées.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config nil")
	}
	var errs []error
	switch c.Provider {
	case ProviderInnertube, ProviderYtDlp:
	default:
		errs = append(errs, fmt.Errorf("provider inconnu %q (attendu : %s ou %s)", c.Provider, ProviderInnertube, ProviderYtDlp))
	}
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("languages ne peut pas être vide"))
	}
	if c.PreviewChars <= 0 {
		errs = append(errs, fmt.Errorf("preview_chars doit être positif (%d)", c.PreviewChars))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level inconnu %q", c.LogLevel))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout doit être positif (%s)", c.HTTP.Timeout))
	}
	if c.HTTP.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("http.requests_per_second ne peut pas être négatif"))
	}
	switch c.Cache.Backend {
	case "", "none", "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.RedisAddr) == "" {
			errs = append(errs, errors.New("cache.redis_addr requis avec le backend redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend inconnu %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}

// ValidateYtDlpPresence vérifie de manière statique que si un ResolvedPath est défini,
// le fichier existe et que le répertoire parent est accessible.
// Retourne warnings (non-fataux) et une erreur si c'est critique.
func (c *Config) ValidateYtDlpPresence() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	// assure que le resolved path est calculé
	c.ResolveYtDlpPath()

	p := strings.TrimSpace(c.YtDlp.ResolvedPath)
	if p == "" {
		// pas de chemin résolu : la découverte dans PATH se fait au lancement
		warnings = append(warnings, "aucun chemin configuré pour yt-dlp; recherche dans PATH")
		return warnings, nil
	}

	parent := filepath.Dir(p)
	if st, serr := os.Stat(parent); serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("le dossier parent du chemin yt-dlp n'existe pas : %s", parent))
		} else {
			return warnings, fmt.Errorf("impossible d'accéder au dossier parent %s : %w", parent, serr)
		}
	} else if !st.IsDir() {
		return warnings, fmt.Errorf("le parent du chemin yt-dlp n'est pas un répertoire : %s", parent)
	}

	info, serr := os.Stat(p)
	if serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("yt-dlp introuvable à l'emplacement configuré : %s", p))
			return warnings, nil
		}
		return warnings, fmt.Errorf("erreur lors du test du fichier %s : %w", p, serr)
	}
	if info.IsDir() {
		return warnings, fmt.Errorf("le chemin configuré pour yt-dlp est un répertoire : %s", p)
	}
	return warnings, nil
}
