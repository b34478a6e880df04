package yt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrExtract : yt-dlp a échoué ; le message contient sa sortie.
var ErrExtract = errors.New("yt-dlp extraction failed")

// NewYtDlp construit une instance. Path doit être le chemin résolu vers l'exe ;
// vide => Name est cherché dans le PATH.
func NewYtDlp(name string, resolvedPath string, opts ExtractOptions) *YtDlp {
	return &YtDlp{
		Name:    name,
		Path:    resolvedPath,
		Options: opts,
		run:     ExecRunner,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithRunner remplace l'exécution de commandes (tests).
func (y *YtDlp) WithRunner(r Runner) *YtDlp {
	if r != nil {
		y.run = r
	}
	return y
}

// WithLogger branche le logger de debug.
func (y *YtDlp) WithLogger(l *slog.Logger) *YtDlp {
	if l != nil {
		y.logger = l
	}
	return y
}

func (y *YtDlp) exe() string {
	if y.Path != "" {
		return y.Path
	}
	return y.Name
}

// CheckBinary vérifie que le binaire existe et n'est pas un répertoire.
func (y *YtDlp) CheckBinary() error {
	if y == nil {
		return fmt.Errorf("yt-dlp non initialisé")
	}

	if y.Path == "" {
		// pas de chemin résolu : recherche dans le PATH
		if _, err := exec.LookPath(y.Name); err != nil {
			return fmt.Errorf("yt-dlp introuvable dans le PATH (%s) : %w", y.Name, err)
		}
		return nil
	}

	info, err := os.Stat(y.Path)
	if err != nil {
		return fmt.Errorf("yt-dlp introuvable (%s) à l'emplacement spécifié : %w", y.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("le chemin spécifié pour yt-dlp est un répertoire, pas un fichier exécutable : %s", y.Path)
	}
	return nil
}

// ExtractRaw exécute `yt-dlp -j <url>` et renvoie la sortie JSON brute.
// Les lignes non JSON de la sortie sont conservées comme avertissements.
func (y *YtDlp) ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error) {
	start := time.Now()
	defer func() {
		y.logger.Debug("yt-dlp metadata extracted", slog.Duration("elapsed", time.Since(start)))
	}()

	out, err := y.run(ctx, y.exe(), y.Options.Args(url)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w, output: %s", ErrExtract, err, strings.TrimSpace(string(out)))
	}

	var jsonLine string
	var warnings []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			jsonLine = line // -j sur une vidéo : une seule ligne JSON
		} else {
			warnings = append(warnings, line)
		}
	}
	if jsonLine == "" {
		return nil, fmt.Errorf("%w: aucun JSON détecté dans la sortie: %s", ErrExtract, string(out))
	}
	return &ExtractedRaw{
		JSON:     []byte(jsonLine),
		Warnings: warnings,
	}, nil
}

// GetVersion retourne la première ligne de `yt-dlp --version`.
// En cas d'échec la sortie combinée est jointe à l'erreur.
func (y *YtDlp) GetVersion(ctx context.Context) (string, error) {
	out, err := y.run(ctx, y.exe(), "--version")
	if err != nil {
		return "", fmt.Errorf("échec exécution yt-dlp --version : %w, output: %s", err, strings.TrimSpace(string(out)))
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if version == "" {
		return "", fmt.Errorf("yt-dlp --version : sortie vide")
	}
	return strings.TrimSpace(version), nil
}
