package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/patrickprogramme/ytranscript/internal/app"
	"github.com/patrickprogramme/ytranscript/internal/clipboard"
	"github.com/patrickprogramme/ytranscript/internal/config"
	"github.com/patrickprogramme/ytranscript/internal/ui"
)

func main() {
	flags := parseFlags()

	// emplacement config par défaut : à côté de l'exécutable
	if flags.ConfigPath == config.DefaultFileName || flags.ConfigPath == "" {
		binDir := "."
		if exePath, err := os.Executable(); err != nil {
			log.Printf("impossible de déterminer le chemin de l'executable: %v", err)
		} else {
			binDir = filepath.Dir(exePath)
		}
		flags.ConfigPath = filepath.Join(binDir, config.DefaultFileName)
	}

	// charger la config (créée depuis l'asset embarqué si absente)
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// appliquer les flags par-dessus la config
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalide (%s): %v", cfg.Path(), err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	if (cfg.ReadClipboard || cfg.CopyToClipboard) && !clipboard.Available() {
		logger.Warn("presse-papier indisponible (xclip, xsel ou wl-clipboard requis)")
	}

	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, ui.NewTerminal(), flags, logger)
	if err := a.Run(ctx); err != nil {
		stop()
		log.Fatalf("app run: %v", err)
	}
}

func parseFlags() *app.CLIFlags {
	f := &app.CLIFlags{}
	flag.StringVar(&f.ConfigPath, "config", config.DefaultFileName, "path to config file")
	flag.StringVar(&f.URL, "url", "", "YouTube URL (optional, prompt otherwise)")
	flag.StringVar(&f.Provider, "provider", "", "transcript provider: innertube or ytdlp")
	flag.StringVar(&f.Lang, "lang", "", "comma-separated language preference (default: en)")
	flag.IntVar(&f.Chars, "chars", 0, "number of characters to preview (default: 1000)")
	flag.BoolVar(&f.Copy, "copy", false, "copier le transcript complet dans le presse-papier")
	flag.Parse()
	return f
}
