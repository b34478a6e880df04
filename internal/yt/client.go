package yt

import (
	"context"
	"os/exec"
)

// Interface est l'abstraction de yt-dlp utilisée par le Provider. Elle facilite
// le test en autorisant une implémentation factice.
type Interface interface {
	CheckBinary() error
	GetVersion(ctx context.Context) (string, error)
	ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error)
}

// Runner exécute une commande et retourne stdout+stderr.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner est le Runner réel, basé sur os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
