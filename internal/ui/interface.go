package ui

import "context"

type Interface interface {
	// PromptURL affiche l'invite et renvoie la ligne saisie, sans espaces autour.
	// Aucune validation : une saisie vide est transmise telle quelle.
	PromptURL(ctx context.Context) (string, error)

	// PrintTranscript affiche l'aperçu du transcript ; n est la limite demandée.
	PrintTranscript(ctx context.Context, n int, preview string)
	// PrintFailure affiche le message d'échec destiné à l'utilisateur.
	PrintFailure(ctx context.Context)

	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)
}
