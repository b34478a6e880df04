package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// countingReader compte le nombre d'octets lus via Read.
type countingReader struct {
	R io.Reader
	N int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	if n > 0 {
		c.N += int64(n)
	}
	return n, err
}

// JSONInto exécute r et décode le JSON directement dans dst (pointeur).
// Utilise un json.Decoder sur un reader limité et détecte si le decode a nécessité
// plus de MaxBytes en vérifiant le compteur.
func (c *Client) JSONInto(ctx context.Context, r Request, dst any) error {
	body, err := c.open(ctx, r)
	if err != nil {
		return err
	}
	defer body.Close()

	// on crée un reader qui limite et qui compte les octets lus
	cr := &countingReader{R: io.LimitReader(body, c.MaxBytes+1)}
	if err := json.NewDecoder(cr).Decode(dst); err != nil {
		// erreur de décodage (JSON invalide, EOF inattendu, etc.)
		return fmt.Errorf("fetch json: decode: %w", err)
	}
	// si on a lu plus que MaxBytes, le decode a consommé MaxBytes+1 => overflow
	if cr.N > c.MaxBytes {
		return ErrTooLarge
	}
	return nil
}

// PostJSON encode payload, l'envoie en POST et décode la réponse dans dst.
func (c *Client) PostJSON(ctx context.Context, rawURL string, header http.Header, payload, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("fetch json: encode: %w", err)
	}
	h := http.Header{"Content-Type": {"application/json"}}
	for k, vs := range header {
		h[http.CanonicalHeaderKey(k)] = vs
	}
	return c.JSONInto(ctx, Request{Method: http.MethodPost, URL: rawURL, Header: h, Body: b}, dst)
}
