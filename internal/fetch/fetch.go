// Package fetch fournit des utilitaires légers et testables pour télécharger
// des ressources HTTP : limite de taille, timeout, et débit plafonné
// (golang.org/x/time/rate) pour ne pas marteler YouTube.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "ytranscript/1.0"
)

// Erreurs exportées
var (
	ErrStatus     = errors.New("unexpected HTTP status")
	ErrTooLarge   = errors.New("response body too large")
	ErrInvalidURL = errors.New("invalid url")
)

// Client regroupe les paramètres communs à toutes les requêtes.
// Le zéro n'est pas utilisable : passer par New.
type Client struct {
	HTTP      *http.Client
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	limiter   *rate.Limiter
}

// Options de construction ; les valeurs <= 0 prennent les défauts.
type Options struct {
	HTTP              *http.Client
	Timeout           time.Duration
	MaxBytes          int64
	UserAgent         string
	RequestsPerSecond float64 // <= 0 : pas de limite
}

// New construit un Client.
func New(opts Options) *Client {
	c := &Client{
		HTTP:      opts.HTTP,
		Timeout:   opts.Timeout,
		MaxBytes:  opts.MaxBytes,
		UserAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	if c.HTTP == nil {
		c.HTTP = &http.Client{}
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// Request décrit une requête ; Method vide => GET.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Bytes télécharge rawURL (GET) et retourne les octets.
func (c *Client) Bytes(ctx context.Context, rawURL string) ([]byte, error) {
	return c.Do(ctx, Request{URL: rawURL})
}

// Do exécute r et retourne le corps complet. Lit tout en mémoire (OK pour
// les réponses YouTube), dans la limite de MaxBytes.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	body, err := c.open(ctx, r)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	lr := io.LimitReader(body, c.MaxBytes+1) // +1 pour détecter dépassement
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(data)) > c.MaxBytes {
		return nil, fmt.Errorf("fetch: %w (>%d bytes)", ErrTooLarge, c.MaxBytes)
	}
	return data, nil
}

// timedBody annule le contexte de la requête à la fermeture du corps.
type timedBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b timedBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

// open envoie la requête et retourne le corps, à fermer par l'appelant.
func (c *Client) open(ctx context.Context, r Request) (io.ReadCloser, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// valider l'URL tôt
	u, err := url.ParseRequestURI(r.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("fetch: %w %q", ErrInvalidURL, r.URL)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch: rate limit: %w", err)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	var reqBody io.Reader
	if r.Body != nil {
		reqBody = bytes.NewReader(r.Body)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	req, err := http.NewRequestWithContext(ctx, method, r.URL, reqBody)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	for k, vs := range r.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fetch: request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("fetch: %w %s: %s", ErrStatus, resp.Status, bytes.TrimSpace(snippet))
	}
	// si Content-Length connu et supérieur à MaxBytes -> échouer vite
	if resp.ContentLength > c.MaxBytes {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("fetch: %w: content-length %d exceeds limit %d", ErrTooLarge, resp.ContentLength, c.MaxBytes)
	}
	return timedBody{ReadCloser: resp.Body, cancel: cancel}, nil
}
