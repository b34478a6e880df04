package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/assets"
	"github.com/patrickprogramme/ytranscript/internal/bootstrap"
	"gopkg.in/yaml.v3"
)

const (
	CurrentConfigVersion = 2
	DefaultFileName      = "ytranscript.yaml"
	DefaultEnvFile       = ".env"
	EnvPrefix            = "YTRANSCRIPT_"
)

// Providers supportés
const (
	ProviderInnertube = "innertube"
	ProviderYtDlp     = "ytdlp"
)

// HTTPConfig : paramètres des requêtes vers YouTube
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxBytes          int64         `yaml:"max_bytes" env:"MAX_BYTES"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
}

// CacheConfig : cache des transcripts déjà récupérés
type CacheConfig struct {
	Backend       string        `yaml:"backend" env:"BACKEND"`
	TTL           time.Duration `yaml:"ttl" env:"TTL"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
}

// YtDlpConfig : binaire yt-dlp (provider "ytdlp")
type YtDlpConfig struct {
	Name         string        `yaml:"name" env:"NAME"`
	Path         string        `yaml:"path" env:"PATH"`
	ShowWarnings bool          `yaml:"show_warnings" env:"SHOW_WARNINGS"`
	Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// ResolvedPath contient le chemin effectif vers l'exécutable ; vide => recherche dans le PATH
	ResolvedPath string `yaml:"-"`
}

// struct pour les paramètres de configuration
type Config struct {
	Provider  string   `yaml:"provider" env:"PROVIDER"`
	Languages []string `yaml:"languages" env:"LANGUAGES" envSeparator:","`

	// Affichage
	PreviewChars    int    `yaml:"preview_chars" env:"PREVIEW_CHARS"`
	ReadClipboard   bool   `yaml:"read_clipboard" env:"READ_CLIPBOARD"`
	CopyToClipboard bool   `yaml:"copy_to_clipboard" env:"COPY_TO_CLIPBOARD"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL"`

	HTTP  HTTPConfig  `yaml:"http" envPrefix:"HTTP_"`
	Cache CacheConfig `yaml:"cache" envPrefix:"CACHE_"`
	YtDlp YtDlpConfig `yaml:"yt_dlp" envPrefix:"YT_DLP_"`

	// Language : clé de la version 1, migrée dans Languages
	Language string `yaml:"language,omitempty"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Default retourne la configuration par défaut (fallback si l'asset embarqué est manquant)
func Default() *Config {
	c := &Config{}

	c.Provider = ProviderInnertube
	c.Languages = []string{"en"}

	// Affichage
	c.PreviewChars = 1000
	c.ReadClipboard = false
	c.CopyToClipboard = false
	c.LogLevel = "warn"

	// HTTP
	c.HTTP.Timeout = 15 * time.Second
	c.HTTP.MaxBytes = 10_000_000
	c.HTTP.RequestsPerSecond = 2

	// Cache
	c.Cache.Backend = "none"
	c.Cache.TTL = 24 * time.Hour
	c.Cache.RedisAddr = "localhost:6379"

	// yt-dlp
	c.YtDlp.Name = "yt-dlp"
	c.YtDlp.Path = ""
	c.YtDlp.ShowWarnings = false
	c.YtDlp.Timeout = 2 * time.Minute

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// LoadOptions permet de contrôler les sources secondaires (tests).
type LoadOptions struct {
	// EnvFile : fichier .env lu s'il existe ; vide => pas de .env
	EnvFile string
	// Environ remplace l'environnement du process ; nil => os.Environ
	Environ map[string]string
	// CreateIfMissing crée le fichier depuis l'asset embarqué s'il est absent
	CreateIfMissing bool
	Logger          *slog.Logger
}

// Load lit la config ; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets.
// Ordre : défauts -> YAML -> .env -> variables d'environnement.
func Load(path string) (*Config, error) {
	return LoadWith(path, LoadOptions{EnvFile: DefaultEnvFile, CreateIfMissing: true})
}

// LoadWith est Load avec des options explicites.
func LoadWith(path string, opts LoadOptions) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.CreateIfMissing {
		created, err := bootstrap.EnsureConfigPresent(path, assets.Embedded, assets.DefaultConfigAsset)
		if err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
		if created {
			logger.Info("fichier de configuration par défaut créé", slog.String("path", path))
		}
	}

	cfg := Default()

	// lire le YAML brut et déserialiser dans cfg (les champs présents écraseront les defaults)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !opts.CreateIfMissing:
		// pas de fichier : défauts + environnement
	case err != nil:
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	default:
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
		}
		cfg.configFilePath = path
	}

	cfg.normalizeConfig()

	// gestion de version : si le fichier est plus ancien -> orchestrer la mise à jour
	if cfg.configFilePath != "" && cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion, logger); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
	}

	if err := cfg.applyEnv(opts.EnvFile, opts.Environ); err != nil {
		return nil, err
	}
	cfg.normalizeConfig()

	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// un fichier vide ou commenté garde les défauts
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	// On déserialise dans c initialisé : les champs absents conservent les valeurs par défaut.
	// Un fichier sans config_version est considéré comme version 1.
	c.ConfigVersion = 1
	return yaml.Unmarshal(data, c)
}

// Path retourne le fichier d'où provient la config ("" si défauts seuls).
func (c *Config) Path() string {
	return c.configFilePath
}

func (c *Config) normalizeConfig() {
	c.Provider = strings.TrimSpace(strings.ToLower(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderInnertube
	}
	c.LogLevel = strings.TrimSpace(strings.ToLower(c.LogLevel))
	c.Cache.Backend = strings.TrimSpace(strings.ToLower(c.Cache.Backend))

	c.Languages = NormalizeLanguages(c.Languages)
	if len(c.Languages) == 0 {
		c.Languages = []string{"en"}
	}

	// centraliser la résolution/normalisation de yt-dlp
	c.ResolveYtDlpPath()
}

// NormalizeLanguages rogne, retire les vides et les doublons, en gardant l'ordre.
func NormalizeLanguages(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// SlogLevel convertit LogLevel ; valeur inconnue => warn.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ResolveYtDlpPath normalise le nom et résout le chemin complet vers l'exécutable.
// Appeler après avoir modifié cfg.YtDlp.Name ou cfg.YtDlp.Path.
func (c *Config) ResolveYtDlpPath() {
	if c == nil {
		return
	}

	// Normaliser le nom et ajouter .exe sur Windows si nécessaire
	c.YtDlp.Name = strings.TrimSpace(c.YtDlp.Name)
	if c.YtDlp.Name == "" {
		c.YtDlp.Name = "yt-dlp"
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(c.YtDlp.Name), ".exe") {
		c.YtDlp.Name = c.YtDlp.Name + ".exe"
	}

	// si cfg.Path est vide -> recherche dans le PATH au lancement
	exeName := c.YtDlp.Name
	cfgPath := strings.TrimSpace(c.YtDlp.Path)
	if cfgPath == "" {
		c.YtDlp.ResolvedPath = ""
		return
	}
	cleanPath := filepath.Clean(cfgPath)

	// si le chemin fourni finit déjà par l'exécutable -> on l'utilise
	if filepath.Base(cleanPath) == exeName {
		c.YtDlp.ResolvedPath = cleanPath
	} else {
		// sinon on considère cfgPath comme un répertoire et on y joint l'exe
		c.YtDlp.ResolvedPath = filepath.Join(cleanPath, exeName)
	}
}
