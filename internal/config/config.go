package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Root kinds decide how files under a catalog root are classified.
const (
	KindRegular = "regular"
	KindAd      = "ad"
	KindPrefix  = "prefix"
)

// reservedPrefixes shadow fixed routes and cannot be used as a root's URL prefix.
var reservedPrefixes = map[string]bool{
	"api":     true,
	"static":  true,
	"admin":   true,
	"metrics": true,
	"healthz": true,
}

// Root is one scanned media directory. Files are served under /{Prefix}/ and
// cataloged as "{Prefix}/{name}".
type Root struct {
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
	Kind   string `mapstructure:"kind"`
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Log struct {
		Level  string
		Format string
	}
	Catalog struct {
		Roots          []Root
		Extensions     []string
		AdPrefix       string
		RefreshOnStart bool
		Watch          bool
		WatchDebounce  time.Duration
	}
	AdminPollInterval time.Duration
	SessionLifetime   time.Duration
	InsecureCookies   bool
}

// Load reads config from .env, environment (VIDSHARE_ prefix) and optional vidshare.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env file

	v := viper.New()
	v.SetEnvPrefix("VIDSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("vidshare")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "vidshare.db")
	v.SetDefault("session.lifetime", "8760h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("catalog.extensions", []string{".mp4", ".webm", ".mov", ".mkv", ".avi", ".m4v"})
	v.SetDefault("catalog.ad_prefix", "ad_")
	v.SetDefault("catalog.refresh_on_start", true)
	v.SetDefault("catalog.watch", false)
	v.SetDefault("catalog.watch_debounce", "2s")
	v.SetDefault("admin.poll_interval", "5s")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")
	cfg.Catalog.AdPrefix = v.GetString("catalog.ad_prefix")
	cfg.Catalog.RefreshOnStart = v.GetBool("catalog.refresh_on_start")
	cfg.Catalog.Watch = v.GetBool("catalog.watch")

	for _, ext := range v.GetStringSlice("catalog.extensions") {
		for _, e := range strings.Split(ext, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			cfg.Catalog.Extensions = append(cfg.Catalog.Extensions, e)
		}
	}

	var err error
	if cfg.SessionLifetime, err = parseDuration(v, "session.lifetime"); err != nil {
		return nil, err
	}
	if cfg.Catalog.WatchDebounce, err = parseDuration(v, "catalog.watch_debounce"); err != nil {
		return nil, err
	}
	if cfg.AdminPollInterval, err = parseDuration(v, "admin.poll_interval"); err != nil {
		return nil, err
	}

	roots, err := loadRoots(v)
	if err != nil {
		return nil, err
	}
	cfg.Catalog.Roots = roots

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("VIDSHARE_DB_DRIVER must be sqlite3, mysql, or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("VIDSHARE_DB_DSN is required")
	}
	if len(cfg.Catalog.Extensions) == 0 {
		return nil, fmt.Errorf("VIDSHARE_CATALOG_EXTENSIONS must list at least one extension")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid VIDSHARE_%s: %w", strings.ToUpper(strings.ReplaceAll(key, ".", "_")), err)
	}
	return d, nil
}

// loadRoots accepts either a YAML list of {dir, prefix, kind} or the env form
// "dir:kind[:prefix],dir:kind[:prefix]". Order is preserved. Roots may share a
// prefix; a file present under several of them belongs to the earliest.
func loadRoots(v *viper.Viper) ([]Root, error) {
	var roots []Root
	switch raw := v.Get("catalog.roots").(type) {
	case nil:
		roots = DefaultRoots()
	case string:
		parsed, err := ParseRoots(raw)
		if err != nil {
			return nil, err
		}
		roots = parsed
	default:
		if err := v.UnmarshalKey("catalog.roots", &roots); err != nil {
			return nil, fmt.Errorf("decode catalog.roots: %w", err)
		}
	}
	return normalizeRoots(roots)
}

// DefaultRoots is the two-directory layout: regular videos and ads side by side.
func DefaultRoots() []Root {
	return []Root{
		{Dir: "videos", Prefix: "videos", Kind: KindRegular},
		{Dir: "ads", Prefix: "ads", Kind: KindAd},
	}
}

// ParseRoots parses the compact env representation of catalog roots.
func ParseRoots(s string) ([]Root, error) {
	var roots []Root
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("invalid catalog root %q: want dir:kind[:prefix]", part)
		}
		r := Root{Dir: fields[0], Kind: fields[1]}
		if len(fields) == 3 {
			r.Prefix = fields[2]
		}
		roots = append(roots, r)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("VIDSHARE_CATALOG_ROOTS is empty")
	}
	return roots, nil
}

func normalizeRoots(roots []Root) ([]Root, error) {
	out := make([]Root, 0, len(roots))
	for _, r := range roots {
		if r.Dir == "" {
			return nil, fmt.Errorf("catalog root is missing dir")
		}
		if r.Prefix == "" {
			r.Prefix = filepath.Base(filepath.Clean(r.Dir))
		}
		r.Prefix = strings.Trim(r.Prefix, "/")
		if r.Prefix == "" || r.Prefix == "." || strings.Contains(r.Prefix, "/") {
			return nil, fmt.Errorf("catalog root %q: prefix must be a single path segment", r.Dir)
		}
		if reservedPrefixes[r.Prefix] {
			return nil, fmt.Errorf("catalog root %q: prefix %q is reserved", r.Dir, r.Prefix)
		}

		switch r.Kind {
		case "":
			r.Kind = KindRegular
		case KindRegular, KindAd, KindPrefix:
		default:
			return nil, fmt.Errorf("catalog root %q: unknown kind %q (regular, ad, prefix)", r.Dir, r.Kind)
		}
		out = append(out, r)
	}
	return out, nil
}
