package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath = "."

	// EnvPrefix scopes environment overrides, e.g. MUNHASH_HASHING_ITERATIONS.
	EnvPrefix = "MUNHASH_"

	DefaultSourceURL     = "https://www.gov.br/receitafederal/dados/municipios.csv"
	DefaultSourceTimeout = 5 * time.Minute
	DefaultIterations    = 50_000
	DefaultOutputLength  = 32
	DefaultSaltLength    = 32
	DefaultOutputDir     = "mun_hash_por_uf"
	DefaultOutputPrefix  = "municipios_hash"
	DefaultManifestName  = "manifest.json"
)

type Config struct {
	Env struct {
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	// Source describes where the municipality table is fetched from
	Source SourceConfig `json:"source" yaml:"source"`

	// Hashing holds the key derivation parameters and pool size
	Hashing HashingConfig `json:"hashing" yaml:"hashing"`

	// Output describes where per-group artifacts are written
	Output OutputConfig `json:"output" yaml:"output"`

	// PubSub configuration for group completion events
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// SourceConfig defines dataset acquisition
type SourceConfig struct {
	// HTTP(S) URL, gocloud blob URL (file:///, gs://, mem://) or a local path
	URL string `json:"url" yaml:"url" validate:"required"`

	// Timeout for the whole fetch
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// Render a progress bar on stderr while downloading
	ShowProgress bool `json:"showProgress" yaml:"showProgress"`
}

// HashingConfig defines PBKDF2 parameters and parallelism
type HashingConfig struct {
	Iterations   int `json:"iterations" yaml:"iterations" validate:"gt=0"`
	OutputLength int `json:"outputLength" yaml:"outputLength" validate:"gt=0"`
	SaltLength   int `json:"saltLength" yaml:"saltLength" validate:"gt=0,lte=8160"`

	// Number of concurrent workers per group; 0 means GOMAXPROCS
	Workers int `json:"workers" yaml:"workers" validate:"gte=0"`
}

// OutputConfig defines the output bucket
type OutputConfig struct {
	// gocloud blob URL; takes precedence over Dir
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl" validate:"required_without=Dir"`

	// Local directory, created when missing
	Dir string `json:"dir" yaml:"dir" validate:"required_without=BucketURL"`

	// File name prefix, files are named <prefix>_<GROUP>.csv/.json
	Prefix string `json:"prefix" yaml:"prefix" validate:"required"`

	// Manifest object name; empty disables the manifest
	Manifest string `json:"manifest" yaml:"manifest"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "" to disable, "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider" validate:"omitempty,oneof=local google"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId" validate:"required_if=Provider google"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId" validate:"required_if=Provider google"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint" validate:"required_if=Provider local"`
}

// Default returns the reference configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Env.ServiceName = "munhash"
	cfg.Env.Log = Log{Pretty: true, Level: "info"}
	cfg.Source = SourceConfig{
		URL:     DefaultSourceURL,
		Timeout: DefaultSourceTimeout,
	}
	cfg.Hashing = HashingConfig{
		Iterations:   DefaultIterations,
		OutputLength: DefaultOutputLength,
		SaltLength:   DefaultSaltLength,
	}
	cfg.Output = OutputConfig{
		Dir:      DefaultOutputDir,
		Prefix:   DefaultOutputPrefix,
		Manifest: DefaultManifestName,
	}

	return cfg
}

// Validate checks the struct tags of cfg.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	return nil
}

// LoadWithEnv decodes the first <currEnv>.yaml found in the search paths onto
// base, then overlays MUNHASH_* environment variables. A missing file is not an
// error; base is returned with only the environment applied.
func LoadWithEnv[T any](base *T, currEnv string, configPath ...string) (*T, error) {
	cfg := base
	if cfg == nil {
		cfg = new(T)
	}
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			if filepath.IsAbs(path) {
				searchPaths = append(searchPaths, path)

				continue
			}
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	if configFile, found := findConfigFile(currEnv, searchPaths); found {
		if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read %s config failed", currEnv)
		}
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// MUNHASH_HASHING_OUTPUTLENGTH -> hashing.outputLength
			key := canonicalizeEnvKey(strings.TrimPrefix(k, EnvPrefix), existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return normalizeToken(mapKey) == normalizeToken(fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads config.yaml (if any) over the defaults. An explicit path must exist.
func New(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "config file %s", path)
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, errors.Wrap(err, "resolve config path")
		}

		return LoadWithEnv(Default(), name, dir)
	}

	return LoadWithEnv(Default(), "config", "config", "../config")
}

func findConfigFile(currEnv string, searchPaths []string) (string, bool) {
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
