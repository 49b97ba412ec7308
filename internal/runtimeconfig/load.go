package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable that points at an optional YAML file.
const ConfigFileEnv = "BLOG_CONFIG"

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an optional YAML file. When empty, BLOG_CONFIG is consulted.
	ConfigFile string
	// EnvFiles are dotenv files read in order. Missing files are skipped.
	EnvFiles []string
	// Lookup resolves environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load resolves the configuration. Sources are layered as
// defaults < YAML file < dotenv files < process environment. A variable only
// counts when it is set and non-empty.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	path := strings.TrimSpace(opts.ConfigFile)
	if path == "" {
		path, _ = nonEmpty(lookup, ConfigFileEnv)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	dotenv, err := readEnvFiles(opts.EnvFiles)
	if err != nil {
		return Config{}, err
	}

	env := func(key string) (string, bool) {
		if value, ok := nonEmpty(lookup, key); ok {
			return value, true
		}
		if value := strings.TrimSpace(dotenv[key]); value != "" {
			return value, true
		}
		return "", false
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("blog config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("blog config: parse %s: %w", path, err)
	}
	return nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	values := map[string]string{}
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		read, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("blog config: read env file %s: %w", file, err)
		}
		// Earlier files win, matching godotenv.Load.
		for key, value := range read {
			if _, ok := values[key]; !ok {
				values[key] = value
			}
		}
	}
	return values, nil
}

func applyEnv(cfg *Config, env func(string) (string, bool)) error {
	setString(env, "ARTICLE_DIRECTORY", &cfg.ArticleDir)
	setString(env, "OUTPUT_DIRECTORY", &cfg.OutputDir)
	setString(env, "ARTICLE_TEMPLATE_FILE", &cfg.TemplateFile)
	setString(env, "BASE_URL", &cfg.BaseURL)
	setString(env, "TEMPLATE_DIRECTORY", &cfg.TemplateDir)

	if value, ok := env("MARKDOWN_EXTENSIONS"); ok {
		cfg.Markdown.Extensions = splitList(value)
	}

	setString(env, "LOG_PROVIDER", &cfg.Logging.Provider)
	setString(env, "LOG_LEVEL", &cfg.Logging.Level)
	setString(env, "LOG_FORMAT", &cfg.Logging.Format)

	setString(env, "PUBLISH_S3_BUCKET", &cfg.Publish.Bucket)
	setString(env, "PUBLISH_S3_PREFIX", &cfg.Publish.Prefix)
	setString(env, "AWS_REGION", &cfg.Publish.Region)
	setString(env, "AWS_PROFILE", &cfg.Publish.Profile)

	bools := []struct {
		key    string
		target *bool
	}{
		{"MARKDOWN_SANITIZE", &cfg.Markdown.Sanitize},
		{"MARKDOWN_HARD_WRAPS", &cfg.Markdown.HardWraps},
		{"METADATA_STRICT", &cfg.Metadata.Strict},
		{"METADATA_DUPLICATE_NEWLINES", &cfg.Metadata.DuplicateNewlines},
		{"METADATA_FRONTMATTER", &cfg.Metadata.FrontMatter},
		{"METADATA_DISABLE_ESCAPING", &cfg.Metadata.DisableEscaping},
		{"OUTPUT_CREATE_PARENTS", &cfg.Generator.CreateParents},
		{"PUBLISH_S3_PATH_STYLE", &cfg.Publish.PathStyle},
	}
	for _, b := range bools {
		value, ok := env(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("blog config: %s: %w", b.key, err)
		}
		*b.target = parsed
	}

	if value, ok := env("GENERATOR_WORKERS"); ok {
		workers, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("blog config: GENERATOR_WORKERS: %w", err)
		}
		cfg.Generator.Workers = workers
	}
	return nil
}

func setString(env func(string) (string, bool), key string, target *string) {
	if value, ok := env(key); ok {
		*target = value
	}
}

func nonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
