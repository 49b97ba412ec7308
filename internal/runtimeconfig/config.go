package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-blog/internal/markdown"
)

var ErrArticleDirRequired = errors.New("blog config: article directory is required")
var ErrOutputDirRequired = errors.New("blog config: output directory is required")
var ErrTemplateFileRequired = errors.New("blog config: article template file is required")
var ErrBaseURLRequired = errors.New("blog config: base url is required")

// ErrGeneratorWorkersInvalid rejects negative worker counts. Zero and one both run sequentially.
var ErrGeneratorWorkersInvalid = errors.New("blog config: generator workers must be zero or positive")
var ErrMarkdownExtensionUnknown = errors.New("blog config: markdown extension is not supported")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// ErrPublishBucketRequired guards S3 settings that were given without a bucket.
var ErrPublishBucketRequired = errors.New("blog config: publish bucket is required when publish options are set")

// Config aggregates the settings resolved once at process start. It is passed
// by value to every component that needs it.
type Config struct {
	ArticleDir   string          `yaml:"article_directory"`
	OutputDir    string          `yaml:"output_directory"`
	TemplateDir  string          `yaml:"template_directory"`
	TemplateFile string          `yaml:"article_template_file"`
	BaseURL      string          `yaml:"base_url"`
	Markdown     MarkdownConfig  `yaml:"markdown"`
	Metadata     MetadataConfig  `yaml:"metadata"`
	Generator    GeneratorConfig `yaml:"generator"`
	Logging      LoggingConfig   `yaml:"logging"`
	Publish      PublishConfig   `yaml:"publish"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	HeadingIDs bool     `yaml:"heading_ids"`
}

// MetadataConfig controls the META_START/META_END extractor.
type MetadataConfig struct {
	Strict            bool `yaml:"strict"`
	DuplicateNewlines bool `yaml:"duplicate_newlines"`
	FrontMatter       bool `yaml:"frontmatter"`
	DisableEscaping   bool `yaml:"disable_escaping"`
}

// GeneratorConfig captures behaviour for the build pass.
type GeneratorConfig struct {
	Workers       int  `yaml:"workers"`
	CreateParents bool `yaml:"create_parents"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// PublishConfig enables mirroring written pages to an S3 bucket.
type PublishConfig struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Profile   string `yaml:"profile"`
	PathStyle bool   `yaml:"path_style"`
}

// Enabled reports whether any bucket was configured.
func (p PublishConfig) Enabled() bool {
	return strings.TrimSpace(p.Bucket) != ""
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ArticleDir:   "../../articles",
		OutputDir:    "../../output",
		TemplateDir:  "templates",
		TemplateFile: "article.j2",
		BaseURL:      "https://blog.enidisepic.gay",
		Markdown:     MarkdownConfig{},
		Metadata:     MetadataConfig{},
		Generator: GeneratorConfig{
			Workers: 1,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs consistency checks. Directory existence is not checked
// here; missing directories surface when the build touches them.
func (cfg Config) Validate() error {
	var errs []error

	if strings.TrimSpace(cfg.ArticleDir) == "" {
		errs = append(errs, ErrArticleDirRequired)
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		errs = append(errs, ErrOutputDirRequired)
	}
	if strings.TrimSpace(cfg.TemplateFile) == "" {
		errs = append(errs, ErrTemplateFileRequired)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		errs = append(errs, ErrBaseURLRequired)
	}
	if cfg.Generator.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrGeneratorWorkersInvalid, cfg.Generator.Workers))
	}
	for _, ext := range cfg.Markdown.Extensions {
		if !markdown.KnownExtension(ext) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext))
		}
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	switch {
	case provider == "":
		errs = append(errs, ErrLoggingProviderRequired)
	case !isSupportedProvider(provider):
		errs = append(errs, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider))
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level))
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format))
		}
	}

	if !cfg.Publish.Enabled() && (strings.TrimSpace(cfg.Publish.Prefix) != "" || cfg.Publish.PathStyle) {
		errs = append(errs, ErrPublishBucketRequired)
	}

	return errors.Join(errs...)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
