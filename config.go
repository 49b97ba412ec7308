package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrArticleDirRequired       = runtimeconfig.ErrArticleDirRequired
	ErrOutputDirRequired        = runtimeconfig.ErrOutputDirRequired
	ErrTemplateFileRequired     = runtimeconfig.ErrTemplateFileRequired
	ErrBaseURLRequired          = runtimeconfig.ErrBaseURLRequired
	ErrGeneratorWorkersInvalid  = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrPublishBucketRequired    = runtimeconfig.ErrPublishBucketRequired
)

type (
	Config          = runtimeconfig.Config
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	MetadataConfig  = runtimeconfig.MetadataConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	PublishConfig   = runtimeconfig.PublishConfig
	LoadOptions     = runtimeconfig.LoadOptions
)

// ConfigFileEnv names the variable pointing at an optional YAML config file.
const ConfigFileEnv = runtimeconfig.ConfigFileEnv

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig layers defaults, an optional YAML file, dotenv files and the
// process environment.
func LoadConfig(opts LoadOptions) (Config, error) {
	return runtimeconfig.Load(opts)
}
