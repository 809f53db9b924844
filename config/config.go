package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "PRICECHECK"
	configFileEnvName = envPrefix + "_CONFIG_FILE"
	defaultConfigFile = "config.yaml"
)

type upstreamTLS struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type upstream struct {
	BaseURL     string        `mapstructure:"base_url"`
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	TLS         upstreamTLS   `mapstructure:"tls"`
}

type corsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Environment        string        `mapstructure:"environment"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFile            string        `mapstructure:"log_file"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout"`
	CORS               corsConfig    `mapstructure:"cors"`
	Upstream           upstream      `mapstructure:"upstream"`
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_request_timeout", 10*time.Second)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("upstream.base_url", "https://hw.blicyber.web.id")
	v.SetDefault("upstream.path", "/admin/products/barcode")
	v.SetDefault("upstream.timeout", time.Duration(0))
	v.SetDefault("upstream.max_attempts", 1)
	v.SetDefault("upstream.tls.ca_file", "")
	v.SetDefault("upstream.tls.cert_file", "")
	v.SetDefault("upstream.tls.key_file", "")
}

// Load reads the config file named by --config or PRICECHECK_CONFIG_FILE.
// Keys are overridden by PRICECHECK_* variables, e.g.
// PRICECHECK_UPSTREAM_BASE_URL; a .env file in the working directory is
// loaded first. A missing default config file is not an error.
//
// Flags other than --config are left for the caller.
func Load(args []string) (Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%s: failed to load .env: %w", op, err)
	}

	path, explicit := getConfigFilepath(args)

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

// MustLoad is Load that exits the process on error.
func MustLoad(args []string) Config {
	cfg, err := Load(args)
	if err != nil {
		die(err)
	}
	return cfg
}

func getConfigFilepath(args []string) (path string, explicit bool) {
	cmdLine := pflag.NewFlagSet("config", pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	cmdLine.Usage = func() {}
	arg := cmdLine.String("config", defaultConfigFile, "config file")
	_ = cmdLine.Parse(args)

	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env, true
	}
	return *arg, cmdLine.Changed("config")
}

func (c Config) validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is empty")
	}
	if c.Upstream.MaxAttempts < 1 {
		return fmt.Errorf("upstream.max_attempts must be positive, got %d",
			c.Upstream.MaxAttempts)
	}
	return nil
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	Environment=%q
	LogLevel=%q
	LogFile=%q
	HTTPServerAddr=%q
	HTTPRequestTimeout=%s
	CORSAllowedOrigins=%q

	Upstream:
	BaseURL=%q
	Path=%q
	Timeout=%s
	MaxAttempts=%d
	TLS:
		CAFile=%q
		CertFile=%q
		KeyFile=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.Environment,
		c.LogLevel,
		c.LogFile,
		c.HTTPServerAddr,
		c.HTTPRequestTimeout,
		c.CORS.AllowedOrigins,
		c.Upstream.BaseURL,
		c.Upstream.Path,
		c.Upstream.Timeout,
		c.Upstream.MaxAttempts,
		c.Upstream.TLS.CAFile,
		c.Upstream.TLS.CertFile,
		c.Upstream.TLS.KeyFile,
	)
}
