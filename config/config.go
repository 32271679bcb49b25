package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/hotgigs/automation/analytics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

const ENV_PREFIX = "HOTGIGS"

type Config struct {
	HttpPort             int
	WorkerPoolSize       int
	QueueCapacity        int
	MaxStepsPerRun       int
	StorageType          StorageType
	RedisConfig          RedisStorageConfig
	AnalyticsConfig      analytics.DataCollectorConfig
	AIServiceURL         string
	AIRetryCount         int
	OverdueCheckInterval time.Duration
	LogLevel             string
	LogDevelopment       bool
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

// SetupFlags declares every setting on cmd and binds it into v.
func SetupFlags(cmd *cobra.Command, v *viper.Viper) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().Int("worker-pool-size", 5, "number of workflow executor goroutines")
	cmd.Flags().Int("queue-capacity", 512, "buffered workflow executions before submissions park")
	cmd.Flags().Int("max-steps-per-run", 10000, "step cap for one workflow run, 0 for unlimited")
	cmd.Flags().String("storage-impl", "memory", "workflow definition storage (memory|redis)")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "hotgigs", "namespace used in storage")
	cmd.Flags().String("analytics-file", "", "file receiving step analytics, empty logs them instead")
	cmd.Flags().String("ai-service-url", "", "base url of the AI service, empty uses local placeholders")
	cmd.Flags().Int("ai-retry-count", 3, "retries for failed AI service calls")
	cmd.Flags().Duration("overdue-check-interval", time.Minute, "interval between overdue task sweeps")
	cmd.Flags().String("log-level", "info", "log level")
	cmd.Flags().Bool("log-development", false, "human readable development logging")
	return v.BindPFlags(cmd.Flags())
}

// Load reads configFile when given, applies HOTGIGS_ environment overrides and returns the
// validated config. A missing config file is not an error.
func Load(v *viper.Viper, configFile string) (Config, error) {
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	var cfg Config
	cfg.HttpPort = v.GetInt("http-port")
	cfg.WorkerPoolSize = v.GetInt("worker-pool-size")
	cfg.QueueCapacity = v.GetInt("queue-capacity")
	cfg.MaxStepsPerRun = v.GetInt("max-steps-per-run")
	cfg.StorageType = StorageType(v.GetString("storage-impl"))
	cfg.RedisConfig.Addrs = strings.Split(v.GetString("redis-addr"), ",")
	cfg.RedisConfig.Namespace = v.GetString("namespace")
	cfg.AnalyticsConfig.CollectorType = analytics.LOG_DATA_COLLECTOR
	if file := v.GetString("analytics-file"); file != "" {
		cfg.AnalyticsConfig.CollectorType = analytics.LOG_FILE_DATA_COLLECTOR
		cfg.AnalyticsConfig.FileName = file
	}
	cfg.AIServiceURL = v.GetString("ai-service-url")
	cfg.AIRetryCount = v.GetInt("ai-retry-count")
	cfg.OverdueCheckInterval = v.GetDuration("overdue-check-interval")
	cfg.LogLevel = v.GetString("log-level")
	cfg.LogDevelopment = v.GetBool("log-development")
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.HttpPort <= 0 || c.HttpPort > 65535 {
		return fmt.Errorf("invalid http-port %d", c.HttpPort)
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("worker-pool-size must be positive, got %d", c.WorkerPoolSize)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("queue-capacity must not be negative, got %d", c.QueueCapacity)
	}
	if c.MaxStepsPerRun < 0 {
		return fmt.Errorf("max-steps-per-run must not be negative, got %d", c.MaxStepsPerRun)
	}
	switch c.StorageType {
	case STORAGE_TYPE_INMEM, STORAGE_TYPE_REDIS:
	default:
		return fmt.Errorf("unknown storage-impl %q", c.StorageType)
	}
	if c.OverdueCheckInterval <= 0 {
		return fmt.Errorf("overdue-check-interval must be positive, got %s", c.OverdueCheckInterval)
	}
	return nil
}
