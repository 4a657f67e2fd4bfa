package types

import (
	"os"
	"time"

	"github.com/logtide/collector/common"

	units "github.com/docker/go-units"
	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	yaml "gopkg.in/yaml.v2"
)

// PayloadConfig controls how frame payloads become records
type PayloadConfig struct {
	Format       string `yaml:"format" default:"json"`
	Compression  string `yaml:"compression"`
	MaxFrameSize string `yaml:"max_frame_size" default:"16MB"`
}

// FileSinkConfig contain rotating file config
type FileSinkConfig struct {
	Path       string `yaml:"path"`
	MaxSize    string `yaml:"max_size" default:"100MB"`
	MaxBackups int    `yaml:"max_backups" default:"7"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SinkConfig describes one record destination
type SinkConfig struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type" required:"true"`
	Level   string   `yaml:"level" default:"DEBUG"`
	Format  string   `yaml:"format" default:"simple"`
	Loggers []string `yaml:"loggers"`

	File FileSinkConfig `yaml:"file"`
}

// MetricsConfig contain metrics config
type MetricsConfig struct {
	Step      int64    `yaml:"step" default:"10"`
	Transfers []string `yaml:"transfers"`
	Prefix    string   `yaml:"prefix" default:"logtide"`
}

// APIConfig contain api config
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// Config contain all configs
type Config struct {
	PidFile     string `yaml:"pid" required:"true" default:"/tmp/logtide-collector.pid"`
	Host        string `yaml:"host" default:"0.0.0.0"`
	Port        int    `yaml:"port" default:"9020"`
	PollTimeout int    `yaml:"poll_timeout"`
	HostName    string `yaml:"-"`

	Payload PayloadConfig `yaml:"payload"`
	Sinks   []SinkConfig  `yaml:"sinks"`
	Metrics MetricsConfig `yaml:"metrics"`
	API     APIConfig     `yaml:"api"`
}

// Prepare 从cli覆写并做准备
func (config *Config) Prepare(c *cli.Context) {
	if c.String("hostname") != "" {
		config.HostName = c.String("hostname")
	} else {
		hostname, err := os.Hostname()
		if err != nil {
			log.Fatal(err)
		}
		config.HostName = hostname
	}

	if c.String("host") != "" {
		config.Host = c.String("host")
	}
	if c.Int("port") > 0 {
		config.Port = c.Int("port")
	}
	if c.Int("poll-timeout") > 0 {
		config.PollTimeout = c.Int("poll-timeout")
	}
	if c.String("pidfile") != "" {
		config.PidFile = c.String("pidfile")
	}
	if c.String("api-addr") != "" {
		config.API.Addr = c.String("api-addr")
	}
	if c.Int64("metrics-step") > 0 {
		config.Metrics.Step = c.Int64("metrics-step")
	}
	if len(c.StringSlice("metrics-transfers")) > 0 {
		config.Metrics.Transfers = c.StringSlice("metrics-transfers")
	}

	// validate
	if config.PidFile == "" {
		log.Fatal("need to set pidfile")
	}
	if config.PollTimeout == 0 {
		config.PollTimeout = 1
	}
	if config.Metrics.Step == 0 {
		config.Metrics.Step = 10
	}
	if config.Payload.Format == "" {
		config.Payload.Format = common.JSONFormat
	}
	if len(config.Sinks) == 0 {
		config.Sinks = []SinkConfig{{Name: "console", Type: common.ConsoleSink, Level: "DEBUG", Format: "verbose"}}
	}
}

// GetPollTimeout returns poll timeout as duration
func (config *Config) GetPollTimeout() time.Duration {
	if config.PollTimeout <= 0 {
		return common.DefaultPollTimeout
	}
	return time.Duration(config.PollTimeout) * time.Second
}

// GetMetricsStep returns the metrics reporting interval
func (config *Config) GetMetricsStep() time.Duration {
	step := config.Metrics.Step
	if step <= 0 {
		step = 10
	}
	return time.Duration(step) * time.Second
}

// GetMaxFrameSize parses the frame size guard, e.g. "16MB"
func (config *Config) GetMaxFrameSize() int64 {
	if config.Payload.MaxFrameSize == "" {
		return common.DefaultMaxFrameSize
	}
	size, err := units.RAMInBytes(config.Payload.MaxFrameSize)
	if err != nil {
		log.Fatalf("[config] invalid max_frame_size %s: %v", config.Payload.MaxFrameSize, err)
	}
	return size
}

// Print config
func (config *Config) Print() {
	bs, err := yaml.Marshal(config)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("config: \n%s", string(bs))
}
