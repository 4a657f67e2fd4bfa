package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/logtide/collector/api"
	"github.com/logtide/collector/metric"
	"github.com/logtide/collector/payload"
	"github.com/logtide/collector/server"
	"github.com/logtide/collector/sink"
	"github.com/logtide/collector/types"
	"github.com/logtide/collector/utils"
	"github.com/logtide/collector/version"

	"github.com/jinzhu/configor"
	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func setupLogLevel(l string) error {
	level, err := log.ParseLevel(l)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	return nil
}

func initConfig(c *cli.Context) *types.Config {
	config := &types.Config{}

	configPath := c.String("config")
	if _, err := os.Stat(configPath); err != nil {
		log.Warnf("[main] config %s not found, using defaults", configPath)
		if err := configor.Load(config); err != nil {
			log.Fatalf("[main] load defaults failed %v", err)
		}
	} else if err := configor.Load(config, configPath); err != nil {
		log.Fatalf("[main] load config failed %v", err)
	}

	config.Prepare(c)
	config.Print()
	return config
}

func serve(c *cli.Context) error {
	if err := setupLogLevel(c.String("log-level")); err != nil {
		log.Fatal(err)
	}

	config := initConfig(c)
	utils.WritePid(config.PidFile)
	defer os.Remove(config.PidFile)

	router, err := sink.NewRouter(config.Sinks)
	if err != nil {
		return err
	}
	defer router.Close()

	deserializer, err := payload.New(config.Payload)
	if err != nil {
		return err
	}

	metrics := metric.NewClient(config)

	srv := server.New(config, deserializer, router, metrics)
	if err := srv.Start(); err != nil {
		log.Errorf("[main] failed to start server: %v", err)
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	go metrics.Run(ctx, config.GetMetricsStep())

	apiHandler := api.NewHandler(config, srv)
	go apiHandler.Serve()

	// first signal drains, a second one forces
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-sigC
		log.Infof("[main] %v caught, draining connections (signal again to force)", sig)
		srv.Shutdown(false)
		sig = <-sigC
		log.Infof("[main] %v caught again, forcing shutdown", sig)
		srv.Shutdown(true)
	}()

	srv.Join(0)
	log.Info("[main] collector exited")
	return nil
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Print(version.String())
	}

	app := &cli.App{
		Name:    version.NAME,
		Usage:   "Run the log record collector",
		Version: version.VERSION,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "/etc/logtide/collector.yaml",
				Usage:   "config file path for the collector, in yaml",
				EnvVars: []string{"LOGTIDE_CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "INFO",
				Usage:   "set log level",
				EnvVars: []string{"LOGTIDE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "",
				Usage:   "address to listen on",
				EnvVars: []string{"LOGTIDE_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   0,
				Usage:   "port to listen on",
				EnvVars: []string{"LOGTIDE_PORT"},
			},
			&cli.IntFlag{
				Name:    "poll-timeout",
				Value:   0,
				Usage:   "seconds between shutdown flag checks on blocked reads",
				EnvVars: []string{"LOGTIDE_POLL_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "pidfile",
				Value:   "",
				Usage:   "pidfile to save",
				EnvVars: []string{"LOGTIDE_PIDFILE"},
			},
			&cli.StringFlag{
				Name:    "api-addr",
				Value:   "",
				Usage:   "status api serving address",
				EnvVars: []string{"LOGTIDE_API_ADDR"},
			},
			&cli.Int64Flag{
				Name:    "metrics-step",
				Value:   0,
				Usage:   "interval for metrics to send",
				EnvVars: []string{"LOGTIDE_METRICS_STEP"},
			},
			&cli.StringSliceFlag{
				Name:    "metrics-transfers",
				Value:   &cli.StringSlice{},
				Usage:   "statsd destinations",
				EnvVars: []string{"LOGTIDE_METRICS_TRANSFERS"},
			},
			&cli.StringFlag{
				Name:    "hostname",
				Value:   "",
				Usage:   "change hostname",
				EnvVars: []string{"LOGTIDE_HOSTNAME"},
			},
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		log.Errorf("Error running collector: %v", err)
	}
}
