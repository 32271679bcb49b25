package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hotgigs/automation/agent"
	"github.com/hotgigs/automation/config"
	"github.com/hotgigs/automation/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cli struct {
	v   *viper.Viper
	cfg config.Config
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	c.cfg, err = config.Load(c.v, configFile)
	if err != nil {
		return err
	}
	return logger.Init(c.cfg.LogLevel, c.cfg.LogDevelopment)
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	defer logger.Sync()
	a, err := agent.New(c.cfg)
	if err != nil {
		return err
	}
	if err = a.Start(); err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return a.Shutdown()
}

func main() {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "hotgigs",
		Short: "HotGigs workflow automation engine",
	}
	serve := &cobra.Command{
		Use:     "serve",
		Short:   "Run the workflow engine and its http api",
		PreRunE: c.setupConfig,
		RunE:    c.run,
	}
	if err := config.SetupFlags(serve, c.v); err != nil {
		log.Fatal(err)
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
