package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/acortes/distributed_calculator/accumulator"
	"github.com/acortes/distributed_calculator/logger"
	"github.com/acortes/distributed_calculator/protocol"
	"github.com/acortes/distributed_calculator/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the accumulator server",
	Long: `Start the server: bind the configured address, accept connections,
and apply arithmetic operations to the shared register. Connection events
are appended to the log file, which is truncated at startup.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("log-file", "", "event log file path")
	serveCmd.Flags().String("log-level", "", "console log level (debug, info, warn, error)")
	_ = v.BindPFlag("logFile", serveCmd.Flags().Lookup("log-file"))
	_ = v.BindPFlag("logLevel", serveCmd.Flags().Lookup("log-level"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events, err := logger.Start(cfg.LogFile)
	if err != nil {
		return err
	}

	srv := server.New(&protocol.Connection{
		Network: cfg.Network,
		Address: cfg.Address,
	}, accumulator.New(), events)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-errCh:
		// Bind failure or a listener error: fatal at startup.
	case sig := <-sigCh:
		log.Infof("received %s, shutting down", sig)
		if serr := srv.Stop(); serr != nil {
			log.Errorf("closing listener: %s", serr)
		}
		err = <-errCh
	}

	// Joined once, after the accept loop has exited.
	events.Shutdown()
	return err
}
