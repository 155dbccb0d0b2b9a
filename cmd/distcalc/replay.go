package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acortes/distributed_calculator/client"
	"github.com/acortes/distributed_calculator/protocol"
)

var replayCmd = &cobra.Command{
	Use:   "replay <input-file>",
	Short: "Replay a file of requests against the server",
	Long: `Replay sends each line of the input file verbatim to the server and
waits for the response before sending the next line. Rejected requests are
reported; after the last line a trailing GET prints the final register
value.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	c := client.New(&protocol.Connection{
		Network: cfg.Network,
		Address: cfg.Address,
	})
	return c.Replay(f, os.Stdout)
}
