package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeniter/romygo/config"
	"github.com/xeniter/romygo/infra/discovery"
)

var discoverJSON bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the local network for robots",
	RunE:  runDiscover,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print candidates as JSON")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	candidates, err := discovery.Scan(ctx, discovery.Config{
		Mode:    cfg.Discovery.Mode,
		Timeout: cfg.Discovery.Timeout(),
	})
	if err != nil {
		return err
	}
	if discoverJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no robots found")
		return nil
	}
	for _, c := range candidates {
		state := "unlocked"
		if c.Locked {
			state = "locked"
		}
		name := c.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\t%s\t%s\n", c.Host, c.Port, state, name)
	}
	return nil
}
