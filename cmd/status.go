package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeniter/romygo/core/model"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a status snapshot of the configured robot",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cli, err := connect(ctx)
	if err != nil {
		return err
	}
	st, err := cli.Status(ctx)
	if err != nil {
		return err
	}
	info := cli.Info()
	if statusJSON {
		out := struct {
			Info   model.RobotInfo `json:"info"`
			Status model.Status    `json:"status"`
		}{info, st}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s, %s) at %s:%d\n", info.Name, info.Model, info.UniqueID, info.Host, info.Port)
	fmt.Fprintf(w, "firmware %s, protocol %s\n", info.FirmwareVersion, info.ProtocolVersion)
	fmt.Fprintf(w, "mode:     %s\n", st.Mode)
	fmt.Fprintf(w, "battery:  %d%%\n", st.BatteryLevel)
	fmt.Fprintf(w, "fan set:  %d\n", st.CleaningParameterSet)
	if st.ErrorCode != 0 {
		fmt.Fprintf(w, "error:    %d\n", st.ErrorCode)
	}
	if st.RSSI != 0 {
		fmt.Fprintf(w, "rssi:     %d dBm\n", st.RSSI)
	}
	s := st.Statistics
	fmt.Fprintf(w, "lifetime: %.1f m2 in %d runs, %.1f h, %.0f m driven\n",
		s.AreaSquareMeters(), s.CleaningRuns, s.CleaningHours(), s.DistanceMeters())
	return nil
}
