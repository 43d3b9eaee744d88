package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one maintenance pass (pending retries plus time decay)",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		eng.RunSweepOnce()
		fmt.Println("Sweep complete")
		return nil
	},
}
