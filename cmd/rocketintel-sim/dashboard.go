package main

import (
	"github.com/spf13/cobra"

	"rocketintel-sim/internal/dashboard"
	"rocketintel-sim/internal/logging"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards",
	Long:  "dashboard renders the Grafana dashboards for the GreptimeDB tables; the datasource uid is read from " + dashboard.DatasourceEnv + ".",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dashboard.Render(dashboardOut); err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("dashboards rendered", "dir", dashboardOut)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}
