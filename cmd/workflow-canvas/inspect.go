package main

import (
	"github.com/spf13/cobra"

	"github.com/ritzau/workflow-canvas/pkg/analysis"
	"github.com/ritzau/workflow-canvas/pkg/output"
)

func inspectCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [name]",
		Short: "Print a saved workflow and its structural report, or list workflows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 0 {
				list, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				output.PrintWorkflowList(cmd.OutOrStdout(), list)
				return nil
			}

			wf, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output.PrintWorkflowReport(cmd.OutOrStdout(), wf, analysis.Inspect(wf.Nodes, wf.Edges))
			return nil
		},
	}
}
