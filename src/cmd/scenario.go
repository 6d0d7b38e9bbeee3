package cmd

import (
	"github.com/spf13/cobra"

	"github.com/warp-contracts/minter/src/scenario"
	"github.com/warp-contracts/minter/src/utils/logger"
)

func init() {
	RootCmd.AddCommand(scenarioCmd)
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Runs example mints against an in-memory host",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		s, err := scenario.New(conf)
		if err != nil {
			return
		}
		return s.Run()
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished scenario command")
		applicationCtxCancel()
		return
	},
}
