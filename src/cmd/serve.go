package cmd

import (
	"github.com/spf13/cobra"

	"github.com/warp-contracts/minter/src/serve"
	"github.com/warp-contracts/minter/src/utils/logger"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Deploys the contracts if needed and serves the REST API",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := serve.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished serve command")
		applicationCtxCancel()
		return
	},
}
