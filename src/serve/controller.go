package serve

import (
	"github.com/warp-contracts/minter/src/deploy"
	"github.com/warp-contracts/minter/src/gateway"
	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/host"
	monitor_minter "github.com/warp-contracts/minter/src/utils/monitoring/minter"
	"github.com/warp-contracts/minter/src/utils/publisher"
	"github.com/warp-contracts/minter/src/utils/task"
)

type Controller struct {
	*task.Task

	Host       *host.Host
	Deployment *deploy.Deployment
}

// Main class that orchestrates the minter service:
// opens the host state, deploys contracts and serves the REST API
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	self.Host, err = host.New(config)
	if err != nil {
		return
	}

	monitor := monitor_minter.NewMonitor(config).
		WithMaxHistorySize(30)

	self.Host.WithOnCommit(monitor.OnCommit).
		WithOnRevert(monitor.OnRevert)

	self.Deployment, err = deploy.Deploy(config, self.Host)
	if err != nil {
		self.closeHost()
		return nil, err
	}

	server := gateway.NewServer(config).
		WithMonitor(monitor).
		WithClient(deploy.NewClient(self.Host, self.Deployment), self.Host)

	self.Host.WithOnCommit(server.OnCommit)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithOnAfterStop(self.closeHost)

	if config.Publisher.Enabled {
		source := publisher.NewMintSource(config.Publisher.QueueSize).
			WithMonitor(monitor)

		redisPublisher := publisher.NewRedisPublisher[*publisher.MintNotification](config, "redis-publisher").
			WithMonitor(monitor).
			WithInputChannel(source.Output())

		self.Host.WithOnCommit(source.OnCommit)

		self.Task = self.Task.
			WithSubtask(redisPublisher.Task).
			WithOnStop(source.Close)
	}

	return
}

func (self *Controller) closeHost() {
	err := self.Host.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close state database")
	}
}
