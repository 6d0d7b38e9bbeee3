package report

type Report struct {
	Run            *RunReport            `json:"run,omitempty"`
	Host           *HostReport           `json:"host,omitempty"`
	Minter         *MinterReport         `json:"minter,omitempty"`
	Gateway        *GatewayReport        `json:"gateway,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
}
