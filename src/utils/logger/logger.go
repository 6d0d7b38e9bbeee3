package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/warp-contracts/minter/src/utils/config"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
}

// Configures the shared logger. Development gets colored text, everything else JSON lines
func Init(config *config.Config) (err error) {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)

	if config.IsDevelopment {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "message",
			},
		})
	}

	return nil
}

// Entry tagged with the component, e.g. module=minter.gateway
func NewSublogger(tag string) *logrus.Entry {
	return logger.WithField("module", "minter."+tag)
}

func L() *logrus.Logger {
	return logger
}
