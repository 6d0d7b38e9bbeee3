package config

import (
	"bytes"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config stores global configuration
type Config struct {
	// Is development mode on
	IsDevelopment bool

	// Maximum time minter will be closing before stop is forced.
	StopTimeout time.Duration

	// Logging level
	LogLevel string

	Host       Host
	Minter     Minter
	Token      Token
	Collection Collection
	Gateway    Gateway
	Redis      Redis
	Publisher  Publisher
	Profiler   Profiler
}

func setDefaults() {
	viper.SetDefault("IsDevelopment", "false")
	viper.SetDefault("LogLevel", "DEBUG")
	viper.SetDefault("StopTimeout", "30s")

	setHostDefaults()
	setMinterDefaults()
	setTokenDefaults()
	setCollectionDefaults()
	setGatewayDefaults()
	setRedisDefaults()
	setPublisherDefaults()
	setProfilerDefaults()
}

func Default() (config *Config) {
	config, _ = Load("")
	return
}

// Registers upper snake case ENV name for every field, e.g. MINTER_MINTER_NATIVE_PRICE
func BindEnv(path []string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		key := strings.ToLower(strings.Join(path, "."))
		env := "MINTER_" + strcase.ToScreamingSnake(strings.Join(path, "_"))
		err := viper.BindEnv(key, env)
		if err != nil {
			panic(err)
		}
		return
	}

	// Iterates over struct fields
	for i := 0; i < val.NumField(); i++ {
		newPath := make([]string, len(path))
		copy(newPath, path)
		newPath = append(newPath, val.Type().Field(i).Name)
		BindEnv(newPath, val.Field(i))
	}
}

func decodeHook(c *mapstructure.DecoderConfig) {
	c.WeaklyTypedInput = true
	c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Load configuration from file and env
func Load(filename string) (config *Config, err error) {
	viper.SetConfigType("json")

	setDefaults()

	BindEnv([]string{}, reflect.ValueOf(Config{}))

	// Empty filename means we use default values
	if filename != "" {
		var content []byte
		/* #nosec */
		content, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		err = viper.ReadConfig(bytes.NewBuffer(content))
		if err != nil {
			return nil, err
		}
	}

	config = new(Config)
	err = viper.Unmarshal(&config, decodeHook)
	if err != nil {
		return nil, err
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return
}
