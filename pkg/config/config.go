package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ConfigMqtt struct {
	MqttUrl     string
	Username    string
	Password    string
	TopicPrefix string
}

type ConfigWebsocket struct {
	ListenAddress  string
	Path           string
	SendBufferSize int
}

type HealthCheckConfig struct {
	Enabled bool
	Port    int
}

type Config struct {
	Mqtt               ConfigMqtt
	Websocket          ConfigWebsocket
	HealthCheck        HealthCheckConfig
	DebugListenAddress string
	LogLevel           string
}

const (
	undefined                    string = "__undefined__"
	deprecated                   string = "__deprecated__"
	configName                   string = "config"
	envKeyMqttUrl                string = "mqtt_url"
	envKeyMqttUsername           string = "mqtt_username"
	envKeyMqttPassword           string = "mqtt_password"
	envKeyMqttTopicPrefix        string = "mqtt_topic_prefix"
	envKeyWebsocketListenAddress string = "websocket_listen_address"
	envKeyWebsocketPath          string = "websocket_path"
	envKeyWebsocketSendBuffer    string = "websocket_send_buffer"
	envKeyWebsocketPort          string = "websocket_port"
	envKeyHealthCheckEnabled     string = "health_check_enabled"
	envKeyHealthCheckPort        string = "health_check_port"
	envKeyDebugListenAddress     string = "debug_listen_address"
	envKeyLogLevel               string = "log_level"
)

var defaultConfig = map[string]interface{}{
	envKeyMqttUrl:                undefined,
	envKeyMqttUsername:           "",
	envKeyMqttPassword:           "",
	envKeyMqttTopicPrefix:        "it100",
	envKeyWebsocketListenAddress: ":8080",
	envKeyWebsocketPath:          "/it100",
	envKeyWebsocketSendBuffer:    256,
	envKeyWebsocketPort:          deprecated,
	envKeyHealthCheckEnabled:     true,
	envKeyHealthCheckPort:        8081,
	envKeyDebugListenAddress:     ":6060",
	envKeyLogLevel:               "INFO",
}

// FlagLogLevel is the command line flag overriding log_level.
const FlagLogLevel = "log-level"

// ReadConfig returns a Config built from, in order of precedence, the command
// line flags, the environment variables and the config file. configFile may be
// empty, in which case config.yaml is looked up in the working directory and
// is optional.
func ReadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		// Set the current directory where the binary is being run.
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	for key, value := range defaultConfig {
		if value != undefined && value != deprecated {
			v.SetDefault(key, value)
		}
	}
	if flags != nil {
		if flag := flags.Lookup(FlagLogLevel); flag != nil {
			if err := v.BindPFlag(envKeyLogLevel, flag); err != nil {
				return nil, fmt.Errorf("error binding flag %s: %w", FlagLogLevel, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ReadInConfig error: %w", err)
		}
	}

	// Check for deprecated and undefined fields.
	for fieldName, defaultValue := range defaultConfig {
		if defaultValue == deprecated && v.IsSet(fieldName) {
			return nil, fmt.Errorf("deprecated field found in config: %s", fieldName)
		}
	}
	for fieldName, defaultValue := range defaultConfig {
		if defaultValue == undefined && !v.IsSet(fieldName) {
			return nil, fmt.Errorf("required field not found in config: %s", fieldName)
		}
	}

	config := &Config{
		Mqtt: ConfigMqtt{
			MqttUrl:     v.GetString(envKeyMqttUrl),
			Username:    v.GetString(envKeyMqttUsername),
			Password:    v.GetString(envKeyMqttPassword),
			TopicPrefix: v.GetString(envKeyMqttTopicPrefix),
		},
		Websocket: ConfigWebsocket{
			ListenAddress:  v.GetString(envKeyWebsocketListenAddress),
			Path:           v.GetString(envKeyWebsocketPath),
			SendBufferSize: v.GetInt(envKeyWebsocketSendBuffer),
		},
		HealthCheck: HealthCheckConfig{
			Enabled: v.GetBool(envKeyHealthCheckEnabled),
			Port:    v.GetInt(envKeyHealthCheckPort),
		},
		DebugListenAddress: v.GetString(envKeyDebugListenAddress),
		LogLevel:           v.GetString(envKeyLogLevel),
	}

	if config.Websocket.SendBufferSize < 1 {
		return nil, fmt.Errorf("%s must be positive, got %d", envKeyWebsocketSendBuffer, config.Websocket.SendBufferSize)
	}

	return config, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("mqtt=%s prefix=%s websocket=%s%s", c.Mqtt.MqttUrl, c.Mqtt.TopicPrefix, c.Websocket.ListenAddress, c.Websocket.Path)
}
