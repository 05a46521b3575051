package controller

import (
	"fmt"

	"github.com/kaara/it100-websocket/pkg/bridge"
	"github.com/kaara/it100-websocket/pkg/config"
	"github.com/kaara/it100-websocket/pkg/health"
	"github.com/kaara/it100-websocket/pkg/mqtt"
	"github.com/kaara/it100-websocket/pkg/panel"
	"github.com/kaara/it100-websocket/pkg/server"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	mqttClient  mqtt.Client
	panelClient panel.Client
	server      server.Server
	health      health.Health
}

func NewController(config *config.Config) (*Controller, error) {
	mqttOptions := mqtt.NewClientOptions().
		SetMqttUrl(config.Mqtt.MqttUrl).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetTopicPrefix(config.Mqtt.TopicPrefix)
	mqttClient := mqtt.NewClient(mqttOptions)

	panelClient := panel.NewClient(mqttClient, panel.NewClientOptions())

	serverOptions := server.NewOptions().
		SetListenAddress(config.Websocket.ListenAddress).
		SetPath(config.Websocket.Path).
		SetSendBufferSize(config.Websocket.SendBufferSize)

	controller := Controller{
		mqttClient:  mqttClient,
		panelClient: panelClient,
		server:      server.NewServer(bridge.NewHandler(panelClient), serverOptions),
	}

	if config.HealthCheck.Enabled {
		h, err := health.NewHealth(config.HealthCheck, mqttClient)
		if err != nil {
			return nil, err
		}
		controller.health = h
	}

	return &controller, nil
}

func (c *Controller) Start() error {
	log.Info().Msg("Starting controller.")
	if err := c.mqttClient.Connect(); err != nil {
		return fmt.Errorf("error connecting to MQTT client: %w", err)
	}
	if err := c.panelClient.Connect(); err != nil {
		return fmt.Errorf("error connecting to panel: %w", err)
	}
	if err := c.server.Start(); err != nil {
		return fmt.Errorf("error starting WebSocket server: %w", err)
	}
	if c.health != nil {
		if err := c.health.Start(); err != nil {
			return fmt.Errorf("error starting health check server: %w", err)
		}
	}
	return nil
}

func (c *Controller) Stop() error {
	log.Info().Msg("Stopping controller.")

	if c.health != nil {
		if err := c.health.Stop(); err != nil {
			return fmt.Errorf("error stopping health check server: %w", err)
		}
	}
	// Closing the sessions cancels their panel subscriptions.
	if err := c.server.Stop(); err != nil {
		return fmt.Errorf("error stopping WebSocket server: %w", err)
	}
	if err := c.panelClient.Disconnect(); err != nil {
		return fmt.Errorf("error disconnecting from panel: %w", err)
	}
	if err := c.mqttClient.Disconnect(); err != nil {
		return fmt.Errorf("error disconnecting to MQTT client: %w", err)
	}

	return nil
}
