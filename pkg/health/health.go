package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kaara/it100-websocket/pkg/config"
	"github.com/kaara/it100-websocket/pkg/mqtt"
	"github.com/rs/zerolog/log"

	healthgo "github.com/hellofresh/health-go/v5"
)

type Health interface {
	Start() error
	Stop() error
	Router() http.Handler
}

type health struct {
	config     config.HealthCheckConfig
	mqttClient mqtt.Client
	health     *healthgo.Health

	server *http.Server
}

func NewHealth(config config.HealthCheckConfig, mqttClient mqtt.Client) (Health, error) {
	h, err := healthgo.New(healthgo.WithComponent(healthgo.Component{
		Name:    "it100-websocket",
		Version: "v1.0",
	}))
	if err != nil {
		return nil, fmt.Errorf("error creating health check: %w", err)
	}

	// The panel is only reachable through the broker.
	err = h.Register(healthgo.Config{
		Name:      "mqtt",
		Timeout:   time.Second * 2,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			if mqttClient.IsConnected() {
				return nil
			}
			return errors.New("MQTT client is not connected")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to register MQTT healthcheck: %w", err)
	}

	return &health{
		config:     config,
		mqttClient: mqttClient,
		health:     h,
	}, nil
}

func (h *health) Start() error {
	listenAddr := fmt.Sprintf("0.0.0.0:%d", h.config.Port)
	h.server = &http.Server{Addr: listenAddr, Handler: h.Router()}
	go func() {
		log.Info().Msgf("Starting health check server on %s", listenAddr)
		err := h.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Unable to start health check server")
		}
	}()
	return nil
}

func (h *health) Stop() error {
	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("Health check server stopped")
	return nil
}

func (h *health) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.health.HandlerFunc)
	r.Get("/health/ready", h.health.HandlerFunc)
	r.Get("/health/live", h.health.HandlerFunc)
	return r
}
