package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lcalzada-xor/softapd/internal/ap"
	"github.com/lcalzada-xor/softapd/internal/config"
	"github.com/lcalzada-xor/softapd/internal/core/domain"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("softapd starting")

	cfg := config.Load()

	iface, err := net.InterfaceByName(cfg.Interface)
	if err != nil {
		log.Fatalf("failed to resolve interface %s: %v", cfg.Interface, err)
	}
	var bssid [6]byte
	copy(bssid[:], iface.HardwareAddr)

	ap.InitMetrics()

	transport, err := ap.NewGenlTransport()
	if err != nil {
		log.Fatalf("failed to open nl80211 transport: %v", err)
	}

	module := ap.NewModule(transport)
	defer module.Close()

	errChan := make(chan error, 1)
	events := make(chan string, 2)

	go func() {
		log.Printf("Metrics listening on %s", cfg.MetricsAddr)
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			errChan <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	deviceID := cfg.Interface
	cb := domain.EventCallback(func(id string, ev domain.Event) {
		events <- fmt.Sprintf("%s: %s", id, ev.String())
	})

	if err := module.Start(deviceID, uint32(iface.Index), bssid, cfg.SSID, cfg.PSK, cfg.Channel, uint16(cfg.BeaconInterval), cb); err != nil {
		log.Fatalf("failed to start AP on %s: %v", cfg.Interface, err)
	}

	slog.Info("softapd ready", "interface", cfg.Interface, "ssid", cfg.SSID, "channel", cfg.Channel)

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping AP", "device", deviceID)
			if err := module.Stop(deviceID); err != nil {
				slog.Error("failed to stop AP", "device", deviceID, "error", err)
			}
			return
		case err := <-errChan:
			slog.Error("fatal error encountered", "error", err)
			if stopErr := module.Stop(deviceID); stopErr != nil {
				slog.Error("failed to stop AP during error shutdown", "device", deviceID, "error", stopErr)
			}
			return
		case msg := <-events:
			slog.Info("AP lifecycle event", "event", msg)
		}
	}
}
