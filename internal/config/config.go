package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds the daemon's ambient configuration: which wireless
// interface to drive and the BSS parameters to start it with. CLI parsing
// beyond these flags, D-Bus/IPC, channel selection, and rate negotiation
// are out of scope for this module and left to an external caller.
type Config struct {
	Interface      string
	SSID           string
	PSK            string
	Channel        int
	BeaconInterval int
	MetricsAddr    string
	Debug          bool
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	cfg.Interface = getEnv("SOFTAPD_INTERFACE", "wlan0")
	cfg.SSID = getEnv("SOFTAPD_SSID", "MyAP")
	cfg.PSK = getEnv("SOFTAPD_PSK", "")
	cfg.Channel = int(getEnvInt("SOFTAPD_CHANNEL", 6))
	cfg.BeaconInterval = int(getEnvInt("SOFTAPD_BEACON_INTERVAL", 100))
	cfg.MetricsAddr = getEnv("SOFTAPD_METRICS_ADDR", ":9090")
	cfg.Debug = getEnvBool("SOFTAPD_DEBUG", false)

	flag.StringVar(&cfg.Interface, "i", cfg.Interface, "Wireless interface to bring up as a soft AP")
	flag.StringVar(&cfg.SSID, "ssid", cfg.SSID, "Network name to advertise")
	flag.StringVar(&cfg.PSK, "psk", cfg.PSK, "WPA2-PSK pre-shared key")
	flag.IntVar(&cfg.Channel, "channel", cfg.Channel, "2.4 GHz channel number (1-14)")
	flag.IntVar(&cfg.BeaconInterval, "beacon-interval", cfg.BeaconInterval, "Beacon interval in TUs")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to serve Prometheus metrics on")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
