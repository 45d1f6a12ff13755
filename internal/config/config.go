// Package config loads environment configuration for padlink.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/frudas24/padlink/internal/inject"
	"github.com/frudas24/padlink/internal/transport"
)

const (
	defaultListenAddr       = "0.0.0.0:8787"
	defaultDataDir          = "./data"
	defaultTransport        = transport.KindRFCOMM
	defaultRFCOMMChannel    = transport.DefaultRFCOMMChannel
	defaultMoveIntervalMs   = 15
	defaultConnectTimeoutMs = 15000
	defaultPadScale         = 8
	defaultRecvListenAddr   = "0.0.0.0:7575"
	defaultSpeedPct         = 100
	defaultInterpSteps      = 0
	defaultInjector         = inject.KindNative
)

// Config holds runtime configuration values for both the sender and the receiver.
type Config struct {
	ListenAddr     string
	UIPassword     string
	PasswordMode   bool
	DataDir        string
	PrefsPath      string
	Transport      string
	RFCOMMChannel  int
	MoveInterval   time.Duration
	ConnectTimeout time.Duration
	PadScale       int

	RecvListenAddr string
	SpeedPct       int
	InterpSteps    int
	Injector       string
}

// EnvPath returns the .env file location for the configured data dir.
func (c Config) EnvPath() string {
	return filepath.Join(c.DataDir, ".env")
}

// Load reads configuration from ./data/.env and environment variables.
// The receiver uses it directly; the sender goes through LoadSender.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:     defaultListenAddr,
		PasswordMode:   true,
		DataDir:        defaultDataDir,
		Transport:      defaultTransport,
		RFCOMMChannel:  defaultRFCOMMChannel,
		PadScale:       defaultPadScale,
		RecvListenAddr: defaultRecvListenAddr,
		SpeedPct:       defaultSpeedPct,
		InterpSteps:    defaultInterpSteps,
		Injector:       defaultInjector,
	}

	if err := loadEnvFile(filepath.Join(envString("DATA_DIR", cfg.DataDir), ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.PrefsPath = envString("PREFS_PATH", filepath.Join(cfg.DataDir, "prefs.yaml"))
	cfg.UIPassword = strings.TrimSpace(os.Getenv("UI_PASSWORD"))
	cfg.PasswordMode = envBool("PASSWORD_MODE", cfg.PasswordMode)
	cfg.Transport = transport.NormalizeKind(envString("TRANSPORT", cfg.Transport))
	cfg.RecvListenAddr = envString("RECV_LISTEN_ADDR", cfg.RecvListenAddr)
	cfg.Injector = normalizeInjector(envString("INJECTOR", cfg.Injector))

	channel, err := envInt("RFCOMM_CHANNEL", cfg.RFCOMMChannel)
	if err != nil {
		return Config{}, err
	}
	if channel < 1 || channel > 30 {
		return Config{}, fmt.Errorf("RFCOMM_CHANNEL must be 1-30")
	}
	cfg.RFCOMMChannel = channel

	moveMs, err := envInt("MOVE_INTERVAL_MS", defaultMoveIntervalMs)
	if err != nil {
		return Config{}, err
	}
	if moveMs <= 0 {
		return Config{}, fmt.Errorf("MOVE_INTERVAL_MS must be > 0")
	}
	cfg.MoveInterval = time.Duration(moveMs) * time.Millisecond

	connectMs, err := envInt("CONNECT_TIMEOUT_MS", defaultConnectTimeoutMs)
	if err != nil {
		return Config{}, err
	}
	if connectMs <= 0 {
		return Config{}, fmt.Errorf("CONNECT_TIMEOUT_MS must be > 0")
	}
	cfg.ConnectTimeout = time.Duration(connectMs) * time.Millisecond

	padScale, err := envInt("PAD_SCALE", cfg.PadScale)
	if err != nil {
		return Config{}, err
	}
	if padScale <= 0 {
		return Config{}, fmt.Errorf("PAD_SCALE must be > 0")
	}
	cfg.PadScale = padScale

	speed, err := envInt("SPEED_PCT", cfg.SpeedPct)
	if err != nil {
		return Config{}, err
	}
	if speed == 0 {
		return Config{}, fmt.Errorf("SPEED_PCT must not be 0")
	}
	cfg.SpeedPct = speed

	steps, err := envInt("INTERP_STEPS", cfg.InterpSteps)
	if err != nil {
		return Config{}, err
	}
	if steps < 0 {
		return Config{}, fmt.Errorf("INTERP_STEPS must be >= 0")
	}
	cfg.InterpSteps = steps

	return cfg, nil
}

// LoadSender loads configuration and checks what the sender's HTTP surface needs.
func LoadSender() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if cfg.PasswordMode && cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}
	return cfg, nil
}

// normalizeInjector ensures a supported injector kind.
func normalizeInjector(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case inject.KindLog:
		return inject.KindLog
	default:
		return inject.KindNative
	}
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without overriding the environment.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
