package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"biomni-chat/internal/application/port/output"
)

const (
	EnvServerName = "GRADIO_SERVER_NAME"
	EnvServerPort = "GRADIO_SERVER_PORT"

	DefaultHost = "127.0.0.1"
	// AutoPort lets the OS pick a free port.
	AutoPort = 0
)

type ListenConfig struct {
	Host string
	Port int
}

func (c ListenConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ResolveListenConfig reads host and port overrides. A port that does not
// parse as 1..65535 is reported once through log and replaced by AutoPort.
func ResolveListenConfig(cfg output.ConfigPort, log output.LoggerPort) ListenConfig {
	lc := ListenConfig{
		Host: cfg.GetWithDefault(EnvServerName, DefaultHost),
		Port: AutoPort,
	}

	raw := cfg.Get(EnvServerPort)
	if raw == "" {
		return lc
	}

	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		log.Warn("Invalid port override, selecting a free port automatically", "env", EnvServerPort, "value", raw)
		return lc
	}

	lc.Port = port
	return lc
}

type listenFunc func(network, address string) (net.Listener, error)

// Listen binds lc. When an explicit port is taken it retries once with
// AutoPort; the second failure is returned.
func Listen(lc ListenConfig, log output.LoggerPort) (net.Listener, error) {
	return listenWith(net.Listen, lc, log)
}

func listenWith(listen listenFunc, lc ListenConfig, log output.LoggerPort) (net.Listener, error) {
	ln, err := listen("tcp", lc.Addr())
	if err == nil {
		return ln, nil
	}
	if lc.Port == AutoPort {
		return nil, fmt.Errorf("listen on %s: %w", lc.Addr(), err)
	}

	log.Warn("Requested port unavailable, retrying with automatic port", "addr", lc.Addr(), "error", err)

	fallback := ListenConfig{Host: lc.Host, Port: AutoPort}
	ln, fallbackErr := listen("tcp", fallback.Addr())
	if fallbackErr != nil {
		return nil, fmt.Errorf("listen on %s: %w", fallback.Addr(), errors.Join(err, fallbackErr))
	}
	return ln, nil
}
