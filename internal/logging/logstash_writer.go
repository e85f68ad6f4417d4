package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// LogstashConfig describes the TCP input lines are shipped to. Zero durations
// take the defaults below.
type LogstashConfig struct {
	Addr         string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Backoff      time.Duration
}

// LogstashWriter ships newline-delimited log lines over one TCP connection.
// Writes never fail the caller and never wait on a connect: while no
// connection is up lines are dropped and a background dial is started, at
// most once per backoff window.
type LogstashWriter struct {
	cfg  LogstashConfig
	dial func(network, addr string, timeout time.Duration) (net.Conn, error)

	mu       sync.Mutex
	conn     net.Conn
	dialing  bool
	retryAt  time.Time
	shutdown bool
}

func NewLogstashWriter(cfg LogstashConfig) (*LogstashWriter, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 5 * time.Second
	}
	return &LogstashWriter{cfg: cfg, dial: net.DialTimeout}, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return 0, io.ErrClosedPipe
	}
	if w.conn == nil {
		w.startDialLocked()
		return len(p), nil
	}

	_ = w.conn.SetWriteDeadline(time.Now().Add(w.cfg.WriteTimeout))
	if _, err := w.conn.Write(line); err != nil {
		w.dropLocked()
		w.retryAt = time.Now().Add(w.cfg.Backoff)
	}
	return len(p), nil
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return nil
	}
	w.shutdown = true
	return w.dropLocked()
}

func (w *LogstashWriter) startDialLocked() {
	if w.dialing || time.Now().Before(w.retryAt) {
		return
	}
	w.dialing = true
	go w.connect()
}

func (w *LogstashWriter) connect() {
	conn, err := w.dial("tcp", w.cfg.Addr, w.cfg.DialTimeout)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.dialing = false
	switch {
	case err != nil:
		w.retryAt = time.Now().Add(w.cfg.Backoff)
	case w.shutdown:
		_ = conn.Close()
	default:
		w.conn = conn
		w.retryAt = time.Time{}
	}
}

func (w *LogstashWriter) state() (connected, dialing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil, w.dialing
}

func (w *LogstashWriter) dropLocked() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
