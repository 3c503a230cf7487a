// Package platform reads the desktop color scheme via the XDG settings
// portal.
package platform

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	portalBusName    = "org.freedesktop.portal.Desktop"
	portalObjectPath = "/org/freedesktop/portal/desktop"
	settingsIface    = "org.freedesktop.portal.Settings"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"

	// Portal color-scheme values: 0 no preference, 1 prefer dark,
	// 2 prefer light.
	schemePreferDark = 1
)

// ColorSchemeMonitor tracks the desktop color scheme through the
// org.freedesktop.portal.Settings interface and notifies subscribers when
// it flips between light and dark.
type ColorSchemeMonitor struct {
	mu     sync.RWMutex
	logger *slog.Logger

	conn    *dbus.Conn
	dark    bool
	fns     []func(dark bool)
	signals chan *dbus.Signal
	done    chan struct{}
	running bool
}

// NewColorSchemeMonitor creates a monitor. Call Start to connect.
func NewColorSchemeMonitor(logger *slog.Logger) *ColorSchemeMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ColorSchemeMonitor{logger: logger}
}

// Dark reports the last observed color scheme preference.
func (m *ColorSchemeMonitor) Dark() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dark
}

// OnChange registers a callback invoked when the scheme flips. Callbacks
// run on the monitor goroutine.
func (m *ColorSchemeMonitor) OnChange(fn func(dark bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fns = append(m.fns, fn)
}

// Start connects to the session bus, reads the current scheme, and begins
// listening for SettingChanged signals.
func (m *ColorSchemeMonitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	obj := conn.Object(portalBusName, portalObjectPath)
	var value dbus.Variant
	err = obj.Call(settingsIface+".Read", 0, appearanceNamespace, colorSchemeKey).Store(&value)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read color scheme: %w", err)
	}

	dark, err := parseColorScheme(value)
	if err != nil {
		conn.Close()
		return fmt.Errorf("unexpected color scheme value: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(portalObjectPath),
		dbus.WithMatchInterface(settingsIface),
		dbus.WithMatchMember("SettingChanged"),
	); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to setting changes: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	m.mu.Lock()
	m.conn = conn
	m.dark = dark
	m.signals = signals
	m.done = make(chan struct{})
	m.running = true
	m.mu.Unlock()

	go m.loop()

	m.logger.Info("color scheme monitor started", "dark", dark)
	return nil
}

// Stop disconnects from the bus.
func (m *ColorSchemeMonitor) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	close(m.done)
	conn := m.conn
	m.mu.Unlock()

	return conn.Close()
}

func (m *ColorSchemeMonitor) loop() {
	for {
		select {
		case sig, ok := <-m.signals:
			if !ok {
				return
			}
			m.handleSignal(sig)
		case <-m.done:
			return
		}
	}
}

func (m *ColorSchemeMonitor) handleSignal(sig *dbus.Signal) {
	if sig.Name != settingsIface+".SettingChanged" || len(sig.Body) < 3 {
		return
	}
	namespace, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	if namespace != appearanceNamespace || key != colorSchemeKey {
		return
	}
	value, ok := sig.Body[2].(dbus.Variant)
	if !ok {
		return
	}

	dark, err := parseColorScheme(value)
	if err != nil {
		m.logger.Warn("unparseable color scheme change", "error", err)
		return
	}

	m.mu.Lock()
	if m.dark == dark {
		m.mu.Unlock()
		return
	}
	m.dark = dark
	fns := append([]func(bool){}, m.fns...)
	m.mu.Unlock()

	m.logger.Debug("color scheme changed", "dark", dark)
	for _, fn := range fns {
		fn(dark)
	}
}

// parseColorScheme unwraps the portal value. Read returns the setting
// boxed in a variant holding another variant holding a uint32; signals
// carry a single level of boxing.
func parseColorScheme(value dbus.Variant) (bool, error) {
	inner := value.Value()
	for {
		v, ok := inner.(dbus.Variant)
		if !ok {
			break
		}
		inner = v.Value()
	}
	scheme, ok := inner.(uint32)
	if !ok {
		return false, fmt.Errorf("want uint32, got %T", inner)
	}
	return scheme == schemePreferDark, nil
}
