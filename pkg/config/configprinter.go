// BRL+
// Copyright (c) 2026 The BRL+ Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of BRL+.
//
// BRL+ is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// BRL+ is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with BRL+.  If not, see <http://www.gnu.org/licenses/>.

package config

const (
	ProtocolPlain       = "plain"
	ProtocolChecksummed = "checksummed"
	DefaultBaudRate     = 250000
)

type Printer struct {
	Baud           *int   `toml:"baud,omitempty"`
	HomeOnFinish   *bool  `toml:"home_on_finish,omitempty"`
	Port           string `toml:"port,omitempty"`
	Protocol       string `toml:"protocol,omitempty"`
	ConnectOnStart bool   `toml:"connect_on_start"`
}

// PrinterPort returns the configured port hint. Empty means no preference;
// the service falls back to device discovery.
func (c *Instance) PrinterPort() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Printer.Port
}

func (c *Instance) SetPrinterPort(port string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Printer.Port = port
}

func (c *Instance) PrinterBaud() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Printer.Baud == nil {
		return DefaultBaudRate
	}
	return *c.vals.Printer.Baud
}

func (c *Instance) SetPrinterBaud(baud int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Printer.Baud = &baud
}

// PrinterProtocol returns the configured firmware protocol, one of
// ProtocolPlain or ProtocolChecksummed. Unset or unrecognized values fall
// back to plain, matching what most embosser firmware ships with.
func (c *Instance) PrinterProtocol() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Printer.Protocol == ProtocolChecksummed {
		return ProtocolChecksummed
	}
	return ProtocolPlain
}

func (c *Instance) SetPrinterProtocol(protocol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Printer.Protocol = protocol
}

func (c *Instance) HomeOnFinish() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Printer.HomeOnFinish == nil {
		return true
	}
	return *c.vals.Printer.HomeOnFinish
}

func (c *Instance) SetHomeOnFinish(home bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Printer.HomeOnFinish = &home
}

func (c *Instance) ConnectOnStart() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Printer.ConnectOnStart
}

func (c *Instance) SetConnectOnStart(connect bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Printer.ConnectOnStart = connect
}
