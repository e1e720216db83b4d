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

// Package client is a minimal JSON-RPC client for the local BRL+ service,
// used by the CLI flags and by anything that wants a one-shot request
// without holding a connection open.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api/v0.1"

func localWSURL(cfg *config.Instance) string {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   APIPath,
	}
	return u.String()
}

// LocalClient sends a single method with params to the local running API
// service, waits for a response until timeout then disconnects.
func LocalClient(
	ctx context.Context,
	cfg *config.Instance,
	method string,
	params string,
) (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}

	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}

	switch {
	case len(params) == 0:
		req.Params = nil
	case json.Valid([]byte(params)):
		req.Params = []byte(params)
	default:
		return "", ErrInvalidParams
	}

	c, _, err := websocket.DefaultDialer.Dial(localWSURL(cfg), nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("closing websocket")
		}
	}()

	done := make(chan struct{})
	var resp *models.ResponseObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				return
			}

			var m models.ResponseObject
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" || m.ID != id {
				continue
			}

			resp = &m
			return
		}
	}()

	if err := c.WriteJSON(req); err != nil {
		return "", err
	}

	timer := time.NewTimer(config.ApiRequestTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		_ = c.Close()
		return "", ErrRequestTimeout
	case <-ctx.Done():
		_ = c.Close()
		return "", ErrRequestCancelled
	}

	if resp == nil {
		return "", ErrRequestTimeout
	}
	if resp.Error != nil {
		return "", errors.New(resp.Error.Message)
	}

	b, err := json.Marshal(resp.Result)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WaitNotification blocks until the service pushes a notification with the
// given method, or until timeout. A zero timeout uses the default request
// timeout; a negative one waits forever.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	method string,
) (string, error) {
	c, _, err := websocket.DefaultDialer.Dial(localWSURL(cfg), nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("closing websocket")
		}
	}()

	done := make(chan struct{})
	var notif *models.RequestObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				return
			}

			var m models.RequestObject
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			// notifications have no id
			if m.JSONRPC != "2.0" || m.ID != nil || m.Method != method {
				continue
			}

			notif = &m
			return
		}
	}()

	var timerChan <-chan time.Time
	if timeout == 0 {
		timer := time.NewTimer(config.ApiRequestTimeout)
		defer timer.Stop()
		timerChan = timer.C
	} else if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerChan = timer.C
	}
	// negative timeout leaves the chan nil, which never receives

	select {
	case <-done:
	case <-timerChan:
		_ = c.Close()
		return "", ErrRequestTimeout
	case <-ctx.Done():
		_ = c.Close()
		return "", ErrRequestCancelled
	}

	if notif == nil {
		return "", ErrRequestTimeout
	}

	b, err := json.Marshal(notif.Params)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WaitForAPI polls the local service until it answers a version request,
// for use right after service start. Returns false if it never came up
// within maxWait.
func WaitForAPI(cfg *config.Instance, maxWait, checkInterval time.Duration) bool {
	if checkInterval <= 0 {
		checkInterval = 200 * time.Millisecond
	}
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err := LocalClient(ctx, cfg, models.MethodVersion, "")
		cancel()
		if err == nil {
			return true
		}
		time.Sleep(checkInterval)
	}
	return false
}
