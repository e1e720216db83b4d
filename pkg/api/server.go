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

// Package api serves the JSON-RPC 2.0 control API over HTTP and
// WebSocket. All methods run against a shared RequestEnv so handlers
// never reach for globals.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	apimiddleware "github.com/KabirK-05/BRL-Plus/pkg/api/middleware"
	"github.com/KabirK-05/BRL-Plus/pkg/api/methods"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models/requests"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/jobs"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/KabirK-05/BRL-Plus/pkg/service/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorInvalidParams = models.ErrorObject{
		Code:    -32602,
		Message: "Invalid params",
	}
	JSONRPCErrorInternalError = models.ErrorObject{
		Code:    -32603,
		Message: "Internal error",
	}
	JSONRPCErrorServerError = models.ErrorObject{
		Code:    -32000,
		Message: "Server error",
	}
)

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// device
	models.MethodPorts:      methods.HandlePorts,
	models.MethodPortsProbe: methods.HandlePortsProbe,
	models.MethodConnect:    methods.HandleConnect,
	models.MethodDisconnect: methods.HandleDisconnect,
	models.MethodStatus:     methods.HandleStatus,
	// printing
	models.MethodPrintText:   methods.HandlePrintText,
	models.MethodPrintDots:   methods.HandlePrintDots,
	models.MethodPrintStop:   methods.HandlePrintStop,
	models.MethodPrintPause:  methods.HandlePrintPause,
	models.MethodPrintResume: methods.HandlePrintResume,
	models.MethodJobsResume:  methods.HandleJobsResume,
	// history
	models.MethodHistory:       methods.HandleHistory,
	models.MethodHistoryExport: methods.HandleHistoryExport,
	// braille
	models.MethodTables:        methods.HandleTables,
	models.MethodLayouts:       methods.HandleLayouts,
	models.MethodBrailleRender: methods.HandleBrailleRender,
	// settings
	models.MethodSettings:       methods.HandleSettings,
	models.MethodSettingsUpdate: methods.HandleSettingsUpdate,
	// utils
	models.MethodVersion:    methods.HandleVersion,
	models.MethodSystemInfo: methods.HandleSystemInfo,
}

// Env carries the service singletons every request handler runs against.
type Env struct {
	Config   *config.Instance
	State    *state.State
	Database *database.Database
	Printer  *printer.Printer
	Jobs     *jobs.Manager
}

func handleRequest(env requests.RequestEnv, req models.RequestObject) (any, *models.ErrorObject) {
	log.Debug().Str("method", req.Method).Msg("received request")

	fn, ok := methodMap[strings.ToLower(req.Method)]
	if !ok {
		return nil, &JSONRPCErrorMethodNotFound
	}

	env.ID = *req.ID
	env.Params = req.Params

	resp, err := fn(env)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Msg("request failed")
		rpcErr := JSONRPCErrorServerError
		rpcErr.Message = err.Error()
		if errors.Is(err, methods.ErrMissingParams) || errors.Is(err, methods.ErrInvalidParams) {
			rpcErr.Code = JSONRPCErrorInvalidParams.Code
		}
		return nil, &rpcErr
	}
	return resp, nil
}

func sendResponse(session *melody.Session, id uuid.UUID, result any) error {
	log.Debug().Interface("result", result).Msg("sending response")

	resp := models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshalling response: %w", err)
	}

	if err := session.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func sendWSError(session *melody.Session, id uuid.UUID, rpcErr models.ErrorObject) error {
	log.Debug().Int("code", rpcErr.Code).Str("message", rpcErr.Message).Msg("sending error")

	resp := models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcErr,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshalling error response: %w", err)
	}

	if err := session.Write(data); err != nil {
		return fmt.Errorf("writing error response: %w", err)
	}
	return nil
}

func maybeUUID(req models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

func broadcastNotifications(
	st *state.State,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-st.GetContext().Done():
			log.Debug().Msg("stopping notification broadcast")
			return
		case notif := <-notifications:
			req := models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
			}
			if notif.Params != nil {
				params, err := json.Marshal(notif.Params)
				if err != nil {
					log.Error().Err(err).Msg("marshalling notification params")
					continue
				}
				req.Params = params
			}

			data, err := json.Marshal(req)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}

			if err := session.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func handleWSMessage(env Env) func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		// bare ping keepalive, outside JSON-RPC
		if bytes.Equal(msg, []byte("ping")) {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		if !json.Valid(msg) {
			if err := sendWSError(session, uuid.Nil, JSONRPCErrorParseError); err != nil {
				log.Error().Err(err).Msg("sending parse error")
			}
			return
		}

		var req models.RequestObject
		err := json.Unmarshal(msg, &req)

		if err == nil && req.JSONRPC != "2.0" {
			log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
			if err := sendWSError(session, maybeUUID(req), JSONRPCErrorInvalidRequest); err != nil {
				log.Error().Err(err).Msg("sending error response")
			}
			return
		}

		if err == nil && req.Method != "" {
			if req.ID == nil {
				// a request with no id is a notification, nothing to do
				log.Debug().Str("method", req.Method).Msg("received notification, ignoring")
				return
			}

			reqEnv := requests.RequestEnv{
				Config:   env.Config,
				State:    env.State,
				Database: env.Database,
				Printer:  env.Printer,
				Jobs:     env.Jobs,
				IsLocal:  apimiddleware.IsLoopbackAddr(session.Request.RemoteAddr),
			}

			resp, rpcErr := handleRequest(reqEnv, req)
			if rpcErr != nil {
				if err := sendWSError(session, *req.ID, *rpcErr); err != nil {
					log.Error().Err(err).Msg("sending error response")
				}
				return
			}

			if err := sendResponse(session, *req.ID, resp); err != nil {
				log.Error().Err(err).Msg("sending response")
			}
			return
		}

		// a response to a server-initiated request; we don't send any, so
		// just log and move on
		var resp models.ResponseObject
		if err := json.Unmarshal(msg, &resp); err == nil && resp.ID != uuid.Nil {
			log.Debug().Interface("response", resp).Msg("received response")
			return
		}

		log.Error().Msg("message does not match known types")
		if err := sendWSError(session, uuid.Nil, JSONRPCErrorInvalidRequest); err != nil {
			log.Error().Err(err).Msg("sending error response")
		}
	}
}

func handlePost(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RequestObject
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, uuid.Nil, JSONRPCErrorParseError)
			return
		}

		if req.JSONRPC != "2.0" || req.Method == "" {
			writeJSONError(w, maybeUUID(req), JSONRPCErrorInvalidRequest)
			return
		}
		if req.ID == nil {
			writeJSONError(w, uuid.Nil, JSONRPCErrorInvalidRequest)
			return
		}

		reqEnv := requests.RequestEnv{
			Config:   env.Config,
			State:    env.State,
			Database: env.Database,
			Printer:  env.Printer,
			Jobs:     env.Jobs,
			IsLocal:  apimiddleware.IsLoopbackAddr(r.RemoteAddr),
		}

		resp, rpcErr := handleRequest(reqEnv, req)
		if rpcErr != nil {
			writeJSONError(w, *req.ID, *rpcErr)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		out := models.ResponseObject{
			JSONRPC: "2.0",
			ID:      *req.ID,
			Result:  resp,
		}
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Error().Err(err).Msg("encoding response")
		}
	}
}

func writeJSONError(w http.ResponseWriter, id uuid.UUID, rpcErr models.ErrorObject) {
	w.Header().Set("Content-Type", "application/json")
	resp := models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcErr,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("encoding error response")
	}
}

// Start binds the API listener and serves until the state context is
// cancelled. It returns once the listener is bound so callers can treat a
// port conflict as a startup failure.
func Start(env Env, notifications <-chan models.Notification) (*http.Server, error) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.ApiRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: env.Config.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	ipFilter := apimiddleware.NewIPFilter(env.Config.AllowedIPs())
	r.Use(apimiddleware.HTTPIPFilterMiddleware(ipFilter))

	limiter := apimiddleware.NewIPRateLimiter()
	limiter.StartCleanup(env.State.GetContext())
	r.Use(apimiddleware.HTTPRateLimitMiddleware(limiter))

	session := melody.New()
	session.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	go broadcastNotifications(env.State, session, notifications)

	ws := func(w http.ResponseWriter, r *http.Request) {
		if err := session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	}
	r.Get("/api", ws)
	r.Get("/api/v0.1", ws)
	r.Post("/api", handlePost(env))
	r.Post("/api/v0.1", handlePost(env))

	session.HandleMessage(apimiddleware.WebSocketRateLimitHandler(limiter, handleWSMessage(env)))

	addr := env.Config.APIListen()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding api listener on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api server stopped")
		}
	}()

	go func() {
		<-env.State.GetContext().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutting down api server")
		}
		_ = session.Close()
	}()

	log.Info().Str("addr", addr).Msg("api server listening")
	return srv, nil
}
