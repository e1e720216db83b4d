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

package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of client.APIClient for testing.
type MockAPIClient struct {
	mock.Mock
}

// NewMockAPIClient creates a new mock API client.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Call mocks the API call method.
func (m *MockAPIClient) Call(ctx context.Context, method, params string) (string, error) {
	args := m.Called(ctx, method, params)
	return args.String(0), args.Error(1)
}

// WaitNotification mocks waiting for a notification.
func (m *MockAPIClient) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	notificationType string,
) (string, error) {
	args := m.Called(ctx, timeout, notificationType)
	return args.String(0), args.Error(1)
}

// SetupVersionResponse configures the mock to answer a version request.
func (m *MockAPIClient) SetupVersionResponse(resp *models.VersionResponse) {
	data, _ := json.Marshal(resp)
	m.On("Call", mock.Anything, models.MethodVersion, "").Return(string(data), nil)
}

// SetupStatusResponse configures the mock to answer a status request.
func (m *MockAPIClient) SetupStatusResponse(resp *models.StatusResponse) {
	data, _ := json.Marshal(resp)
	m.On("Call", mock.Anything, models.MethodStatus, "").Return(string(data), nil)
}

// SetupCallError configures the mock to fail a specific method.
func (m *MockAPIClient) SetupCallError(method string, err error) {
	m.On("Call", mock.Anything, method, mock.Anything).Return("", err)
}
