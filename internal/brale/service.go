/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package brale

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brale-dashboard-go/internal/catalog"
	"brale-dashboard-go/internal/metrics"
	"brale-dashboard-go/internal/models"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Bodies above this size are truncated before decoding.
const maxBodyBytes = 4 << 20

// ServiceConfig contains configuration for Service
type ServiceConfig struct {
	AuthURL        string
	ApiURL         string
	HttpTimeout    time.Duration
	ValueTypes     []string
	MaxConcurrency int
	RateLimit      float64
	RateBurst      int

	// HttpClient overrides the default transport (used by tests).
	HttpClient *http.Client
}

// Service talks to the Brale authentication and resource hosts.
type Service struct {
	authURL        string
	apiURL         string
	httpClient     *http.Client
	limiter        *rate.Limiter
	valueTypes     []string
	maxConcurrency int
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.AuthURL == "" || cfg.ApiURL == "" {
		return nil, fmt.Errorf("auth and api base URLs are required")
	}
	if cfg.HttpTimeout <= 0 {
		return nil, fmt.Errorf("http timeout must be positive, got %v", cfg.HttpTimeout)
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		c, err := createCustomHttpClient(cfg.HttpTimeout)
		if err != nil {
			return nil, fmt.Errorf("unable to create custom http client: %w", err)
		}
		httpClient = c
	}

	valueTypes := cfg.ValueTypes
	if len(valueTypes) == 0 {
		valueTypes = catalog.Default()
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Service{
		authURL:        strings.TrimRight(cfg.AuthURL, "/"),
		apiURL:         strings.TrimRight(cfg.ApiURL, "/"),
		httpClient:     httpClient,
		limiter:        rate.NewLimiter(limit, burst),
		valueTypes:     valueTypes,
		maxConcurrency: maxConcurrency,
	}, nil
}

func createCustomHttpClient(timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: timeout,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   16,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// ValueTypes returns the catalog this service queries.
func (s *Service) ValueTypes() []string {
	out := make([]string, len(s.valueTypes))
	copy(out, s.valueTypes)
	return out
}

type apiResponse struct {
	statusCode int
	status     string
	body       []byte
}

func (r *apiResponse) ok() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// get issues a bearer-authenticated GET against the resource host.
func (s *Service) get(ctx context.Context, endpoint, token, path string, query url.Values) (*apiResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	requestURL := s.apiURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return s.do(req, endpoint)
}

func (s *Service) do(req *http.Request, endpoint string) (*apiResponse, error) {
	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.ObserveRequest(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &apiResponse{
		statusCode: resp.StatusCode,
		status:     reasonPhrase(resp),
		body:       body,
	}, nil
}

// reasonPhrase strips the numeric code from resp.Status ("404 Not Found" -> "Not Found").
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// logger returns the global logger tagged with the session id carried on ctx, if any.
func logger(ctx context.Context) *zap.Logger {
	if session := models.GetSession(ctx); session != nil && session.Id != "" {
		return zap.L().With(zap.String("session_id", session.Id))
	}
	return zap.L()
}
