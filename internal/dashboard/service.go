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

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"brale-dashboard-go/internal/brale"
	"brale-dashboard-go/internal/metrics"
	"brale-dashboard-go/internal/models"
	"brale-dashboard-go/internal/store"
	"brale-dashboard-go/internal/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoToken    = errors.New("no bearer token available, authenticate first")
	ErrSuperseded = errors.New("dashboard load superseded by a newer activation")
)

// StoredTokenView is the view key for loads that use the persisted token, so a
// token refresh through the store supersedes loads still running on the old one.
const StoredTokenView = "stored-token"

const noAccountNotice = "Account id could not be determined; showing wallets from the global address list without balances."

// Client is the subset of the Brale API a dashboard load needs.
type Client interface {
	ResolveAccountId(ctx context.Context, token string) (string, bool)
	ListWallets(ctx context.Context, token, accountId string) ([]models.Address, bool, error)
	FetchBalances(ctx context.Context, token, accountId string, address models.Address) models.BalanceResult
}

type Service struct {
	client         Client
	history        store.HistoryStore
	maxConcurrency int
	sequence       atomic.Uint64
	now            func() time.Time

	mu    sync.Mutex
	views map[string]*viewState
}

// viewState tracks the newest activation of one view and how many of its loads are running.
type viewState struct {
	latest   uint64
	inFlight int
}

// NewService builds a dashboard service. history may be nil, in which case loads are not recorded.
func NewService(client Client, history store.HistoryStore, maxConcurrency int) *Service {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Service{
		client:         client,
		history:        history,
		maxConcurrency: maxConcurrency,
		now:            time.Now,
		views:          make(map[string]*viewState),
	}
}

// Load runs one wallet-view activation: account, wallets, balances, aggregate.
// A call supersedes any activation of the same view still in flight; the
// superseded load returns ErrSuperseded instead of its result. Loads of
// different views never affect each other. An empty view is keyed by token.
func (s *Service) Load(ctx context.Context, view, token string) (*models.Dashboard, error) {
	if token == "" {
		metrics.DashboardLoads.WithLabelValues("no_token").Inc()
		return nil, ErrNoToken
	}
	if view == "" {
		view = token
	}

	activation := s.begin(view)
	defer s.release(view)
	session := &models.Session{Id: uuid.New().String(), Token: token}
	ctx = models.WithSession(ctx, session)

	log := zap.L().With(zap.String("session_id", session.Id), zap.Uint64("activation", activation))
	log.Info("Loading dashboard")

	result := &models.Dashboard{
		SessionId:  session.Id,
		Activation: activation,
		Wallets:    []models.WalletBalances{},
		Totals:     map[string]decimal.Decimal{},
		Breakdown:  []models.ValueTypeTotal{},
	}

	accountId, found := s.client.ResolveAccountId(ctx, session.Token)
	if found {
		result.AccountId = accountId
	}

	addresses, usedFallback, err := s.client.ListWallets(ctx, session.Token, accountId)
	result.UsedFallback = usedFallback
	if err != nil {
		var noWallets *brale.NoCustodialWalletsError
		if !errors.As(err, &noWallets) {
			metrics.DashboardLoads.WithLabelValues("error").Inc()
			log.Error("Failed to list wallets", zap.Error(err))
			return nil, fmt.Errorf("unable to list wallets: %w", err)
		}
		log.Info("No custodial wallets", zap.Int("total", noWallets.Total), zap.Strings("types", noWallets.Types))
		result.Notice = noWallets.Error()
		return s.finish(ctx, log, view, activation, result, "empty")
	}

	if !found {
		// The balance endpoint is account-scoped.
		result.Notice = noAccountNotice
		result.Wallets = make([]models.WalletBalances, len(addresses))
		for i, a := range addresses {
			result.Wallets[i] = models.WalletBalances{Address: a}
		}
	} else {
		result.Wallets = s.fetchAll(ctx, session.Token, accountId, addresses)
	}

	agg := wallet.Aggregate(result.Wallets)
	result.Totals = agg.Totals
	result.Breakdown = wallet.Breakdown(agg.Totals)
	result.GrandTotal = wallet.GrandTotal(agg.Totals)
	result.Primary = agg.Primary
	result.PrimaryCount = agg.PrimaryCount

	return s.finish(ctx, log, view, activation, result, "ok")
}

// fetchAll fetches balances for every wallet, preserving wallet order.
func (s *Service) fetchAll(ctx context.Context, token, accountId string, addresses []models.Address) []models.WalletBalances {
	wallets := make([]models.WalletBalances, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			balances := s.client.FetchBalances(gctx, token, accountId, address)
			wallets[i] = models.WalletBalances{
				Address:     address,
				Balances:    balances.Entries,
				Unavailable: balances.Unavailable,
			}
			return nil
		})
	}
	_ = g.Wait()

	return wallets
}

// begin registers a new activation of view. Activation numbers are unique across views.
func (s *Service) begin(view string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	activation := s.sequence.Add(1)
	state, ok := s.views[view]
	if !ok {
		state = &viewState{}
		s.views[view] = state
	}
	state.latest = activation
	state.inFlight++
	return activation
}

// latest returns the newest activation of view.
func (s *Service) latest(view string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.views[view]; ok {
		return state.latest
	}
	return 0
}

// release drops the view's state once none of its loads are running.
func (s *Service) release(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.views[view]
	if !ok {
		return
	}
	state.inFlight--
	if state.inFlight <= 0 {
		delete(s.views, view)
	}
}

func (s *Service) finish(ctx context.Context, log *zap.Logger, view string, activation uint64, result *models.Dashboard, outcome string) (*models.Dashboard, error) {
	if latest := s.latest(view); latest != activation {
		metrics.DashboardLoads.WithLabelValues("superseded").Inc()
		log.Info("Discarding stale dashboard result", zap.Uint64("latest_activation", latest))
		return nil, ErrSuperseded
	}

	result.FetchedAt = s.now()
	metrics.DashboardLoads.WithLabelValues(outcome).Inc()

	if s.history != nil {
		unavailable := 0
		for _, w := range result.Wallets {
			unavailable += len(w.Unavailable)
		}
		err := s.history.RecordLoad(ctx, models.LoadRecord{
			SessionId:    result.SessionId,
			Activation:   result.Activation,
			AccountId:    result.AccountId,
			UsedFallback: result.UsedFallback,
			WalletCount:  len(result.Wallets),
			Unavailable:  unavailable,
			GrandTotal:   result.GrandTotal,
			Notice:       result.Notice,
			FetchedAt:    result.FetchedAt,
		})
		if err != nil {
			log.Warn("Failed to record dashboard load", zap.Error(err))
		}
	}

	log.Info("Dashboard loaded",
		zap.String("account_id", result.AccountId),
		zap.Int("wallets", len(result.Wallets)),
		zap.String("grand_total", result.GrandTotal.String()))
	return result, nil
}

// ResolveToken returns explicit if set, otherwise the persisted bearer token.
func ResolveToken(ctx context.Context, tokens store.TokenStore, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if tokens == nil {
		return "", ErrNoToken
	}
	stored, err := tokens.GetToken(ctx, store.BearerTokenKey)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("unable to read stored token: %w", err)
	}
	return stored.Token, nil
}
