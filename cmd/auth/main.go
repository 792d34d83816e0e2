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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"brale-dashboard-go/internal/common"
	"brale-dashboard-go/internal/config"
	"brale-dashboard-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	clientIdFlag := flag.String("client-id", cfg.Brale.ClientId, "Brale client id (defaults to BRALE_CLIENT_ID)")
	clientSecretFlag := flag.String("client-secret", cfg.Brale.ClientSecret, "Brale client secret (defaults to BRALE_CLIENT_SECRET)")
	flag.Parse()

	if *clientIdFlag == "" || *clientSecretFlag == "" {
		logger.Fatal("Client id and client secret are required (flags or BRALE_CLIENT_ID / BRALE_CLIENT_SECRET)")
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	token, err := services.BraleService.Authenticate(ctx, *clientIdFlag, *clientSecretFlag)
	if err != nil {
		logger.Fatal("Authentication failed", zap.Error(err))
	}

	if err := services.DbService.SaveToken(ctx, store.BearerTokenKey, token); err != nil {
		logger.Fatal("Failed to store token", zap.Error(err))
	}

	common.PrintHeader("BRALE AUTHENTICATION", common.DefaultWidth)
	fmt.Printf("Bearer token: %s\n", common.MaskToken(token))
	fmt.Printf("Stored in:    %s\n", cfg.Database.Path)
	common.PrintFooter("✓ Authentication successful", common.DefaultWidth)
}
