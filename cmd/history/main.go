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
	"brale-dashboard-go/internal/database"

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

	limitFlag := flag.Int("limit", 20, "Number of loads to show")
	offsetFlag := flag.Int("offset", 0, "Number of loads to skip")
	flag.Parse()

	// Read-only: no Brale client needed
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	records, err := dbService.GetLoadHistory(ctx, *limitFlag, *offsetFlag)
	if err != nil {
		logger.Fatal("Failed to read load history", zap.Error(err))
	}

	common.PrintHeader("DASHBOARD LOAD HISTORY", common.WideWidth)
	for i, r := range records {
		fmt.Printf("%s %s  activation=%-4d account=%-20s wallets=%-3d unavailable=%-4d total=%s\n",
			common.BoxPrefix(i == len(records)-1),
			r.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			r.Activation,
			common.DisplayOrDefault(r.AccountId, "-"),
			r.WalletCount,
			r.Unavailable,
			r.GrandTotal.String())
		if r.Notice != "" {
			fmt.Printf("%s note: %s\n", common.BoxDetailPrefix(i == len(records)-1), r.Notice)
		}
	}
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d loads shown", len(records)), common.WideWidth)
}
