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
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"brale-dashboard-go/internal/common"
	"brale-dashboard-go/internal/config"
	"brale-dashboard-go/internal/dashboard"
	"brale-dashboard-go/internal/models"

	"go.uber.org/zap"
)

func printBalance(balance models.BalanceEntry, isLast bool) {
	fmt.Printf("%s %-12s: %20s\n",
		common.BoxPrefix(isLast),
		balance.ValueType,
		balance.Balance.Value)
}

func printWallet(w models.WalletBalances, isPrimary bool) {
	label := common.DisplayOrDefault(w.Address.Description, w.Address.Id)
	if isPrimary {
		label += " [PRIMARY]"
	}

	fmt.Printf("\n┌─ Wallet: %s\n", label)
	fmt.Printf("│  ID: %s\n", w.Address.Id)
	fmt.Printf("│  Address: %s\n", common.DisplayOrDefault(w.Address.DisplayAddress(), "Not available"))
	fmt.Printf("│  Networks: %s\n", common.DisplayOrDefault(w.Address.Networks(), "Not specified"))
	common.PrintBoxSeparator(78)

	groups := w.GroupByTransferType()
	if len(groups) == 0 {
		fmt.Printf("└  No balances reported\n")
	}
	for gi, group := range groups {
		lastGroup := gi == len(groups)-1
		fmt.Printf("%s%s\n", common.BoxPrefix(lastGroup), models.FormatTransferType(group.TransferType))
		for bi, balance := range group.Balances {
			fmt.Print(common.BoxDetailPrefix(lastGroup))
			printBalance(balance, bi == len(group.Balances)-1)
		}
	}

	if len(w.Unavailable) > 0 {
		fmt.Printf("   (%d lookups unavailable)\n", len(w.Unavailable))
	}
}

func printTotals(result *models.Dashboard) {
	if len(result.Breakdown) == 0 {
		return
	}
	common.PrintHeader("TOTAL BALANCE", common.DefaultWidth)
	for i, row := range result.Breakdown {
		fmt.Printf("%s %-12s: %20s\n", common.BoxPrefix(i == len(result.Breakdown)-1), row.ValueType, row.Total.String())
	}
	fmt.Printf("\nGrand total: %s\n", result.GrandTotal.String())
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	tokenFlag := flag.String("token", "", "Bearer token (defaults to the stored token)")
	flag.Parse()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	token, err := dashboard.ResolveToken(ctx, services.DbService, *tokenFlag)
	if err != nil {
		logger.Error("No token available", zap.Error(err))
		fmt.Fprintln(os.Stderr, "No bearer token found. Run the auth command first or pass -token.")
		os.Exit(1)
	}

	result, err := services.DashboardService.Load(ctx, dashboard.StoredTokenView, token)
	if err != nil {
		if errors.Is(err, dashboard.ErrSuperseded) {
			logger.Warn("Dashboard load superseded")
			return
		}
		logger.Fatal("Failed to load wallets", zap.Error(err))
	}

	common.PrintHeader("BRALE WALLET REPORT", common.DefaultWidth)
	fmt.Printf("Account: %s\n", common.DisplayOrDefault(result.AccountId, "unknown"))
	if result.UsedFallback {
		fmt.Println("Source:  global address list")
	}
	if result.Notice != "" {
		fmt.Printf("Note:    %s\n", result.Notice)
	}
	if result.PrimaryCount > 1 {
		fmt.Printf("Warning: %d wallets are marked primary; showing the first\n", result.PrimaryCount)
	}

	for _, w := range result.Wallets {
		isPrimary := result.Primary != nil && result.Primary.Address.Id == w.Address.Id
		printWallet(w, isPrimary)
	}

	printTotals(result)

	summary := fmt.Sprintf("SUMMARY: %d custodial wallets, %d value types held",
		len(result.Wallets), len(result.Breakdown))
	if result.SessionId != "" {
		summary += fmt.Sprintf(" (session %s)", result.SessionId)
	}
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Wallet report completed",
		zap.Int("wallets", len(result.Wallets)),
		zap.String("grand_total", result.GrandTotal.String()))
}
