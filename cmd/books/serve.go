package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	v1 "shopbooks/internal/infrastructure/http/v1"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bookkeeping HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	log := a.log

	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		Store:       a.store,
		Ledgers:     a.ledgers,
		Customers:   a.customers,
		Vendors:     a.vendors,
		Receivables: a.receivables,
		Payables:    a.payables,
		Stock:       a.stock,
		Bills:       a.bills,
		Purchases:   a.purchases,
		Payments:    a.payments,
		Receipts:    a.receipts,
		Expenses:    a.expenses,
		Backup:      a.backup,
		Development: a.cfg.Development,
	})

	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", a.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	if err := a.persist(); err != nil {
		log.Errorw("persist on shutdown failed", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}
