package main

import (
	"fmt"

	"shopbooks/internal/config"
	"shopbooks/internal/core/sequence"
	"shopbooks/internal/domain/backup"
	"shopbooks/internal/domain/documents/bill"
	"shopbooks/internal/domain/documents/expense"
	"shopbooks/internal/domain/documents/payment"
	"shopbooks/internal/domain/documents/purchase"
	"shopbooks/internal/domain/documents/receipt"
	"shopbooks/internal/domain/instrument"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/domain/party"
	"shopbooks/internal/domain/stock"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// app wires the stores and engines into one object the commands share.
type app struct {
	cfg config.Config
	log *logger.Logger

	memory *store.Memory
	kv     *store.MemoryKV
	store  store.Store

	ledgers     *ledger.Service
	customers   *party.Service
	vendors     *party.Service
	receivables *instrument.Service
	payables    *instrument.Service
	stock       *stock.Service
	bills       *bill.Service
	purchases   *purchase.Service
	payments    *payment.Service
	receipts    *receipt.Service
	expenses    *expense.Service
	backup      *backup.Engine
}

// sidePrefix namespaces the KV keys that hold collection replicas, keeping
// them apart from sequence counters and backup history.
const sidePrefix = "replica/"

func newApp() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	memory := store.NewMemory()
	if err := memory.LoadFile(cfg.DataFile); err != nil {
		return nil, fmt.Errorf("load data file: %w", err)
	}
	kv := store.NewMemoryKV()
	if err := kv.LoadFile(cfg.KVFile); err != nil {
		return nil, fmt.Errorf("load kv file: %w", err)
	}

	var primary store.Store = store.WithTimeout(memory, cfg.StoreTimeout)
	side := store.NewKVStore(kv, sidePrefix)

	seq := sequence.New(kv)
	ledgers := ledger.NewService(primary)
	customers := party.NewService(primary, "customers")
	vendors := party.NewService(primary, "vendors")
	receivables := instrument.NewReceivables(primary, side, ledgers, customers, seq)
	payables := instrument.NewPayables(primary, side, ledgers, vendors, seq)
	stockSvc := stock.NewService(primary)

	a := &app{
		cfg:         cfg,
		log:         log,
		memory:      memory,
		kv:          kv,
		store:       primary,
		ledgers:     ledgers,
		customers:   customers,
		vendors:     vendors,
		receivables: receivables,
		payables:    payables,
		stock:       stockSvc,
		bills:       bill.NewService(primary, stockSvc, ledgers, customers, receivables, seq),
		purchases:   purchase.NewService(primary, stockSvc, ledgers, vendors, payables, seq),
		payments:    payment.NewService(primary, ledgers, vendors, payables, seq),
		receipts:    receipt.NewService(primary, ledgers, customers, receivables, seq),
		expenses:    expense.NewService(primary, ledgers, seq),
		backup:      backup.NewEngine(primary, kv, seq),
	}
	return a, nil
}

// persist writes the in-memory stores back to their files.
func (a *app) persist() error {
	if err := a.memory.SaveFile(a.cfg.DataFile); err != nil {
		return fmt.Errorf("save data file: %w", err)
	}
	if err := a.kv.SaveFile(a.cfg.KVFile); err != nil {
		return fmt.Errorf("save kv file: %w", err)
	}
	return nil
}
