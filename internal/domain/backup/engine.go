// Package backup snapshots the record store into a portable document and
// restores it with replace-all or merge-by-id semantics. Restore is
// best-effort per collection: one bad collection never aborts the rest.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"shopbooks/internal/core/id"
	"shopbooks/internal/core/sequence"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// Version is the backup document format version.
const Version = "1.0"

// Scope selects which collections a snapshot covers.
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeStock        Scope = "stock"
	ScopeCustomers    Scope = "customers"
	ScopeTransactions Scope = "transactions"
)

// Mode selects restore semantics.
type Mode string

const (
	// ModeReplace wipes each collection before inserting backup contents.
	ModeReplace Mode = "replace"
	// ModeMerge inserts only records whose id is absent from the
	// existing collection.
	ModeMerge Mode = "merge"
)

// Metadata describes a backup document.
type Metadata struct {
	Version string `json:"version"`
	Date    string `json:"date"` // ISO 8601
	Type    string `json:"type"`
}

// Document is the portable backup format.
type Document struct {
	Metadata Metadata                  `json:"metadata"`
	Data     map[string][]store.Record `json:"data"`
}

// Size returns the serialized byte size, for display.
func (d Document) Size() (int, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Progress reports restore/snapshot progress as a fraction in [0,1].
type Progress func(fraction float64, message string)

// Result summarizes a restore.
type Result struct {
	Collections int
	Inserted    int
	Skipped     int
	Warnings    []string
}

// HistoryEntry is one row of the rolling backup history.
type HistoryEntry struct {
	Date     string `json:"date"`
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

const (
	lastBackupKey = "backup/last"
	historyKey    = "backup/history"
	maxHistory    = 10
)

// knownCollections is every collection the engine snapshots and restores.
var knownCollections = []string{
	"stockLots",
	"bills",
	"purchases",
	"customers",
	"vendors",
	"payments",
	"receipts",
	"expenses",
	"cashTransactions",
	"bankTransactions",
	"receivables",
	"tradeReceivable",
	"payables",
	"tradePayable",
}

// numberPrefixes maps collections with sequential ids to their prefix, so a
// restore can bump the counters past the highest restored number.
var numberPrefixes = map[string]string{
	"bills":     "BILL",
	"purchases": "PUR",
	"payments":  "PAY",
	"receipts":  "RCPT",
	"expenses":  "EXP",
}

// Engine performs snapshot and restore.
type Engine struct {
	store store.Store
	kv    store.KV
	seq   *sequence.Generator
}

// NewEngine creates a backup engine.
func NewEngine(st store.Store, kv store.KV, seq *sequence.Generator) *Engine {
	return &Engine{store: st, kv: kv, seq: seq}
}

func collectionsFor(scope Scope) []string {
	switch scope {
	case ScopeStock:
		return []string{"stockLots"}
	case ScopeCustomers:
		return []string{"customers", "vendors"}
	case ScopeTransactions:
		return []string{"bills", "purchases"}
	default:
		return knownCollections
	}
}

// Snapshot reads every collection in scope into a backup document. A failed
// collection read degrades to an empty array; the snapshot never aborts.
func (e *Engine) Snapshot(ctx context.Context, scope Scope, onProgress Progress) (Document, error) {
	collections := collectionsFor(scope)
	doc := Document{
		Metadata: Metadata{
			Version: Version,
			Date:    time.Now().UTC().Format(time.RFC3339),
			Type:    string(scope),
		},
		Data: make(map[string][]store.Record, len(collections)),
	}

	for i, name := range collections {
		recs, err := e.store.Get(ctx, name)
		if err != nil {
			logger.Warn(ctx, "snapshot read failed, storing empty collection",
				"collection", name,
				"error", err,
			)
			recs = nil
		}
		if recs == nil {
			recs = []store.Record{}
		}
		doc.Data[name] = recs
		report(onProgress, float64(i+1)/float64(len(collections)), name)
	}

	return doc, nil
}

// Filename renders the conventional backup filename for a scope:
// inventory_backup_{type}_{timestamp}.json, with ':' and '.' in the
// timestamp replaced by '-'.
func Filename(scope Scope, at time.Time) string {
	ts := at.UTC().Format(time.RFC3339)
	ts = strings.ReplaceAll(ts, ":", "-")
	ts = strings.ReplaceAll(ts, ".", "-")
	return fmt.Sprintf("inventory_backup_%s_%s.json", scope, ts)
}

// Write serializes the document to w as UTF-8 JSON.
func (e *Engine) Write(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteGzip serializes the document to w gzip-compressed.
func (e *Engine) WriteGzip(doc Document, w io.Writer) error {
	gz := gzip.NewWriter(w)
	if err := e.Write(doc, gz); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// WriteFile writes the document to path, gzipped when the path ends in .gz,
// and records the backup in the rolling history.
func (e *Engine) WriteFile(ctx context.Context, doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		err = e.WriteGzip(doc, f)
	} else {
		err = e.Write(doc, f)
	}
	if err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	size, _ := doc.Size()
	if err := e.recordBackup(ctx, path, size); err != nil {
		logger.Warn(ctx, "backup history write failed", "error", err)
	}
	return nil
}

// ReadFile parses a backup document from path, transparently ungzipping.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Document{}, fmt.Errorf("open gzip backup: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parse backup: %w", err)
	}
	return doc, nil
}

// Restore applies a backup document. Per-collection failures are logged,
// added to the result warnings, and do not abort remaining collections —
// a partial restore is the accepted contract. Progress is reported per
// collection as a fraction in [0,1].
func (e *Engine) Restore(ctx context.Context, doc Document, mode Mode, onProgress Progress) (Result, error) {
	var res Result

	names := make([]string, 0, len(doc.Data))
	// Restore in known order first so dependencies (parties before
	// documents) land predictably, then any unknown extras.
	seen := make(map[string]bool)
	for _, name := range knownCollections {
		if _, ok := doc.Data[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	for name := range doc.Data {
		if !seen[name] {
			names = append(names, name)
		}
	}

	for i, name := range names {
		incoming := doc.Data[name]
		var err error
		switch mode {
		case ModeReplace:
			err = e.restoreReplace(ctx, name, incoming, &res)
		default:
			err = e.restoreMerge(ctx, name, incoming, &res)
		}
		if err != nil {
			warning := fmt.Sprintf("collection %s: %v", name, err)
			res.Warnings = append(res.Warnings, warning)
			logger.Warn(ctx, "restore collection failed, continuing",
				"collection", name,
				"error", err,
			)
		} else {
			res.Collections++
		}
		report(onProgress, float64(i+1)/float64(len(names)), name)
	}

	e.bumpSequences(ctx, doc)
	return res, nil
}

func (e *Engine) restoreReplace(ctx context.Context, name string, incoming []store.Record, res *Result) error {
	if err := e.store.Set(ctx, name, nil); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	for _, rec := range incoming {
		if store.RecordID(rec) == "" {
			rec = store.Clone(rec)
			rec["id"] = id.NewString()
		}
		if _, err := e.store.Insert(ctx, name, rec); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		res.Inserted++
	}
	return nil
}

func (e *Engine) restoreMerge(ctx context.Context, name string, incoming []store.Record, res *Result) error {
	existing, err := e.store.Get(ctx, name)
	if err != nil {
		// Treat an unreadable collection as empty: merge then behaves
		// like an insert-all, which is the safe direction.
		logger.Warn(ctx, "merge read failed, assuming empty", "collection", name, "error", err)
		existing = nil
	}

	existingIDs := make(map[string]bool, len(existing))
	for _, rec := range existing {
		if rid := store.RecordID(rec); rid != "" {
			existingIDs[rid] = true
		}
	}

	for _, rec := range incoming {
		rid := store.RecordID(rec)
		if rid == "" {
			rec = store.Clone(rec)
			rec["id"] = id.NewString()
		} else if existingIDs[rid] {
			res.Skipped++
			continue
		}
		if _, err := e.store.Insert(ctx, name, rec); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		res.Inserted++
	}
	return nil
}

// bumpSequences raises each document counter past the highest restored
// number so new documents never collide with restored ones.
func (e *Engine) bumpSequences(ctx context.Context, doc Document) {
	for name, prefix := range numberPrefixes {
		var max int64
		for _, rec := range doc.Data[name] {
			if n := sequence.ParseNumber(prefix, store.RecordID(rec)); n > max {
				max = n
			}
		}
		if max == 0 {
			continue
		}
		if err := e.seq.Bump(ctx, prefix, max); err != nil {
			logger.Warn(ctx, "sequence bump failed", "prefix", prefix, "error", err)
		}
	}
}

// --- Backup history ---

func (e *Engine) recordBackup(ctx context.Context, filename string, size int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := e.kv.Set(ctx, lastBackupKey, []byte(now)); err != nil {
		return err
	}

	history, err := e.History(ctx)
	if err != nil {
		history = nil
	}
	history = append(history, HistoryEntry{Date: now, Filename: filename, Size: size})
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return e.kv.Set(ctx, historyKey, data)
}

// History returns the rolling list of recorded backups, newest last.
func (e *Engine) History(ctx context.Context) ([]HistoryEntry, error) {
	data, ok, err := e.kv.Get(ctx, historyKey)
	if err != nil || !ok {
		return nil, err
	}
	var history []HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse backup history: %w", err)
	}
	return history, nil
}

// LastBackup returns the timestamp of the most recent recorded backup.
func (e *Engine) LastBackup(ctx context.Context) (string, error) {
	data, ok, err := e.kv.Get(ctx, lastBackupKey)
	if err != nil || !ok {
		return "", err
	}
	return string(data), nil
}

func report(p Progress, fraction float64, message string) {
	if p != nil {
		p(fraction, message)
	}
}
