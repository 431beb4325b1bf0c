package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/id"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// Service maintains the cash and bank ledgers.
type Service struct {
	store store.Store

	// Posting is read-modify-write over the whole log (the cached balance
	// depends on all prior entries), so posts serialize per ledger.
	cashMu sync.Mutex
	bankMu sync.Mutex
}

// NewService creates a ledger service over the given record store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) lock(k Kind) *sync.Mutex {
	if k == Bank {
		return &s.bankMu
	}
	return &s.cashMu
}

// Post appends an entry to the ledger. The entry's cached balance is computed
// as the sum of all prior entries plus this entry's net effect.
func (s *Service) Post(ctx context.Context, k Kind, e Entry) (Entry, error) {
	if e.In.IsNegative() || e.Out.IsNegative() {
		return Entry{}, apperror.NewValidation("ledger amounts must not be negative")
	}
	if e.Date == "" {
		e.Date = time.Now().Format("2006-01-02")
	}
	if e.ID == "" {
		e.ID = id.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	mu := s.lock(k)
	mu.Lock()
	defer mu.Unlock()

	prior, err := s.Balance(ctx, k)
	if err != nil {
		return Entry{}, err
	}
	e.Balance = prior.Add(e.Net())

	if _, err := s.store.Insert(ctx, collectionFor(k), encodeEntry(k, e)); err != nil {
		return Entry{}, apperror.NewStoreUnavailable(collectionFor(k), err)
	}

	logger.Info(ctx, "ledger entry posted",
		"ledger", string(k),
		"reference", e.Reference,
		"net", e.Net().String(),
	)
	return e, nil
}

// Entries returns the full log in insertion order. A failed read degrades to
// an empty log rather than failing the caller.
func (s *Service) Entries(ctx context.Context, k Kind) ([]Entry, error) {
	recs, err := s.store.Get(ctx, collectionFor(k))
	if err != nil {
		logger.Warn(ctx, "ledger read failed, treating as empty",
			"ledger", string(k),
			"error", err,
		)
		return nil, nil
	}
	entries := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, decodeEntry(k, rec))
	}
	return entries, nil
}

// Balance re-derives the ledger balance by summing the whole log. Cached
// per-entry balances are ignored; they may drift, the sum cannot.
func (s *Service) Balance(ctx context.Context, k Kind) (types.Money, error) {
	entries, err := s.Entries(ctx, k)
	if err != nil {
		return types.Zero(), err
	}
	total := types.Zero()
	for _, e := range entries {
		total = total.Add(e.Net())
	}
	return total, nil
}

// FindByReference returns the first entry carrying the reference, or an
// empty entry with found=false.
func (s *Service) FindByReference(ctx context.Context, k Kind, reference string) (Entry, bool, error) {
	entries, err := s.Entries(ctx, k)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.Reference == reference {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// Reverse undoes the ledger effect of the entry posted under reference.
// The original entry is removed directly when the delete succeeds; when it
// does not, a compensating entry with swapped inflow/outflow is appended
// under "REV-"+reference instead. Either way the net effect is zero.
func (s *Service) Reverse(ctx context.Context, k Kind, reference string) error {
	original, found, err := s.FindByReference(ctx, k, reference)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewNotFound("ledger entry", reference)
	}

	err = s.store.Remove(ctx, collectionFor(k), store.Query{"reference": reference})
	if err == nil {
		logger.Info(ctx, "ledger entry removed", "ledger", string(k), "reference", reference)
		return nil
	}

	logger.Warn(ctx, "ledger delete failed, appending reversal entry",
		"ledger", string(k),
		"reference", reference,
		"error", err,
	)
	return s.PostReversal(ctx, k, original)
}

// PostReversal appends a compensating entry for the original: inflow and
// outflow swapped, reference prefixed with REV-. Used directly by paths that
// must keep the original row (expense edits), and as the Reverse fallback.
func (s *Service) PostReversal(ctx context.Context, k Kind, original Entry) error {
	rev := Entry{
		Date:        time.Now().Format("2006-01-02"),
		Description: fmt.Sprintf("Reversal of %s", original.Description),
		Reference:   ReversalPrefix + original.Reference,
		In:          original.Out,
		Out:         original.In,
	}
	if _, err := s.Post(ctx, k, rev); err != nil {
		return fmt.Errorf("post reversal for %s: %w", original.Reference, err)
	}
	return nil
}
