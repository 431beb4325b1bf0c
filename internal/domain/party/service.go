package party

import (
	"context"
	"strings"
	"sync"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/id"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// Service provides account operations over one party collection
// ("customers" or "vendors").
type Service struct {
	store      store.Store
	collection string

	// PostTransaction is read-modify-write over the whole party record.
	// Posts for the same party must serialize or updates are lost.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a party service for the given collection.
func NewService(st store.Store, collection string) *Service {
	return &Service{
		store:      st,
		collection: collection,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Collection returns the backing collection name.
func (s *Service) Collection() string { return s.collection }

func (s *Service) lockFor(partyID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[partyID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[partyID] = mu
	}
	return mu
}

// Create adds a new party account with zeroed totals.
func (s *Service) Create(ctx context.Context, name string) (Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Party{}, apperror.NewValidation("party name is required")
	}

	existing, err := s.GetByName(ctx, name)
	if err == nil && existing.ID != "" {
		return Party{}, apperror.NewDuplicate("party", "name", name)
	}

	p := Party{
		ID:        id.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if _, err := s.store.Insert(ctx, s.collection, encodeParty(p)); err != nil {
		return Party{}, apperror.NewStoreUnavailable(s.collection, err)
	}

	logger.Info(ctx, "party created", "collection", s.collection, "id", p.ID, "name", p.Name)
	return p, nil
}

// GetByID loads a party account.
func (s *Service) GetByID(ctx context.Context, partyID string) (Party, error) {
	rec, err := s.store.GetOne(ctx, s.collection, store.Query{"_id": partyID})
	if err != nil {
		return Party{}, apperror.NewStoreUnavailable(s.collection, err)
	}
	if rec == nil {
		return Party{}, apperror.NewNotFound("party", partyID)
	}
	return decodeParty(rec), nil
}

// GetByName finds a party by exact name.
func (s *Service) GetByName(ctx context.Context, name string) (Party, error) {
	rec, err := s.store.GetOne(ctx, s.collection, store.Query{"name": name})
	if err != nil {
		return Party{}, apperror.NewStoreUnavailable(s.collection, err)
	}
	if rec == nil {
		return Party{}, apperror.NewNotFound("party", name)
	}
	return decodeParty(rec), nil
}

// GetOrCreate finds a party by name, creating the account when absent.
func (s *Service) GetOrCreate(ctx context.Context, name string) (Party, error) {
	p, err := s.GetByName(ctx, name)
	if err == nil {
		return p, nil
	}
	if !apperror.IsNotFound(err) {
		return Party{}, err
	}
	return s.Create(ctx, name)
}

// List returns all party accounts. A failed read degrades to empty.
func (s *Service) List(ctx context.Context) ([]Party, error) {
	recs, err := s.store.Get(ctx, s.collection)
	if err != nil {
		logger.Warn(ctx, "party list read failed, treating as empty",
			"collection", s.collection,
			"error", err,
		)
		return nil, nil
	}
	parties := make([]Party, 0, len(recs))
	for _, rec := range recs {
		parties = append(parties, decodeParty(rec))
	}
	return parties, nil
}

// PostTransaction appends a transaction to the party's embedded ledger and
// updates the running totals. Serialized per party id.
func (s *Service) PostTransaction(ctx context.Context, partyID string, tx Transaction) (Party, error) {
	if tx.Debit.IsNegative() || tx.Credit.IsNegative() {
		return Party{}, apperror.NewValidation("debit and credit must not be negative")
	}
	if tx.Date == "" {
		tx.Date = time.Now().Format("2006-01-02")
	}

	mu := s.lockFor(partyID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.GetByID(ctx, partyID)
	if err != nil {
		return Party{}, err
	}

	p.TotalDebit = p.TotalDebit.Add(tx.Debit)
	p.TotalCredit = p.TotalCredit.Add(tx.Credit)
	tx.Balance = p.Balance()
	p.Transactions = append(p.Transactions, tx)

	patch := encodeParty(p)
	delete(patch, "_id")
	delete(patch, "createdAt")
	if err := s.store.Update(ctx, s.collection, store.Query{"_id": partyID}, patch); err != nil {
		return Party{}, apperror.NewStoreUnavailable(s.collection, err)
	}

	logger.Info(ctx, "party transaction posted",
		"collection", s.collection,
		"party_id", partyID,
		"type", tx.Type,
		"debit", tx.Debit.String(),
		"credit", tx.Credit.String(),
	)
	return p, nil
}
