package instrument

import (
	"context"
	"fmt"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/id"
	"shopbooks/internal/core/sequence"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/domain/party"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// Service manages one kind of trade instrument over its replicated homes.
//
// Every instrument is written to two canonical collections plus the KV
// side-store replica; reads merge all homes and de-duplicate by id in
// [primary, trade-alias, side primary, side trade-alias] order.
type Service struct {
	kind    Kind
	homes   *store.Replicated
	ledgers *ledger.Service
	parties *party.Service
	primary store.Store
	seq     *sequence.Generator

	// settlement records created by RecordPayment land here
	// ("receipts" for receivables, "payments" for payables).
	settlementCollection string
	settlementPrefix     string
}

// NewReceivables creates the receivable service. side is the KV-backed
// replica store (the localStorage analogue).
func NewReceivables(primary, side store.Store, ledgers *ledger.Service, customers *party.Service, seq *sequence.Generator) *Service {
	return &Service{
		kind: Receivable,
		homes: store.NewReplicated(
			store.Home{Store: primary, Collection: "receivables"},
			store.Home{Store: primary, Collection: "tradeReceivable"},
			store.Home{Store: side, Collection: "receivables"},
			store.Home{Store: side, Collection: "tradeReceivable"},
		),
		ledgers:              ledgers,
		parties:              customers,
		primary:              primary,
		seq:                  seq,
		settlementCollection: "receipts",
		settlementPrefix:     "RCPT",
	}
}

// NewPayables creates the payable service.
func NewPayables(primary, side store.Store, ledgers *ledger.Service, vendors *party.Service, seq *sequence.Generator) *Service {
	return &Service{
		kind: Payable,
		homes: store.NewReplicated(
			store.Home{Store: primary, Collection: "payables"},
			store.Home{Store: primary, Collection: "tradePayable"},
			store.Home{Store: side, Collection: "payables"},
			store.Home{Store: side, Collection: "tradePayable"},
		),
		ledgers:              ledgers,
		parties:              vendors,
		primary:              primary,
		seq:                  seq,
		settlementCollection: "payments",
		settlementPrefix:     "PAY",
	}
}

// Kind returns which instrument kind this service manages.
func (s *Service) Kind() Kind { return s.kind }

// Create writes a new instrument through to every home. An existing id is
// never overwritten.
func (s *Service) Create(ctx context.Context, inst Instrument) (Instrument, error) {
	if inst.Amount.Sign() <= 0 {
		return Instrument{}, apperror.NewValidation("instrument amount must be positive")
	}
	if inst.PartyID == "" {
		return Instrument{}, apperror.NewValidation("instrument party is required")
	}
	if inst.ID == "" {
		inst.ID = id.NewString()
	}
	if inst.Date == "" {
		inst.Date = time.Now().Format(DateFormat)
	}
	inst.Kind = s.kind
	inst.Status = StatusCurrent

	existing, err := s.homes.GetByID(ctx, inst.ID)
	if err != nil {
		return Instrument{}, apperror.NewStoreUnavailable("instruments", err)
	}
	if existing != nil {
		return Instrument{}, apperror.NewDuplicate("instrument", "id", inst.ID)
	}

	if err := s.homes.Insert(ctx, encodeInstrument(inst)); err != nil {
		return Instrument{}, apperror.NewStoreUnavailable("instruments", err)
	}

	logger.Info(ctx, "instrument created",
		"kind", string(s.kind),
		"id", inst.ID,
		"amount", inst.Amount.String(),
		"due_date", inst.DueDate,
	)
	return inst, nil
}

// CreatePaid writes a new instrument that is settled on arrival. Standalone
// payments and receipts tied to a party record their instrument this way;
// the ledger and party legs are the caller's responsibility.
func (s *Service) CreatePaid(ctx context.Context, inst Instrument, details PaymentDetails) (Instrument, error) {
	created, err := s.Create(ctx, inst)
	if err != nil {
		return Instrument{}, err
	}
	if details.Date == "" {
		details.Date = time.Now().Format(DateFormat)
	}

	patch := store.Record{
		"status":           string(StatusPaid),
		"paymentDate":      details.Date,
		"paymentMethod":    details.Method,
		"paymentReference": details.Reference,
	}
	if details.ChequeNumber != "" {
		patch["chequeNumber"] = details.ChequeNumber
	}
	if err := s.homes.Update(ctx, created.ID, patch); err != nil {
		return Instrument{}, apperror.NewStoreUnavailable("instruments", err)
	}

	created.Status = StatusPaid
	created.PaymentDate = details.Date
	created.PaymentMethod = details.Method
	created.PaymentReference = details.Reference
	created.ChequeNumber = details.ChequeNumber
	return created, nil
}

// List returns all instruments merged across homes.
func (s *Service) List(ctx context.Context) ([]Instrument, error) {
	recs, err := s.homes.List(ctx)
	if err != nil {
		return nil, apperror.NewStoreUnavailable("instruments", err)
	}
	out := make([]Instrument, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeInstrument(s.kind, rec))
	}
	return out, nil
}

// GetByID returns one instrument, merged across homes.
func (s *Service) GetByID(ctx context.Context, instID string) (Instrument, error) {
	rec, err := s.homes.GetByID(ctx, instID)
	if err != nil {
		return Instrument{}, apperror.NewStoreUnavailable("instruments", err)
	}
	if rec == nil {
		return Instrument{}, apperror.NewNotFound("instrument", instID)
	}
	return decodeInstrument(s.kind, rec), nil
}

// FindByDocument returns instruments originated by the given bill/purchase.
func (s *Service) FindByDocument(ctx context.Context, documentID string) ([]Instrument, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Instrument
	for _, inst := range all {
		if inst.DocumentID == documentID {
			out = append(out, inst)
		}
	}
	return out, nil
}

// RecordPayment settles a current instrument: flips it to paid, posts the
// money movement to the cash or bank ledger, posts the counter-entry to the
// party account, and creates a settlement record (receipt for receivables,
// payment for payables) that shares the reference id so the two stay
// traceable to each other.
func (s *Service) RecordPayment(ctx context.Context, instID string, details PaymentDetails) (Instrument, error) {
	inst, err := s.GetByID(ctx, instID)
	if err != nil {
		return Instrument{}, err
	}
	if inst.Status != StatusCurrent {
		return Instrument{}, apperror.NewConflict(
			fmt.Sprintf("instrument is %s, only current instruments can be paid", inst.Status))
	}

	if details.Date == "" {
		details.Date = time.Now().Format(DateFormat)
	}
	settlementID, err := s.seq.Next(ctx, s.settlementPrefix)
	if err != nil {
		return Instrument{}, fmt.Errorf("generate settlement number: %w", err)
	}

	// Ledger leg: incoming for receivables, outgoing for payables.
	entry := ledger.Entry{
		Date:      details.Date,
		Reference: settlementID,
	}
	if s.kind == Receivable {
		entry.Description = fmt.Sprintf("Payment received from %s", inst.PartyName)
		entry.In = inst.Amount
	} else {
		entry.Description = fmt.Sprintf("Payment made to %s", inst.PartyName)
		entry.Out = inst.Amount
	}
	if _, err := s.ledgers.Post(ctx, ledgerKindFor(details.Method), entry); err != nil {
		return Instrument{}, fmt.Errorf("post settlement ledger entry: %w", err)
	}

	// Party leg: a paid receivable credits the customer, a paid payable
	// debits the vendor.
	tx := party.Transaction{
		Date:        details.Date,
		Description: fmt.Sprintf("Settlement %s", settlementID),
		Type:        "settlement",
	}
	if s.kind == Receivable {
		tx.Credit = inst.Amount
	} else {
		tx.Debit = inst.Amount
	}
	if _, err := s.parties.PostTransaction(ctx, inst.PartyID, tx); err != nil {
		return Instrument{}, fmt.Errorf("post party settlement: %w", err)
	}

	// Settlement record, traceable to the instrument via its id.
	settlement := store.Record{
		"id":           settlementID,
		"date":         details.Date,
		"amount":       inst.Amount.String(),
		"instrumentId": inst.ID,
		"reference":    details.Reference,
		"status":       "paid",
		"createdAt":    time.Now().UTC().Format(time.RFC3339),
	}
	if s.kind == Receivable {
		settlement["customer"] = inst.PartyName
		settlement["customerId"] = inst.PartyID
		settlement["receiptType"] = details.Method
	} else {
		settlement["vendor"] = inst.PartyName
		settlement["vendorId"] = inst.PartyID
		settlement["type"] = details.Method
	}
	if details.ChequeNumber != "" {
		settlement["chequeNumber"] = details.ChequeNumber
	}
	if _, err := s.primary.Insert(ctx, s.settlementCollection, settlement); err != nil {
		// The money already moved; keep going and surface the degraded write.
		logger.Warn(ctx, "settlement record write failed",
			"collection", s.settlementCollection,
			"instrument_id", inst.ID,
			"error", err,
		)
	}

	patch := store.Record{
		"status":           string(StatusPaid),
		"paymentDate":      details.Date,
		"paymentMethod":    details.Method,
		"paymentReference": settlementID,
	}
	if details.ChequeNumber != "" {
		patch["chequeNumber"] = details.ChequeNumber
	}
	if err := s.homes.Update(ctx, inst.ID, patch); err != nil {
		return Instrument{}, apperror.NewStoreUnavailable("instruments", err)
	}

	inst.Status = StatusPaid
	inst.PaymentDate = details.Date
	inst.PaymentMethod = details.Method
	inst.PaymentReference = settlementID
	inst.ChequeNumber = details.ChequeNumber

	logger.Info(ctx, "instrument paid",
		"kind", string(s.kind),
		"id", inst.ID,
		"settlement_id", settlementID,
		"method", details.Method,
	)
	return inst, nil
}

// Reverse marks a current instrument reversed, used when its originating
// document is deleted. The instrument stays in the store for the audit
// trail; only the status flips.
func (s *Service) Reverse(ctx context.Context, instID string) (Instrument, error) {
	inst, err := s.GetByID(ctx, instID)
	if err != nil {
		return Instrument{}, err
	}
	if inst.Status != StatusCurrent {
		return Instrument{}, apperror.NewConflict(
			fmt.Sprintf("instrument is %s, only current instruments can be reversed", inst.Status))
	}

	reversalDate := time.Now().Format(DateFormat)
	patch := store.Record{
		"status":       string(StatusReversed),
		"reversalDate": reversalDate,
	}
	if err := s.homes.Update(ctx, inst.ID, patch); err != nil {
		return Instrument{}, apperror.NewStoreUnavailable("instruments", err)
	}

	inst.Status = StatusReversed
	inst.ReversalDate = reversalDate

	logger.Info(ctx, "instrument reversed", "kind", string(s.kind), "id", inst.ID)
	return inst, nil
}

// Remove deletes an instrument from every home. Used when the standalone
// payment or receipt that raised it is deleted; document-originated
// instruments are reversed instead to keep the audit trail.
func (s *Service) Remove(ctx context.Context, instID string) error {
	if _, err := s.GetByID(ctx, instID); err != nil {
		return err
	}
	if err := s.homes.Remove(ctx, instID); err != nil {
		return apperror.NewStoreUnavailable("instruments", err)
	}
	logger.Info(ctx, "instrument removed", "kind", string(s.kind), "id", instID)
	return nil
}

// Summarize aggregates open instruments as of today (DateFormat string).
// total = Σ amount where status is neither paid nor reversed;
// current = the subset not yet due; overdue = total − current.
func (s *Service) Summarize(ctx context.Context, today string) (Summary, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, inst := range all {
		if !inst.Open() {
			continue
		}
		sum.Count++
		sum.Total = sum.Total.Add(inst.Amount)
		if inst.EffectiveStatus(today) == StatusOverdue {
			sum.Overdue = sum.Overdue.Add(inst.Amount)
		} else {
			sum.Current = sum.Current.Add(inst.Amount)
		}
	}
	return sum, nil
}

// ledgerKindFor maps a payment method to the ledger it moves money through.
func ledgerKindFor(method string) ledger.Kind {
	switch method {
	case "Bank", "bank", "Cheque", "cheque":
		return ledger.Bank
	default:
		return ledger.Cash
	}
}
