package stock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/id"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// Service provides stock lot operations.
type Service struct {
	store store.Store

	// FIFO consumption reads and rewrites several lots; concurrent
	// consumers of the same item would double-spend without this.
	mu sync.Mutex
}

// NewService creates a stock service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// AddLot inserts a new positive lot (purchase, manual add, restore).
func (s *Service) AddLot(ctx context.Context, lot Lot) (Lot, error) {
	lot.Name = strings.TrimSpace(lot.Name)
	if lot.Name == "" {
		return Lot{}, apperror.NewValidation("lot name is required")
	}
	if lot.ID == "" {
		lot.ID = id.NewString()
	}
	if lot.Date == "" {
		lot.Date = time.Now().Format("2006-01-02")
	}
	if lot.CreatedAt.IsZero() {
		lot.CreatedAt = time.Now()
	}

	if _, err := s.store.Insert(ctx, Collection, encodeLot(lot)); err != nil {
		return Lot{}, apperror.NewStoreUnavailable(Collection, err)
	}
	return lot, nil
}

// InsertReduction records a consumption as a negative-quantity lot instead
// of touching existing lots. Used by manual stock reductions.
func (s *Service) InsertReduction(ctx context.Context, name, color string, quantity int64, note string) (Lot, error) {
	if quantity <= 0 {
		return Lot{}, apperror.NewValidation("reduction quantity must be positive")
	}
	return s.AddLot(ctx, Lot{
		Name:     name,
		Color:    color,
		Quantity: -quantity,
		Note:     note,
	})
}

// Lots returns every lot. A failed read degrades to empty.
func (s *Service) Lots(ctx context.Context) ([]Lot, error) {
	recs, err := s.store.Get(ctx, Collection)
	if err != nil {
		logger.Warn(ctx, "stock read failed, treating as empty", "error", err)
		return nil, nil
	}
	lots := make([]Lot, 0, len(recs))
	for _, rec := range recs {
		lots = append(lots, decodeLot(rec))
	}
	return lots, nil
}

// lotsFor returns the item's lots ordered oldest-first for FIFO.
func (s *Service) lotsFor(ctx context.Context, name, color string) ([]Lot, error) {
	all, err := s.Lots(ctx)
	if err != nil {
		return nil, err
	}
	var lots []Lot
	for _, l := range all {
		if l.Name == name && l.Color == color {
			lots = append(lots, l)
		}
	}
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].Date != lots[j].Date {
			return lots[i].Date < lots[j].Date
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
	return lots, nil
}

// OnHand returns the current quantity for (name, color): the sum over all
// its lots, negatives included.
func (s *Service) OnHand(ctx context.Context, name, color string) (int64, error) {
	lots, err := s.lotsFor(ctx, name, color)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range lots {
		total += l.Quantity
	}
	return total, nil
}

// Consume takes quantity from the item's lots oldest-first: a lot that hits
// zero is deleted, a partially used lot is decremented. The returned
// consumptions describe exactly what was taken so it can be restored.
// Consumption does not stop at zero stock; the shortfall is drawn from the
// newest lot, which may leave it negative.
func (s *Service) Consume(ctx context.Context, name, color string, quantity int64) ([]Consumption, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("consume quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lots, err := s.lotsFor(ctx, name, color)
	if err != nil {
		return nil, err
	}

	remaining := quantity
	var consumed []Consumption

	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		if lot.Quantity <= 0 {
			continue
		}

		take := lot.Quantity
		if take > remaining {
			take = remaining
		}
		remaining -= take

		c := Consumption{
			LotID:    lot.ID,
			Name:     lot.Name,
			Color:    lot.Color,
			Quantity: take,
			Price:    lot.Price,
			Date:     lot.Date,
		}

		if take == lot.Quantity {
			c.Deleted = true
			if err := s.store.Remove(ctx, Collection, store.Query{"id": lot.ID}); err != nil {
				return consumed, apperror.NewStoreUnavailable(Collection, err)
			}
		} else {
			patch := store.Record{"quantity": lot.Quantity - take}
			if err := s.store.Update(ctx, Collection, store.Query{"id": lot.ID}, patch); err != nil {
				return consumed, apperror.NewStoreUnavailable(Collection, err)
			}
		}
		consumed = append(consumed, c)
	}

	// Shortfall: no positive lots left. Record the overdraw as a negative
	// lot so the aggregate stays truthful.
	if remaining > 0 {
		lot, err := s.AddLot(ctx, Lot{
			Name:     name,
			Color:    color,
			Quantity: -remaining,
			Note:     "oversold",
		})
		if err != nil {
			return consumed, err
		}
		consumed = append(consumed, Consumption{
			LotID:    lot.ID,
			Name:     name,
			Color:    color,
			Quantity: remaining,
			Date:     lot.Date,
			Deleted:  true,
		})
		logger.Warn(ctx, "stock consumed past zero",
			"name", name,
			"color", color,
			"shortfall", remaining,
		)
	}

	return consumed, nil
}

// Restore re-adds consumed quantities as fresh lots carrying the original
// price and date. Used by deletion paths to undo a prior consumption.
func (s *Service) Restore(ctx context.Context, consumed []Consumption) error {
	for _, c := range consumed {
		if _, err := s.AddLot(ctx, Lot{
			Name:     c.Name,
			Color:    c.Color,
			Quantity: c.Quantity,
			Price:    c.Price,
			Date:     c.Date,
			Note:     "restored",
		}); err != nil {
			return err
		}
	}
	return nil
}

// Items aggregates lots into per-(name,color) quantities and values.
func (s *Service) Items(ctx context.Context) ([]Item, error) {
	lots, err := s.Lots(ctx)
	if err != nil {
		return nil, err
	}

	type key struct{ name, color string }
	agg := make(map[key]*Item)
	var order []key
	for _, l := range lots {
		k := key{l.Name, l.Color}
		item, ok := agg[k]
		if !ok {
			item = &Item{Name: l.Name, Color: l.Color, Value: types.Zero()}
			agg[k] = item
			order = append(order, k)
		}
		item.Quantity += l.Quantity
		item.Value = item.Value.Add(l.Price.Mul(types.NewMoneyFromInt(l.Quantity)))
	}

	items := make([]Item, 0, len(order))
	for _, k := range order {
		items = append(items, *agg[k])
	}
	return items, nil
}
