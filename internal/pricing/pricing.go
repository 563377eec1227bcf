// Package pricing prices a booking selection. Seat prices travel in the
// wizard URL; food prices never do, so they are looked up from the booking
// API and snapshotted in Redis for a while. The payment page and the
// success page then show the same figure, and the submission reconciles
// the snapshot against a fresh lookup.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingparams"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// maxConcurrentLookups bounds the parallel food price requests of one quote.
const maxConcurrentLookups = 8

// ErrPriceUnavailable is returned by Reconcile when a food price could not
// be fetched.
var ErrPriceUnavailable = errors.New("food price unavailable")

// FoodSource fetches the current food item, price included.
type FoodSource interface {
	GetFood(ctx context.Context, id int64) (model.FoodItem, error)
}

// Line is one priced food line.
type Line struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
	// Unavailable marks a line whose price could not be looked up. Its
	// price counts as zero.
	Unavailable bool `json:"unavailable,omitempty"`
	// Changed marks a line whose fresh price differs from the snapshot the
	// customer was shown. Previous holds the snapshot price.
	Changed  bool  `json:"changed,omitempty"`
	Previous int64 `json:"previous,omitempty"`
}

// Quote is the priced form of a selection. Totals are whole VND.
type Quote struct {
	Seats       []bookingparams.Seat `json:"seats"`
	Food        []Line               `json:"food"`
	TicketTotal int64                `json:"ticketTotal"`
	FoodTotal   int64                `json:"foodTotal"`
	Total       int64                `json:"total"`
}

// Complete reports whether every food line was priced.
func (q Quote) Complete() bool {
	for _, l := range q.Food {
		if l.Unavailable {
			return false
		}
	}
	return true
}

// Changed reports whether any food line moved since the snapshot.
func (q Quote) Changed() bool {
	for _, l := range q.Food {
		if l.Changed {
			return true
		}
	}
	return false
}

// PriceBook prices selections. The Redis client may be nil, in which case
// every lookup goes to the API.
type PriceBook struct {
	src FoodSource
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// New returns a PriceBook keeping snapshots for ttl.
func New(src FoodSource, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *PriceBook {
	if log == nil {
		log = zap.NewNop()
	}
	return &PriceBook{src: src, rdb: rdb, ttl: ttl, log: log}
}

// SnapshotKey is the Redis key holding the snapshot price of a food item.
func SnapshotKey(id int64) string {
	return "price:food:" + strconv.FormatInt(id, 10)
}

// Quote prices sel for display. Food prices come from the snapshot when
// present and from the API otherwise. A failed lookup never fails the
// quote: the line is marked Unavailable and priced at zero.
func (p *PriceBook) Quote(ctx context.Context, sel bookingparams.Selection) Quote {
	items := sel.Food.Items()
	lines := make([]Line, len(items))
	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for i, it := range items {
		lines[i] = Line{ID: it.ID, Name: it.Name, Quantity: it.Quantity}
		g.Go(func() error {
			price, ok := p.snapshot(ctx, it.ID)
			if !ok {
				var err error
				price, err = p.fetch(ctx, it.ID)
				if err != nil {
					p.log.Warn("pricing.Quote: food price lookup failed",
						zap.Int64("food_id", it.ID), zap.Error(err))
					lines[i].Unavailable = true
					return nil
				}
			}
			lines[i].UnitPrice = price
			return nil
		})
	}
	_ = g.Wait()
	return build(sel, lines)
}

// Reconcile prices sel for submission. Every food price is fetched fresh;
// lines whose price moved since the snapshot are flagged Changed and the
// snapshot is refreshed. Any failed lookup fails the whole reconcile.
func (p *PriceBook) Reconcile(ctx context.Context, sel bookingparams.Selection) (Quote, error) {
	items := sel.Food.Items()
	lines := make([]Line, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, it := range items {
		lines[i] = Line{ID: it.ID, Name: it.Name, Quantity: it.Quantity}
		g.Go(func() error {
			prev, hadSnapshot := p.snapshot(gctx, it.ID)
			price, err := p.fetch(gctx, it.ID)
			if err != nil {
				return fmt.Errorf("%w: item %d: %v", ErrPriceUnavailable, it.ID, err)
			}
			lines[i].UnitPrice = price
			if hadSnapshot && prev != price {
				lines[i].Changed = true
				lines[i].Previous = prev
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}
	return build(sel, lines), nil
}

// fetch reads the price from the API and stores it as the new snapshot.
func (p *PriceBook) fetch(ctx context.Context, id int64) (int64, error) {
	item, err := p.src.GetFood(ctx, id)
	if err != nil {
		return 0, err
	}
	if p.rdb != nil {
		if err := p.rdb.Set(ctx, SnapshotKey(id), item.Price, p.ttl).Err(); err != nil {
			p.log.Warn("pricing.fetch: snapshot write failed", zap.Int64("food_id", id), zap.Error(err))
		}
	}
	return item.Price, nil
}

// snapshot reads a stored price. ok is false on a miss or a Redis error.
func (p *PriceBook) snapshot(ctx context.Context, id int64) (price int64, ok bool) {
	if p.rdb == nil {
		return 0, false
	}
	v, err := p.rdb.Get(ctx, SnapshotKey(id)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.log.Warn("pricing.snapshot: read failed", zap.Int64("food_id", id), zap.Error(err))
		}
		return 0, false
	}
	return v, true
}

func build(sel bookingparams.Selection, lines []Line) Quote {
	q := Quote{
		Seats:       append([]bookingparams.Seat(nil), sel.Seats...),
		Food:        lines,
		TicketTotal: sel.TicketTotal(),
	}
	for i := range q.Food {
		q.Food[i].Subtotal = q.Food[i].UnitPrice * int64(q.Food[i].Quantity)
		q.FoodTotal += q.Food[i].Subtotal
	}
	q.Total = q.TicketTotal + q.FoodTotal
	return q
}
