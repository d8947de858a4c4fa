// Package dashboard computes the summary cards and the order queue shown on
// the first screen.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/arisanku/arisan-admin/internal/api"
)

// Summary holds the aggregate numbers of the dashboard cards.
type Summary struct {
	MemberCount     int
	MemberBalance   float64
	KoperasiBulanan float64
	KoperasiTahunan float64
	Sedekah         float64
	SoldOutCount    int
	SoldOutValue    float64
	PendingOrders   int
	LoadedAt        time.Time
}

// Inputs are the collections a Summary is computed from.
type Inputs struct {
	Users    []api.User
	Koperasi []api.Koperasi
	Sedekah  float64
	Patungan []api.Patungan
	Orders   []api.Order
}

// Summarize folds the inputs into card values. Only role "1" accounts count
// toward the member balance; a patungan counts as sold out once no slot is
// left, and its value is the filled slots times the target pay.
func Summarize(in Inputs) Summary {
	var s Summary
	for _, u := range in.Users {
		if string(u.IDRole) != api.RoleMember {
			continue
		}
		s.MemberCount++
		s.MemberBalance += u.Balance
	}
	for _, k := range in.Koperasi {
		switch k.Type {
		case api.KoperasiBulanan:
			s.KoperasiBulanan += k.Nominal
		case api.KoperasiTahunan:
			s.KoperasiTahunan += k.Nominal
		}
	}
	s.Sedekah = in.Sedekah
	for _, p := range in.Patungan {
		if !p.SoldOut() {
			continue
		}
		s.SoldOutCount++
		s.SoldOutValue += p.Collected()
	}
	for _, o := range in.Orders {
		if o.Pending() {
			s.PendingOrders++
		}
	}
	return s
}

// SortOrders returns a copy of orders with pending ones first and each
// group newest first. Orders without a parsable timestamp sink to the end
// of their group.
func SortOrders(orders []api.Order) []api.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b api.Order) int {
		if a.Pending() != b.Pending() {
			if a.Pending() {
				return -1
			}
			return 1
		}
		return b.ParsedCreatedAt().Compare(a.ParsedCreatedAt())
	})
	return out
}

// Source reads the collections behind the cards.
type Source interface {
	Users(ctx context.Context) ([]api.User, error)
	Koperasi(ctx context.Context) ([]api.Koperasi, error)
	Sedekah(ctx context.Context) (float64, error)
	Patungan(ctx context.Context) ([]api.Patungan, error)
}

// ServiceSource adapts the typed API services to Source.
type ServiceSource struct {
	Services *api.Services
}

func (s ServiceSource) Users(ctx context.Context) ([]api.User, error) {
	return s.Services.Users.List(ctx)
}

func (s ServiceSource) Koperasi(ctx context.Context) ([]api.Koperasi, error) {
	return s.Services.Summary.Koperasi(ctx)
}

func (s ServiceSource) Sedekah(ctx context.Context) (float64, error) {
	return s.Services.Summary.Sedekah(ctx)
}

func (s ServiceSource) Patungan(ctx context.Context) ([]api.Patungan, error) {
	return s.Services.Patungan.List(ctx)
}

// Load fetches every source one after another and summarizes what arrived.
// Failed sources contribute nothing; their errors are joined into the
// returned error so the cards that did load still render.
func Load(ctx context.Context, src Source, orders []api.Order) (Summary, error) {
	var (
		in   = Inputs{Orders: orders}
		errs []error
		err  error
	)
	if in.Users, err = src.Users(ctx); err != nil {
		errs = append(errs, fmt.Errorf("users: %w", err))
	}
	if in.Koperasi, err = src.Koperasi(ctx); err != nil {
		errs = append(errs, fmt.Errorf("koperasi: %w", err))
	}
	if in.Sedekah, err = src.Sedekah(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sedekah: %w", err))
	}
	if in.Patungan, err = src.Patungan(ctx); err != nil {
		errs = append(errs, fmt.Errorf("patungan: %w", err))
	}

	s := Summarize(in)
	s.LoadedAt = time.Now()
	return s, errors.Join(errs...)
}
