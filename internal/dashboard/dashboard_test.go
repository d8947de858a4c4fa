package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arisanku/arisan-admin/internal/api"
)

func TestSummarize(t *testing.T) {
	in := Inputs{
		Users: []api.User{
			{ID: "1", IDRole: "1", Balance: 100000},
			{ID: "2", IDRole: "1", Balance: 50000},
			{ID: "3", IDRole: "2", Balance: 999999},
		},
		Koperasi: []api.Koperasi{
			{Type: api.KoperasiBulanan, Nominal: 10000},
			{Type: api.KoperasiBulanan, Nominal: 5000},
			{Type: api.KoperasiTahunan, Nominal: 120000},
			{Type: "Lainnya", Nominal: 1},
		},
		Sedekah: 75000,
		Patungan: []api.Patungan{
			{Group: api.Group{TotalSlot: 10, SisaSlot: 0, TargetPay: 1000}},
			{Group: api.Group{TotalSlot: 4, SisaSlot: -1, TargetPay: 500}},
			{Group: api.Group{TotalSlot: 10, SisaSlot: 3, TargetPay: 1000}},
		},
		Orders: []api.Order{{Status: api.OrderPending}, {Status: api.OrderApproved}, {Status: api.OrderPending}},
	}

	s := Summarize(in)
	if s.MemberCount != 2 || s.MemberBalance != 150000 {
		t.Fatalf("members = %d / %v, want 2 / 150000", s.MemberCount, s.MemberBalance)
	}
	if s.KoperasiBulanan != 15000 || s.KoperasiTahunan != 120000 {
		t.Fatalf("koperasi = %v / %v", s.KoperasiBulanan, s.KoperasiTahunan)
	}
	if s.Sedekah != 75000 {
		t.Fatalf("Sedekah = %v, want 75000", s.Sedekah)
	}
	if s.SoldOutCount != 2 || s.SoldOutValue != 10000+2500 {
		t.Fatalf("sold out = %d / %v, want 2 / 12500", s.SoldOutCount, s.SoldOutValue)
	}
	if s.PendingOrders != 2 {
		t.Fatalf("PendingOrders = %d, want 2", s.PendingOrders)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(Inputs{}); s != (Summary{}) {
		t.Fatalf("Summarize(empty) = %+v, want zero", s)
	}
}

func TestSortOrders(t *testing.T) {
	orders := []api.Order{
		{ID: "old-done", Status: api.OrderApproved, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "old-pending", Status: api.OrderPending, CreatedAt: "2026-01-02T00:00:00Z"},
		{ID: "new-done", Status: api.OrderRejected, CreatedAt: "2026-03-01T00:00:00Z"},
		{ID: "new-pending", Status: api.OrderPending, CreatedAt: "2026-03-02T00:00:00Z"},
		{ID: "undated-pending", Status: api.OrderPending},
	}
	got := SortOrders(orders)

	var ids []string
	for _, o := range got {
		ids = append(ids, string(o.ID))
	}
	want := "new-pending,old-pending,undated-pending,new-done,old-done"
	if strings.Join(ids, ",") != want {
		t.Fatalf("SortOrders = %s, want %s", strings.Join(ids, ","), want)
	}
	if orders[0].ID != "old-done" {
		t.Fatal("SortOrders modified its input")
	}
}

type fakeSource struct {
	failSedekah bool
}

func (fakeSource) Users(context.Context) ([]api.User, error) {
	return []api.User{{IDRole: "1", Balance: 10}}, nil
}

func (fakeSource) Koperasi(context.Context) ([]api.Koperasi, error) {
	return []api.Koperasi{{Type: api.KoperasiTahunan, Nominal: 3}}, nil
}

func (f fakeSource) Sedekah(context.Context) (float64, error) {
	if f.failSedekah {
		return 0, errors.New("boom")
	}
	return 7, nil
}

func (fakeSource) Patungan(context.Context) ([]api.Patungan, error) {
	return nil, nil
}

func TestLoad_PartialFailureKeepsOtherCards(t *testing.T) {
	s, err := Load(context.Background(), fakeSource{failSedekah: true}, nil)
	if err == nil || !strings.Contains(err.Error(), "sedekah: boom") {
		t.Fatalf("Load error = %v, want sedekah failure", err)
	}
	if s.MemberBalance != 10 || s.KoperasiTahunan != 3 || s.Sedekah != 0 {
		t.Fatalf("Load summary = %+v", s)
	}
	if s.LoadedAt.IsZero() {
		t.Fatal("LoadedAt not set")
	}
}

func TestLoad_Success(t *testing.T) {
	s, err := Load(context.Background(), fakeSource{}, []api.Order{{Status: api.OrderPending}})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Sedekah != 7 || s.PendingOrders != 1 {
		t.Fatalf("Load summary = %+v", s)
	}
}
