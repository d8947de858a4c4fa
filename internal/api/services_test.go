package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/arisanku/arisan-admin/internal/resource"
)

// fakeBackend serves an in-memory Arisan collection and records write bodies.
type fakeBackend struct {
	mu      sync.Mutex
	arisan  []map[string]any
	bodies  map[string]map[string]any
	nextID  int
	refuse  map[string]bool
	lastRaw string
}

func (f *fakeBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		path := strings.TrimPrefix(r.URL.Path, "/api/")
		if r.Method != http.MethodGet && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			f.lastRaw = string(raw)
			var body map[string]any
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &body); err != nil {
					t.Errorf("decode body: %v", err)
				}
			}
			if f.bodies == nil {
				f.bodies = map[string]map[string]any{}
			}
			f.bodies[r.Method+" "+path] = body
		}
		if f.refuse[r.Method+" "+path] {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"code":500,"message":"server menolak"}`)
			return
		}
		switch {
		case r.Method == http.MethodGet && path == "Arisan":
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "data": f.arisan})
		case r.Method == http.MethodPost && path == "Arisan":
			f.nextID++
			body := f.bodies["POST Arisan"]
			f.arisan = append(f.arisan, map[string]any{
				"id":        f.nextID,
				"title":     body["title"],
				"totalSlot": body["targetLot"],
				"targetPay": body["targetAmount"],
				"sisaSlot":  body["targetLot"],
			})
			_, _ = io.WriteString(w, `{"code":200,"status":"success"}`)
		case r.Method == http.MethodDelete && strings.HasPrefix(path, "arisan/"):
			id := strings.TrimPrefix(path, "arisan/")
			for i, a := range f.arisan {
				if fmt.Sprint(a["id"]) == id {
					f.arisan = append(f.arisan[:i], f.arisan[i+1:]...)
					_, _ = io.WriteString(w, `{"code":200}`)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"code":404,"message":"arisan tidak ditemukan"}`)
		default:
			_, _ = io.WriteString(w, `{"code":200}`)
		}
	}
}

func TestArisan_CreateThenListThroughController(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestClient(t, fb.handler(t), nil)
	svc := NewServices(c)
	ctrl := resource.NewController[Arisan]("arisan", svc.Arisan, nil)
	ctx := testContext(t)

	payload := GroupPayload{Title: "Test", TargetLot: 5, TargetAmount: 10000}
	if err := ctrl.Create(ctx, payload); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	body := fb.bodies["POST Arisan"]
	if body["title"] != "Test" {
		t.Fatalf("title = %#v, want Test", body["title"])
	}
	if v, ok := body["targetLot"].(float64); !ok || v != 5 {
		t.Fatalf("targetLot = %#v, want JSON number 5", body["targetLot"])
	}
	if v, ok := body["targetAmount"].(float64); !ok || v != 10000 {
		t.Fatalf("targetAmount = %#v, want JSON number 10000", body["targetAmount"])
	}
	if strings.Contains(fb.lastRaw, `"5"`) {
		t.Fatalf("numeric field sent as string: %s", fb.lastRaw)
	}

	snap := ctrl.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("items = %#v, want the new record", snap.Items)
	}
	got := snap.Items[0]
	if got.Title != "Test" || got.TotalSlot != 5 || got.TargetPay != 10000 || got.ID != "1" {
		t.Fatalf("record = %#v", got)
	}
}

func TestArisan_DeleteSuccessAndFailure(t *testing.T) {
	fb := &fakeBackend{arisan: []map[string]any{{"id": 7, "title": "A"}, {"id": "8", "title": "B"}}}
	c := newTestClient(t, fb.handler(t), nil)
	ctrl := resource.NewController[Arisan]("arisan", NewServices(c).Arisan, nil)
	ctx := testContext(t)
	_ = ctrl.FetchAll(ctx)

	if err := ctrl.Remove(ctx, "7"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	snap := ctrl.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "8" {
		t.Fatalf("items = %#v, want only 8", snap.Items)
	}

	err := ctrl.Remove(ctx, "99")
	if err == nil {
		t.Fatal("Remove(99) returned nil error")
	}
	if Message(err) != "arisan tidak ditemukan" {
		t.Fatalf("Message = %q, want backend text", Message(err))
	}
	if n := len(ctrl.Snapshot().Items); n != 1 {
		t.Fatalf("items = %d, want store untouched", n)
	}
}

func TestMemberEndpointsBodies(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestClient(t, fb.handler(t), nil)
	svc := NewServices(c)
	ctx := testContext(t)
	m := Member{ID: "m1", IDUser: "+62811"}

	if err := svc.Arisan.AddMember(ctx, "g1", "+62812", 4); err != nil {
		t.Fatalf("Arisan.AddMember: %v", err)
	}
	add := fb.bodies["POST Arisan/AddNewArisanMemberbyAdmin"]
	if add["jumlahLot"] != float64(1) || add["idArisan"] != "g1" || add["phoneNumber"] != "+62812" || add["idUser"] != "+62812" {
		t.Fatalf("arisan add body = %#v", add)
	}
	if add["isActive"] != true || add["isPayed"] != false {
		t.Fatalf("arisan add flags = %#v", add)
	}

	_ = svc.Arisan.SettleMember(ctx, "g1", m)
	pay := fb.bodies["POST Arisan/PayCompleteArisan"]
	if pay["idTransaksi"] != "g1" || pay["id"] != "m1" || pay["idUser"] != "+62811" {
		t.Fatalf("pay body = %#v", pay)
	}

	_ = svc.Arisan.RemoveMember(ctx, "g1", m)
	if del := fb.bodies["POST Arisan/DeleteArisanMemberbyAdmin"]; del["idArisan"] != "g1" {
		t.Fatalf("arisan delete member body = %#v", del)
	}

	_ = svc.Patungan.AddMember(ctx, "p1", "+62813", 3)
	padd := fb.bodies["POST Patungan/AddNewPatunganMemberbyAdmin"]
	if padd["jumlahLot"] != float64(3) || padd["idPatungan"] != "p1" {
		t.Fatalf("patungan add body = %#v", padd)
	}
	if _, ok := padd["idArisan"]; ok {
		t.Fatalf("patungan add body carries idArisan: %#v", padd)
	}

	_ = svc.Patungan.SettleMember(ctx, "p1", m)
	if ref := fb.bodies["POST Patungan/RefundPatunganMemberbyAdmin"]; ref["idPatungan"] != "p1" || ref["id"] != "m1" {
		t.Fatalf("refund body = %#v", ref)
	}
	_ = svc.Patungan.RemoveMember(ctx, "p1", m)
	if _, ok := fb.bodies["POST Patungan/DeletePatunganMemberbyAdmin"]; !ok {
		t.Fatal("patungan delete member not sent")
	}
}

func TestOrderDecisionAndUnsupportedVerbs(t *testing.T) {
	fb := &fakeBackend{}
	c := newTestClient(t, fb.handler(t), nil)
	svc := NewServices(c)
	ctx := testContext(t)

	if err := svc.Orders.Update(ctx, "42", OrderApproved); err != nil {
		t.Fatalf("Orders.Update: %v", err)
	}
	body := fb.bodies["PUT Order/Saldo"]
	if body["id"] != "42" || body["status"] != "Selesai" {
		t.Fatalf("order body = %#v", body)
	}
	if err := svc.Orders.Delete(ctx, "42"); !errors.Is(err, errors.ErrUnsupported) {
		t.Fatalf("Orders.Delete = %v, want ErrUnsupported", err)
	}
	if err := svc.Users.Update(ctx, "1", nil); !errors.Is(err, errors.ErrUnsupported) {
		t.Fatalf("Users.Update = %v, want ErrUnsupported", err)
	}
}

func TestGalleryBulkDeleteThroughController(t *testing.T) {
	fb := &fakeBackend{refuse: map[string]bool{"DELETE file/delete/b": true}}
	c := newTestClient(t, fb.handler(t), nil)
	ctrl := resource.NewController[Image]("gallery", NewServices(c).Gallery, nil)

	res, err := ctrl.RemoveMany(testContext(t), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("RemoveMany returned error: %v", err)
	}
	if ok, failed := res.Counts(); ok != 2 || failed != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", ok, failed)
	}
}

func TestSummary_Sedekah(t *testing.T) {
	cases := []struct {
		body string
		want float64
	}{
		{`{"code":200,"totalSedekah":150000}`, 150000},
		{`{"code":200,"data":{"totalSedekah":2500}}`, 2500},
		{`{"code":200,"data":[]}`, 0},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, tc.body)
		}, nil)
		got, err := NewServices(c).Summary.Sedekah(testContext(t))
		if err != nil {
			t.Fatalf("Sedekah(%s) returned error: %v", tc.body, err)
		}
		if got != tc.want {
			t.Fatalf("Sedekah(%s) = %v, want %v", tc.body, got, tc.want)
		}
	}
}

func TestAuth_ValidateOTP(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		_, _ = io.WriteString(w, `{"code":200,"message":{"accessToken":"jwt-abc"}}`)
	}, nil)

	token, err := NewServices(c).Auth.ValidateOTP(testContext(t), "+62812", "1234")
	if err != nil {
		t.Fatalf("ValidateOTP returned error: %v", err)
	}
	if token != "jwt-abc" {
		t.Fatalf("token = %q, want jwt-abc", token)
	}
	if sent["phonenumber"] != "+62812" || sent["code"] != "1234" {
		t.Fatalf("sent = %#v", sent)
	}
}

func TestAuth_ValidateOTPWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":200,"message":"ok"}`)
	}, nil)
	if _, err := NewServices(c).Auth.ValidateOTP(testContext(t), "+62812", "1"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
}

func TestUsers_HistoryEmptyIsNotError(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"code":200}`)
	}, nil)
	out, err := NewServices(c).Users.History(context.Background(), "+62812")
	if err != nil || len(out) != 0 {
		t.Fatalf("History = %#v, %v; want empty", out, err)
	}
	if gotPath != "/api/Transaksi/user/+62812" {
		t.Fatalf("path = %q", gotPath)
	}
}
