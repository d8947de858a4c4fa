package api

import (
	"context"
	"net/url"
)

// MemberService is the member management shared by arisan and patungan.
type MemberService interface {
	AddMember(ctx context.Context, groupID, phone string, lots int) error
	SettleMember(ctx context.Context, groupID string, m Member) error
	RemoveMember(ctx context.Context, groupID string, m Member) error
}

type addMemberRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	IDUser      string `json:"idUser"`
	IDArisan    string `json:"idArisan,omitempty"`
	IDPatungan  string `json:"idPatungan,omitempty"`
	JumlahLot   int    `json:"jumlahLot"`
	IsActive    bool   `json:"isActive"`
	IsPayed     bool   `json:"isPayed"`
}

type memberRequest struct {
	IDUser      string `json:"idUser"`
	IDArisan    string `json:"idArisan,omitempty"`
	IDPatungan  string `json:"idPatungan,omitempty"`
	IDTransaksi string `json:"idTransaksi,omitempty"`
	ID          ID     `json:"id"`
}

// ArisanService wraps the Arisan endpoints.
type ArisanService struct {
	r Requester
}

func (s ArisanService) List(ctx context.Context) ([]Arisan, error) {
	var out []Arisan
	if err := s.r.Get(ctx, "Arisan", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s ArisanService) Create(ctx context.Context, payload any) error {
	_, err := s.r.Post(ctx, "Arisan", payload)
	return err
}

func (s ArisanService) Update(ctx context.Context, id string, payload any) error {
	_, err := s.r.Put(ctx, "Arisan/"+url.PathEscape(id), payload)
	return err
}

func (s ArisanService) Delete(ctx context.Context, id string) error {
	_, err := s.r.Delete(ctx, "arisan/"+url.PathEscape(id))
	return err
}

// AddMember enrolls a user by canonical phone number. Arisan members always
// hold a single lot.
func (s ArisanService) AddMember(ctx context.Context, groupID, phone string, _ int) error {
	_, err := s.r.Post(ctx, "Arisan/AddNewArisanMemberbyAdmin", addMemberRequest{
		PhoneNumber: phone,
		IDUser:      phone,
		IDArisan:    groupID,
		JumlahLot:   1,
		IsActive:    true,
	})
	return err
}

// SettleMember marks the member's payout as received.
func (s ArisanService) SettleMember(ctx context.Context, groupID string, m Member) error {
	_, err := s.r.Post(ctx, "Arisan/PayCompleteArisan", memberRequest{
		IDUser:      m.IDUser,
		IDTransaksi: groupID,
		ID:          m.ID,
	})
	return err
}

func (s ArisanService) RemoveMember(ctx context.Context, groupID string, m Member) error {
	_, err := s.r.Post(ctx, "Arisan/DeleteArisanMemberbyAdmin", memberRequest{
		IDUser:   m.IDUser,
		IDArisan: groupID,
		ID:       m.ID,
	})
	return err
}

// PatunganService wraps the Patungan endpoints.
type PatunganService struct {
	r Requester
}

func (s PatunganService) List(ctx context.Context) ([]Patungan, error) {
	var out []Patungan
	if err := s.r.Get(ctx, "Patungan", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s PatunganService) Create(ctx context.Context, payload any) error {
	_, err := s.r.Post(ctx, "Patungan", payload)
	return err
}

func (s PatunganService) Update(ctx context.Context, id string, payload any) error {
	_, err := s.r.Put(ctx, "Patungan/"+url.PathEscape(id), payload)
	return err
}

func (s PatunganService) Delete(ctx context.Context, id string) error {
	_, err := s.r.Delete(ctx, "Patungan/"+url.PathEscape(id))
	return err
}

// AddMember enrolls a user holding lots lots (at least one).
func (s PatunganService) AddMember(ctx context.Context, groupID, phone string, lots int) error {
	if lots < 1 {
		lots = 1
	}
	_, err := s.r.Post(ctx, "Patungan/AddNewPatunganMemberbyAdmin", addMemberRequest{
		PhoneNumber: phone,
		IDUser:      phone,
		IDPatungan:  groupID,
		JumlahLot:   lots,
		IsActive:    true,
	})
	return err
}

// SettleMember refunds the member's payment.
func (s PatunganService) SettleMember(ctx context.Context, groupID string, m Member) error {
	_, err := s.r.Post(ctx, "Patungan/RefundPatunganMemberbyAdmin", memberRequest{
		IDUser:     m.IDUser,
		IDPatungan: groupID,
		ID:         m.ID,
	})
	return err
}

func (s PatunganService) RemoveMember(ctx context.Context, groupID string, m Member) error {
	_, err := s.r.Post(ctx, "Patungan/DeletePatunganMemberbyAdmin", memberRequest{
		IDUser:     m.IDUser,
		IDPatungan: groupID,
		ID:         m.ID,
	})
	return err
}
