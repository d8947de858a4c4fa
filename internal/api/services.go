package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/arisanku/arisan-admin/internal/resource"
)

var (
	_ resource.Backend[Arisan]   = ArisanService{}
	_ resource.Backend[Patungan] = PatunganService{}
	_ resource.Backend[Event]    = EventService{}
	_ resource.Backend[Setting]  = SettingService{}
	_ resource.Backend[User]     = UserService{}
	_ resource.Backend[Image]    = GalleryService{}
	_ resource.Backend[Order]    = OrderService{}
	_ MemberService              = ArisanService{}
	_ MemberService              = PatunganService{}
)

// Services bundles the typed endpoint wrappers over one Requester.
type Services struct {
	Arisan   ArisanService
	Patungan PatunganService
	Events   EventService
	Settings SettingService
	Users    UserService
	Gallery  GalleryService
	Orders   OrderService
	Summary  SummaryService
	Auth     AuthService
}

// NewServices wires every endpoint wrapper to r.
func NewServices(r Requester) *Services {
	return &Services{
		Arisan:   ArisanService{r: r},
		Patungan: PatunganService{r: r},
		Events:   EventService{r: r},
		Settings: SettingService{r: r},
		Users:    UserService{r: r},
		Gallery:  GalleryService{r: r},
		Orders:   OrderService{r: r},
		Summary:  SummaryService{r: r},
		Auth:     AuthService{r: r},
	}
}

// EventService wraps the event endpoints.
type EventService struct {
	r Requester
}

func (s EventService) List(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := s.r.Get(ctx, "event", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s EventService) Create(ctx context.Context, payload any) error {
	_, err := s.r.Post(ctx, "event", payload)
	return err
}

func (s EventService) Update(ctx context.Context, id string, payload any) error {
	_, err := s.r.Put(ctx, "event/"+url.PathEscape(id), payload)
	return err
}

func (s EventService) Delete(ctx context.Context, id string) error {
	_, err := s.r.Delete(ctx, "event/"+url.PathEscape(id))
	return err
}

// Participants lists the registrants of an event.
func (s EventService) Participants(ctx context.Context, eventID string) ([]Participant, error) {
	env, err := s.r.GetEnvelope(ctx, "Event/List/"+url.PathEscape(eventID))
	if err != nil {
		return nil, err
	}
	var out []Participant
	if err := env.DecodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// SettingService wraps the setting endpoints.
type SettingService struct {
	r Requester
}

func (s SettingService) List(ctx context.Context) ([]Setting, error) {
	var out []Setting
	if err := s.r.Get(ctx, "setting", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s SettingService) Create(ctx context.Context, payload any) error {
	_, err := s.r.Post(ctx, "setting", payload)
	return err
}

func (s SettingService) Update(ctx context.Context, id string, payload any) error {
	_, err := s.r.Put(ctx, "setting/"+url.PathEscape(id), payload)
	return err
}

func (s SettingService) Delete(ctx context.Context, id string) error {
	_, err := s.r.Delete(ctx, "setting/"+url.PathEscape(id))
	return err
}

// UserService wraps the user and wallet endpoints. Users cannot be edited or
// deleted from the console.
type UserService struct {
	r Requester
}

func (s UserService) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.r.Get(ctx, "user", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s UserService) Create(ctx context.Context, payload any) error {
	_, err := s.r.Post(ctx, "user/AddUser", payload)
	return err
}

func (s UserService) Update(context.Context, string, any) error {
	return fmt.Errorf("update user: %w", errors.ErrUnsupported)
}

func (s UserService) Delete(context.Context, string) error {
	return fmt.Errorf("delete user: %w", errors.ErrUnsupported)
}

// Transfer credits balance to the wallet of phone.
func (s UserService) Transfer(ctx context.Context, p TransferPayload) error {
	_, err := s.r.Post(ctx, "User/Transfer", p)
	return err
}

// History lists the wallet movements of phone. No data means no history.
func (s UserService) History(ctx context.Context, phone string) ([]Transaction, error) {
	env, err := s.r.GetEnvelope(ctx, "Transaksi/user/"+url.PathEscape(phone))
	if err != nil {
		return nil, err
	}
	var out []Transaction
	if err := env.DecodeData(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadPayload is a prepared gallery file.
type UploadPayload struct {
	Name    string
	Content []byte
}

// GalleryService wraps the image endpoints.
type GalleryService struct {
	r Requester
}

func (s GalleryService) List(ctx context.Context) ([]Image, error) {
	var out []Image
	if err := s.r.Get(ctx, "file/images", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create uploads an UploadPayload.
func (s GalleryService) Create(ctx context.Context, payload any) error {
	up, ok := payload.(UploadPayload)
	if !ok {
		return fmt.Errorf("gallery upload: unexpected payload %T", payload)
	}
	_, err := s.r.Upload(ctx, "file/upload", up.Name, bytes.NewReader(up.Content))
	return err
}

func (s GalleryService) Update(context.Context, string, any) error {
	return fmt.Errorf("update image: %w", errors.ErrUnsupported)
}

func (s GalleryService) Delete(ctx context.Context, fileID string) error {
	_, err := s.r.Delete(ctx, "file/delete/"+url.PathEscape(fileID))
	return err
}

// OrderDecision is the body of Order/Saldo.
type OrderDecision struct {
	ID     ID     `json:"id"`
	Status string `json:"status"`
}

// OrderService wraps the order confirmation endpoints.
type OrderService struct {
	r Requester
}

func (s OrderService) List(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.r.Get(ctx, "Order/Admin", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s OrderService) Create(context.Context, any) error {
	return fmt.Errorf("create order: %w", errors.ErrUnsupported)
}

// Update sends the decision for the order; payload is the new status.
func (s OrderService) Update(ctx context.Context, id string, payload any) error {
	status, ok := payload.(string)
	if !ok {
		return fmt.Errorf("order decision: unexpected payload %T", payload)
	}
	_, err := s.r.Put(ctx, "Order/Saldo", OrderDecision{ID: ID(id), Status: status})
	return err
}

func (s OrderService) Delete(context.Context, string) error {
	return fmt.Errorf("delete order: %w", errors.ErrUnsupported)
}

// SummaryService reads the aggregate numbers of the dashboard.
type SummaryService struct {
	r Requester
}

// Koperasi lists every cooperative deposit.
func (s SummaryService) Koperasi(ctx context.Context) ([]Koperasi, error) {
	var out []Koperasi
	if err := s.r.Get(ctx, "koperasi", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sedekah returns the donation total. The backend puts totalSedekah next to
// the envelope fields; older builds nest it in data.
func (s SummaryService) Sedekah(ctx context.Context) (float64, error) {
	env, err := s.r.GetEnvelope(ctx, "sedekah")
	if err != nil {
		return 0, err
	}
	var top struct {
		TotalSedekah float64 `json:"totalSedekah"`
	}
	if err := env.Decode(&top); err != nil {
		return 0, err
	}
	if top.TotalSedekah == 0 && env.HasData() && bytes.HasPrefix(bytes.TrimSpace(env.Data), []byte("{")) {
		var nested struct {
			TotalSedekah float64 `json:"totalSedekah"`
		}
		if err := env.DecodeData(&nested); err == nil {
			return nested.TotalSedekah, nil
		}
	}
	return top.TotalSedekah, nil
}

// AuthService wraps the WhatsApp OTP login.
type AuthService struct {
	r Requester
}

type otpRequest struct {
	PhoneNumber string `json:"phonenumber"`
	Code        string `json:"code,omitempty"`
}

// ErrNoToken is returned when OTP validation succeeds without a token.
var ErrNoToken = errors.New("login response carries no access token")

// SendOTP asks the backend to deliver a code to phone over WhatsApp.
func (s AuthService) SendOTP(ctx context.Context, phone string) error {
	_, err := s.r.Post(ctx, "otp/sendWA", otpRequest{PhoneNumber: phone})
	return err
}

// ValidateOTP exchanges the code for an access token.
func (s AuthService) ValidateOTP(ctx context.Context, phone, code string) (string, error) {
	env, err := s.r.Post(ctx, "otp/validateWA", otpRequest{PhoneNumber: phone, Code: code})
	if err != nil {
		return "", err
	}
	var tok struct {
		AccessToken string `json:"accessToken"`
	}
	msg := bytes.TrimSpace(env.Message)
	if len(msg) > 0 && msg[0] == '{' {
		if err := json.Unmarshal(msg, &tok); err != nil {
			return "", fmt.Errorf("decode token: %w", err)
		}
	}
	if tok.AccessToken == "" && env.HasData() {
		_ = env.DecodeData(&tok)
	}
	token := strings.TrimSpace(tok.AccessToken)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
