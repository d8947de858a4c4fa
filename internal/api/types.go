package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID is a backend identifier. The backend sends ids as either JSON strings
// or numbers; both decode to the same text.
type ID string

// UnmarshalJSON accepts a string, a number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Member is one participant of an arisan or patungan group.
type Member struct {
	ID           ID     `json:"id" yaml:"id"`
	IDUser       string `json:"idUser" yaml:"idUser"`
	Name         string `json:"name" yaml:"name"`
	PhoneNumber  string `json:"phoneNumber" yaml:"phoneNumber"`
	JumlahLot    int    `json:"jumlahLot" yaml:"jumlahLot"`
	IsPayed      bool   `json:"isPayed" yaml:"isPayed"`
	IsMonthPayed bool   `json:"isMonthPayed" yaml:"isMonthPayed"`
	IsActive     bool   `json:"isActive" yaml:"isActive"`
}

// Group is the shared shape of arisan and patungan records.
type Group struct {
	ID            ID       `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Keterangan    string   `json:"keterangan" yaml:"keterangan"`
	Banner        []string `json:"banner" yaml:"banner"`
	Doc           []string `json:"doc" yaml:"doc"`
	Location      string   `json:"location" yaml:"location"`
	Kenaikan      float64  `json:"kenaikan" yaml:"kenaikan"`
	TotalSlot     int      `json:"totalSlot" yaml:"totalSlot"`
	SisaSlot      int      `json:"sisaSlot" yaml:"sisaSlot"`
	TargetPay     float64  `json:"targetPay" yaml:"targetPay"`
	PenagihanDate string   `json:"penagihanDate" yaml:"penagihanDate"`
	IsAvailable   bool     `json:"isAvailable" yaml:"isAvailable"`
	Status        bool     `json:"status" yaml:"status"`
}

// SoldOut reports whether every slot is taken.
func (g Group) SoldOut() bool { return g.SisaSlot <= 0 }

// FilledSlots is the number of taken slots.
func (g Group) FilledSlots() int { return g.TotalSlot - g.SisaSlot }

// Collected is the value of the taken slots.
func (g Group) Collected() float64 { return float64(g.FilledSlots()) * g.TargetPay }

// FormValues returns the editable fields keyed by form field name.
func (g Group) FormValues() map[string]string {
	return map[string]string{
		"title":         g.Title,
		"description":   g.Keterangan,
		"location":      g.Location,
		"targetLot":     strconv.Itoa(g.TotalSlot),
		"targetAmount":  strconv.FormatFloat(g.TargetPay, 'f', -1, 64),
		"penagihanDate": g.PenagihanDate,
		"banner":        strings.Join(g.Banner, ", "),
		"document":      strings.Join(g.Doc, ", "),
	}
}

func (g Group) searchFields() []string {
	return []string{g.Title, g.Keterangan, g.Location}
}

func (g Group) sortValue(key string) any {
	switch key {
	case "title":
		return g.Title
	case "totalSlot":
		return g.TotalSlot
	case "sisaSlot":
		return g.SisaSlot
	case "targetPay":
		return g.TargetPay
	case "kenaikan":
		return g.Kenaikan
	case "penagihanDate":
		return g.PenagihanDate
	}
	return nil
}

// Arisan is a rotating savings group.
type Arisan struct {
	Group   `yaml:",inline"`
	Members []Member `json:"memberArisan" yaml:"members"`
}

func (a Arisan) RecordID() string              { return string(a.ID) }
func (a Arisan) SearchFields() []string        { return a.searchFields() }
func (a Arisan) SortValue(key string) any      { return a.sortValue(key) }
func (a Arisan) GroupMembers() []Member        { return a.Members }
func (a Arisan) GroupInfo() Group              { return a.Group }
func (a Arisan) FormValues() map[string]string { return a.Group.FormValues() }

// Patungan is a group purchase split into lots.
type Patungan struct {
	Group   `yaml:",inline"`
	Members []Member `json:"memberPatungan" yaml:"members"`
}

func (p Patungan) RecordID() string              { return string(p.ID) }
func (p Patungan) SearchFields() []string        { return p.searchFields() }
func (p Patungan) SortValue(key string) any      { return p.sortValue(key) }
func (p Patungan) GroupMembers() []Member        { return p.Members }
func (p Patungan) GroupInfo() Group              { return p.Group }
func (p Patungan) FormValues() map[string]string { return p.Group.FormValues() }

// GroupPayload is the create/update body of arisan and patungan.
type GroupPayload struct {
	Title        string   `json:"title" yaml:"title" label:"Judul" validate:"required"`
	Description  string   `json:"description" yaml:"description" label:"Deskripsi"`
	Keterangan   string   `json:"keterangan" yaml:"keterangan"`
	Banner       []string `json:"banner" yaml:"banner"`
	Document     []string `json:"document" yaml:"document"`
	Location     string   `json:"location" yaml:"location"`
	TargetLot    int64    `json:"targetLot" yaml:"targetLot" label:"Target Member" validate:"gte=0"`
	TargetAmount float64  `json:"targetAmount" yaml:"targetAmount" label:"Target Bulanan" validate:"gte=0"`
}

// PatunganPayload tightens GroupPayload with the patungan rules.
type PatunganPayload struct {
	Title        string   `json:"title" label:"Judul" validate:"required"`
	Description  string   `json:"description" label:"Deskripsi" validate:"required"`
	Keterangan   string   `json:"keterangan"`
	Banner       []string `json:"banner"`
	Document     []string `json:"document"`
	Location     string   `json:"location"`
	TargetLot    int64    `json:"targetLot" label:"Target Member" validate:"gt=0"`
	TargetAmount float64  `json:"targetAmount" label:"Target Bulanan" validate:"gt=0"`
}

// Participant is a registrant of an event.
type Participant struct {
	ID       ID     `json:"id" yaml:"id"`
	FullName string `json:"fullName" yaml:"fullName"`
	Phone    string `json:"phone" yaml:"phone"`
}

// Event is a paid community event.
type Event struct {
	ID       ID      `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Image    string  `json:"image" yaml:"image"`
	DueDate  string  `json:"dueDate" yaml:"dueDate"`
	Price    float64 `json:"price" yaml:"price"`
	Desc     string  `json:"desc" yaml:"desc"`
	Location string  `json:"location" yaml:"location"`
}

func (e Event) RecordID() string       { return string(e.ID) }
func (e Event) SearchFields() []string { return []string{e.Name, e.Desc, e.Location} }

func (e Event) SortValue(key string) any {
	switch key {
	case "name":
		return e.Name
	case "dueDate":
		return e.DueDate
	case "price":
		return e.Price
	}
	return nil
}

// DueDay returns the date part of DueDate (the backend may send a timestamp).
func (e Event) DueDay() string {
	if len(e.DueDate) >= 10 {
		return e.DueDate[:10]
	}
	return e.DueDate
}

// FormValues returns the editable fields keyed by form field name.
func (e Event) FormValues() map[string]string {
	return map[string]string{
		"name":     e.Name,
		"image":    e.Image,
		"dueDate":  e.DueDay(),
		"price":    strconv.FormatFloat(e.Price, 'f', -1, 64),
		"desc":     e.Desc,
		"location": e.Location,
	}
}

// EventPayload is the create/update body of an event. Every field except the
// image is required.
type EventPayload struct {
	Name     string  `json:"name" label:"Nama" validate:"required"`
	Image    string  `json:"image" label:"Gambar"`
	DueDate  string  `json:"dueDate" label:"Tanggal" validate:"required,datetime=2006-01-02"`
	Price    float64 `json:"price" label:"Harga" validate:"gt=0"`
	Desc     string  `json:"desc" label:"Deskripsi" validate:"required"`
	Location string  `json:"location" label:"Lokasi" validate:"required"`
}

// Setting is a backend key/value configuration entry.
type Setting struct {
	ID    ID     `json:"id" yaml:"id"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (s Setting) RecordID() string       { return string(s.ID) }
func (s Setting) SearchFields() []string { return []string{s.Key, s.Value} }

func (s Setting) SortValue(key string) any {
	switch key {
	case "key":
		return s.Key
	case "value":
		return s.Value
	}
	return nil
}

// FormValues returns the editable fields keyed by form field name.
func (s Setting) FormValues() map[string]string {
	return map[string]string{"key": s.Key, "value": s.Value}
}

// SettingPayload is the create/update body of a setting.
type SettingPayload struct {
	Key   string `json:"key" label:"Key" validate:"required"`
	Value string `json:"value" label:"Value" validate:"required"`
}

// RoleMember is the idRole of regular members.
const RoleMember = "1"

// User is a platform account with a wallet balance.
type User struct {
	ID       ID      `json:"id" yaml:"id"`
	FullName string  `json:"fullName" yaml:"fullName"`
	Email    string  `json:"email" yaml:"email"`
	Phone    string  `json:"phone" yaml:"phone"`
	Balance  float64 `json:"balance" yaml:"balance"`
	Address  string  `json:"address" yaml:"address"`
	IDRole   ID      `json:"idRole" yaml:"idRole"`
}

func (u User) RecordID() string       { return string(u.ID) }
func (u User) SearchFields() []string { return []string{u.FullName, u.Email, u.Phone} }

func (u User) SortValue(key string) any {
	switch key {
	case "fullName":
		return u.FullName
	case "email":
		return u.Email
	case "phone":
		return u.Phone
	case "balance":
		return u.Balance
	}
	return nil
}

// NewUserPayload is the body of user/AddUser.
type NewUserPayload struct {
	FullName string `json:"fullName" label:"Nama Lengkap" validate:"required"`
	Phone    string `json:"phone" label:"Telepon" validate:"required,phone_id"`
}

// TransferPayload is the body of User/Transfer.
type TransferPayload struct {
	Phone   string  `json:"phone" label:"Telepon" validate:"required"`
	Balance float64 `json:"balance" label:"Jumlah saldo" validate:"gt=0"`
}

// Transaction is one wallet movement of a user.
type Transaction struct {
	ID        ID      `json:"id" yaml:"id"`
	Type      string  `json:"type" yaml:"type"`
	Nominal   float64 `json:"nominal" yaml:"nominal"`
	Ket       string  `json:"ket" yaml:"ket"`
	Status    string  `json:"status" yaml:"status"` // Income or Outcome
	CreatedAt string  `json:"createdAt" yaml:"createdAt"`
}

// Income reports whether the movement credited the wallet.
func (t Transaction) Income() bool { return t.Status == "Income" }

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (t Transaction) ParsedCreatedAt() time.Time { return parseTime(t.CreatedAt) }

// Image is a gallery file.
type Image struct {
	FileID     string `json:"fileId" yaml:"fileId"`
	FileName   string `json:"fileName" yaml:"fileName"`
	PreviewURL string `json:"previewUrl" yaml:"previewUrl"`
}

func (i Image) RecordID() string       { return i.FileID }
func (i Image) SearchFields() []string { return []string{i.FileName, i.PreviewURL} }

func (i Image) SortValue(key string) any {
	if key == "fileName" {
		return i.FileName
	}
	return nil
}

// Order statuses.
const (
	OrderPending  = "Pending"
	OrderApproved = "Selesai"
	OrderRejected = "Ditolak"
)

// Order is a top-up or purchase awaiting admin confirmation.
type Order struct {
	ID         ID      `json:"id" yaml:"id"`
	Type       string  `json:"type" yaml:"type"`
	IDUser     string  `json:"idUser" yaml:"idUser"`
	Price      float64 `json:"price" yaml:"price"`
	UniqueCode float64 `json:"uniqueCode" yaml:"uniqueCode"`
	Status     string  `json:"status" yaml:"status"`
	Image      string  `json:"image" yaml:"image"`
	CreatedAt  string  `json:"createdAt" yaml:"createdAt"`
}

func (o Order) RecordID() string       { return string(o.ID) }
func (o Order) SearchFields() []string { return []string{o.Type, o.IDUser, o.Status} }

func (o Order) SortValue(key string) any {
	switch key {
	case "createdAt":
		return o.ParsedCreatedAt()
	case "price":
		return o.Price
	case "status":
		return o.Status
	}
	return nil
}

// Pending reports whether the order still awaits a decision.
func (o Order) Pending() bool { return o.Status == OrderPending }

// Total is the amount to transfer including the unique code.
func (o Order) Total() float64 { return o.Price + o.UniqueCode }

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (o Order) ParsedCreatedAt() time.Time { return parseTime(o.CreatedAt) }

// Koperasi is one cooperative savings deposit.
type Koperasi struct {
	ID      ID      `json:"id" yaml:"id"`
	Type    string  `json:"type" yaml:"type"` // KoperasiBulanan or KoperasiTahunan
	Nominal float64 `json:"nominal" yaml:"nominal"`
}

// Koperasi types.
const (
	KoperasiBulanan = "KoperasiBulanan"
	KoperasiTahunan = "KoperasiTahunan"
)

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
