package form

import (
	"errors"
	"strings"
	"testing"
)

type patunganPayload struct {
	Title        string  `json:"title" label:"Judul" validate:"required"`
	Description  string  `json:"description" label:"Deskripsi" validate:"required"`
	TargetLot    int64   `json:"targetLot" label:"Target Lot" validate:"gt=0"`
	TargetAmount float64 `json:"targetAmount" label:"Target Nominal" validate:"gt=0"`
	DueDate      string  `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Phone        string  `json:"phone" label:"Nomor ponsel" validate:"omitempty,phone_id"`
}

func TestValidate_Valid(t *testing.T) {
	p := patunganPayload{Title: "Sapi", Description: "Qurban", TargetLot: 7, TargetAmount: 3000000, DueDate: "2024-06-01", Phone: "0812"}
	if err := Validate(p); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := Validate(patunganPayload{DueDate: "01/06/2024", Phone: "abc"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate error = %T, want *ValidationError", err)
	}
	if len(verr.Fields) != 6 {
		t.Fatalf("fields = %#v, want 6 failures", verr.Fields)
	}
	if got := verr.First(); got != "Judul tidak boleh kosong" {
		t.Fatalf("First() = %q, want Judul tidak boleh kosong", got)
	}
	msg := verr.Error()
	for _, want := range []string{
		"Target Lot harus lebih dari 0",
		"dueDate harus berformat YYYY-MM-DD",
		"Nomor ponsel bukan nomor ponsel yang valid",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("Error() = %q, want it to contain %q", msg, want)
		}
	}
}

func TestRequired(t *testing.T) {
	if err := Required("Nomor ponsel", " 0812 "); err != nil {
		t.Fatalf("Required returned error for filled value: %v", err)
	}
	err := Required("Nomor ponsel", "   ")
	if err == nil || err.Error() != "Nomor ponsel tidak boleh kosong" {
		t.Fatalf("Required error = %v, want Nomor ponsel tidak boleh kosong", err)
	}
}
