package http

import (
	"context"
	"testing"
)

type houseProbe struct {
	Longitude float64   `json:"longitude"`
	Cusps     []float64 `json:"cusps" validate:"required,len=12,dive,cusp"`
	System    string    `json:"system" default:"P" validate:"oneof=P K W"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	res := ValidateStruct(context.Background(), &houseProbe{Cusps: []float64{0, 30}})
	errs, ok := res.([]ValidationError)
	if !ok || len(errs) != 1 {
		t.Fatalf("unexpected result %#v", res)
	}
	if errs[0].Field != "cusps" || errs[0].Code != "ERR_LEN" {
		t.Errorf("got %+v", errs[0])
	}
	if errs[0].Message != "cusps must have exactly 12 items" {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestValidateStructCuspRange(t *testing.T) {
	cusps := []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 360}
	res := ValidateStruct(context.Background(), &houseProbe{Cusps: cusps})
	errs, ok := res.([]ValidationError)
	if !ok || len(errs) != 1 || errs[0].Code != "ERR_CUSP" {
		t.Fatalf("unexpected result %#v", res)
	}
	if errs[0].Field != "cusps[11]" {
		t.Errorf("field = %q", errs[0].Field)
	}
}

func TestValidateStructAppliesDefaults(t *testing.T) {
	p := &houseProbe{Cusps: []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330}}
	if res := ValidateStruct(context.Background(), p); res != nil {
		t.Fatalf("unexpected errors %#v", res)
	}
	if p.System != "P" {
		t.Errorf("system default not applied: %q", p.System)
	}
}
