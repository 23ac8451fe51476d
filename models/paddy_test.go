package models

import (
	"testing"
	"time"
)

func TestValidDeviceID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"DEVICE_0001", true},
		{"DEVICE_9999", true},
		{"DEVICE_001", false},
		{"DEVICE_00011", false},
		{"device_0001", false},
		{"DEVICE_ABCD", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidDeviceID(tt.id); got != tt.want {
			t.Errorf("ValidDeviceID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestFieldTransition(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"conclude active", FieldActive, FieldConcluded, false},
		{"harvest active", FieldActive, FieldHarvested, false},
		{"harvest concluded", FieldConcluded, FieldHarvested, false},
		{"reopen concluded", FieldConcluded, FieldActive, false},
		{"reopen harvested", FieldHarvested, FieldActive, false},
		{"conclude concluded", FieldConcluded, FieldConcluded, true},
		{"conclude harvested", FieldHarvested, FieldConcluded, true},
		{"reopen active", FieldActive, FieldActive, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Field{Status: tt.from}
			err := f.Transition(tt.to, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition(%s -> %s) err = %v", tt.from, tt.to, err)
			}
			if err == nil && f.Status != tt.to {
				t.Errorf("status = %s, want %s", f.Status, tt.to)
			}
		})
	}
}

func TestFieldTransitionTimestamps(t *testing.T) {
	now := time.Now()

	f := Field{Status: FieldActive}
	if err := f.Transition(FieldConcluded, now); err != nil {
		t.Fatal(err)
	}
	if f.ConcludedAt == nil {
		t.Error("conclude should stamp ConcludedAt")
	}

	if err := f.Transition(FieldActive, now); err != nil {
		t.Fatal(err)
	}
	if f.ConcludedAt != nil {
		t.Error("reopen should clear ConcludedAt")
	}
}
