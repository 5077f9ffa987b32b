package validate

import (
	"errors"
	"strings"
	"testing"
)

type draft struct {
	FullName string `json:"full_name" validate:"max=5"`
	Level    string `json:"level" validate:"omitempty,oneof=all beginner"`
}

func TestCheck(t *testing.T) {
	if err := Check(draft{FullName: "Ada", Level: "beginner"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Check(draft{FullName: "Ada Lovelace", Level: "expert"})
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if len(fe) != 2 {
		t.Fatalf("expected two field errors, got %v", fe)
	}
	if !strings.Contains(fe["full_name"], "full_name") {
		t.Fatalf("message does not name the json field: %q", fe["full_name"])
	}
	if err.Error() != fe["full_name"] {
		t.Fatalf("Error() should report the first field alphabetically, got %q", err.Error())
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID("7b8f5d2e-9c3a-4d6b-8e1f-2a3b4c5d6e7f"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if err := CheckID("42"); err == nil {
		t.Fatal("invalid id accepted")
	}
}
