package pagination

import (
	"errors"
	"testing"

	"reserva/internal/pkg/apperrors"
)

func TestResolve_FirstPage(t *testing.T) {
	offset, page, err := Resolve(1, 25)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if offset != 0 {
		t.Errorf("Expected offset 0, got %d", offset)
	}
	if page.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", page.TotalPages)
	}
	if page.HasPreviousPage {
		t.Error("First page should not have a previous page")
	}
	if !page.HasNextPage {
		t.Error("First of three pages should have a next page")
	}
}

func TestResolve_LastPage(t *testing.T) {
	offset, page, err := Resolve(3, 25)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if offset != 20 {
		t.Errorf("Expected offset 20, got %d", offset)
	}
	if page.HasNextPage {
		t.Error("Last page should not have a next page")
	}
}

func TestResolve_PageZero(t *testing.T) {
	_, _, err := Resolve(0, 25)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
}

func TestResolve_PageBeyondLast(t *testing.T) {
	_, _, err := Resolve(4, 25)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
}

func TestResolve_NoRows(t *testing.T) {
	// ceil(0/10) = 0，任何页码都越界
	_, _, err := Resolve(1, 0)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError on empty table, got: %v", err)
	}
}
