package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestHashIsStableAndCaseSensitive(t *testing.T) {
	if Hash("/about") != Hash("/about") {
		t.Fatalf("expected stable hash")
	}
	if Hash("/about") == Hash("/About") {
		t.Fatalf("expected case-sensitive hash")
	}
	if len(Hash("/")) != 32 {
		t.Fatalf("expected 32 hex characters, got %q", Hash("/"))
	}
}

func TestUUIDDerivation(t *testing.T) {
	if UUID("  ") != uuid.Nil || ExactUUID("") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank keys")
	}
	if PageUUID("/cars") != PageUUID(" /cars ") {
		t.Fatalf("expected trimmed slugs to share ids")
	}
	if PageUUID("/Cars") == PageUUID("/cars") {
		t.Fatalf("expected page ids to respect slug case")
	}
	page := PageUUID("/cars")
	first := BlockSettingUUID(page, 0, "vehicle-list")
	if first == BlockSettingUUID(page, 1, "vehicle-list") {
		t.Fatalf("expected position to affect block ids")
	}
	if BlockValueUUID(first) == first {
		t.Fatalf("expected value id to differ from setting id")
	}
	if ContentUUID("article", "launch") == ContentUUID("product", "launch") {
		t.Fatalf("expected record type to scope content ids")
	}
}
