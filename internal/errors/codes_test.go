package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		code     string
		category string
	}{
		{TYC001, "scope"},
		{TYC004, "unify"},
		{TYC007, "method"},
		{TYC011, "trait"},
		{TYC099, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Fatalf("error code %s not found in registry", tt.code)
			}
			if info.Code != tt.code {
				t.Errorf("code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Category != tt.category {
				t.Errorf("category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestIsTraitError(t *testing.T) {
	if !IsTraitError(TYC011) {
		t.Errorf("expected %s to be a trait error", TYC011)
	}
	if IsTraitError(TYC001) {
		t.Errorf("did not expect %s to be a trait error", TYC001)
	}
}

func TestIsInternalError(t *testing.T) {
	if !IsInternalError(TYC099) {
		t.Errorf("expected %s to be an internal error", TYC099)
	}
	if IsInternalError(TYC002) {
		t.Errorf("did not expect %s to be an internal error", TYC002)
	}
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	allCodes := []string{
		TYC001, TYC002, TYC003, TYC004, TYC005, TYC006, TYC007, TYC008,
		TYC009, TYC010, TYC011, TYC012, TYC013, TYC014, TYC015, TYC016,
		TYC017, TYC018, TYC019, TYC020, TYC021, TYC099,
	}
	for _, code := range allCodes {
		if _, exists := GetErrorInfo(code); !exists {
			t.Errorf("error code %s is defined but not in registry", code)
		}
	}
	if len(ErrorRegistry) != len(allCodes) {
		t.Errorf("registry has %d codes, expected %d", len(ErrorRegistry), len(allCodes))
	}
}
