package models

import "testing"

func TestKindNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
		want string
	}{
		{"N/A", KindNumber, "N/A"},
		{"na", KindNumber, "N/A"},
		{"n/a", KindNames, "N/A"},
		{"45,000%", KindNumber, "45000"},
		{"1,234,567", KindNumber, "1234567"},
		{"Yes", KindBoolean, "true"},
		{"TRUE", KindBoolean, "true"},
		{"no", KindBoolean, "false"},
		{"not stated", KindBoolean, "false"},
		{"  Acme Corp  ", KindName, "Acme Corp"},
		{"Acme Corp, Globex", KindNames, "Acme Corp, Globex"},
	}

	for _, tc := range cases {
		if got := tc.kind.Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q, %s): want %q, got %q", tc.raw, tc.kind, tc.want, got)
		}
	}
}

func TestKindValidate(t *testing.T) {
	for _, k := range []Kind{KindNumber, KindName, KindNames, KindBoolean} {
		if err := k.Validate(); err != nil {
			t.Errorf("expected %s to be valid: %v", k, err)
		}
	}
	if err := Kind("date").Validate(); err == nil {
		t.Errorf("expected unknown kind to be rejected")
	}
}

func TestKindRulesAreClosed(t *testing.T) {
	for _, k := range []Kind{KindNumber, KindName, KindNames, KindBoolean} {
		if k.FormatRule() == "" {
			t.Errorf("missing format rule for %s", k)
		}
		if k.MissingInfoRule() == "" {
			t.Errorf("missing info rule for %s", k)
		}
	}
}
