package builtins

import "testing"

func TestGetByNameKnownAndUnknown(t *testing.T) {
	if GetByName("len") == nil {
		t.Errorf("expected len to be registered")
	}
	if GetByName("nope") != nil {
		t.Errorf("expected nope to be unregistered")
	}
}

func TestGetByIndexMatchesDefinitionsOrder(t *testing.T) {
	for i, def := range Definitions {
		got := GetByIndex(i)
		if got != def.Builtin {
			t.Errorf("index %d: expected %s's builtin, got a different one", i, def.Name)
		}
	}
	if GetByIndex(len(Definitions)) != nil {
		t.Errorf("expected out-of-range index to return nil")
	}
	if GetByIndex(-1) != nil {
		t.Errorf("expected negative index to return nil")
	}
}
