package drugs

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	c, err := Parse(" heroin ")
	if err != nil || c != Heroin {
		t.Errorf("Parse() = %v, %v", c, err)
	}
	if _, err := Parse("Tea"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Parse(Tea) error = %v", err)
	}
	cats, err := ParseAll([]string{"Cocaine", "Ecstasy"})
	if err != nil || len(cats) != 2 {
		t.Errorf("ParseAll() = %v, %v", cats, err)
	}
	if _, err := ParseAll([]string{"Cocaine", "Khat"}); err == nil {
		t.Error("ParseAll should fail on an unknown name")
	}
}

func TestDerivatives(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Coca leaf", Cocaine},
		{"Crack", Cocaine},
		{"Poppy straw", Heroin},
		{"Cannabis Herb (Marijuana)", Cannabis},
		{"MDA", Amphetamine},
		{"MDP2P", Ecstasy},
	}
	for _, tt := range tests {
		got, ok := CategoryOf(tt.name)
		if !ok || got != tt.want {
			t.Errorf("CategoryOf(%q) = %v, %v, want %v", tt.name, got, ok, tt.want)
		}
	}
	if _, ok := CategoryOf("Khat"); ok {
		t.Error("Khat should not belong to any category")
	}

	d := Derivatives(Cocaine)
	d[0] = "mutated"
	if !Cocaine.Includes("Cocaine") {
		t.Error("Derivatives must return a copy")
	}
}

func TestSourceGroups(t *testing.T) {
	if c, ok := FromPurityGroup("ATS"); !ok || c != Amphetamine {
		t.Errorf("FromPurityGroup(ATS) = %v, %v", c, ok)
	}
	if c, ok := FromPurityGroup("“Ecstasy”-type substances"); !ok || c != Ecstasy {
		t.Errorf("FromPurityGroup(ecstasy) = %v, %v", c, ok)
	}
	if c, ok := FromPrevalenceGroup("Opiates"); !ok || c != Heroin {
		t.Errorf("FromPrevalenceGroup(Opiates) = %v, %v", c, ok)
	}
	if c, ok := FromPriceName("Cocaine hydrochloride"); !ok || c != Cocaine {
		t.Errorf("FromPriceName() = %v, %v", c, ok)
	}
	if _, ok := FromPrevalenceGroup("Tranquillizers"); ok {
		t.Error("unexpected match")
	}
}
