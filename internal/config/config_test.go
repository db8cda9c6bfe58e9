package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestTinyValidates(t *testing.T) {
	if err := Tiny().Validate(); err != nil {
		t.Fatalf("Tiny() failed validation: %v", err)
	}
}

func TestValidateRejectsBadWater(t *testing.T) {
	c := Default()
	c.WaterFrac = 1.5
	if err := c.Validate(); err == nil {
		t.Fatal("expected ConfigError for water=1.5")
	}
}

func TestValidateRejectsNonPositiveDims(t *testing.T) {
	c := Default()
	c.Width = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected ConfigError for width=0")
	}
}

func TestValidateRejectsPlateCountOutOfRange(t *testing.T) {
	for _, p := range []int{0, 3, 41, 100} {
		c := Default()
		c.Plates = p
		if err := c.Validate(); err == nil {
			t.Errorf("plates=%d should fail validation", p)
		}
	}
}

func TestCharacteristicLengthScalesWithArea(t *testing.T) {
	c := Default()
	c.Width, c.Height = 1000, 400
	small := c.CharacteristicLength()
	c.Scale = 2
	big := c.CharacteristicLength()
	if big <= small {
		t.Fatalf("doubling scale should increase characteristic length: %v vs %v", small, big)
	}
}
