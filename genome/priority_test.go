package genome

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Category
		wantErr bool
	}{
		{"full ranking", "food > empty > opposite > same > poison",
			[]Category{CategoryFood, CategoryEmpty, CategoryOppositeGender, CategorySameGender, CategoryPoison}, false},
		{"commas and aliases", "Food, partner, rival", []Category{CategoryFood, CategoryOppositeGender, CategorySameGender}, false},
		{"single", "poison", []Category{CategoryPoison}, false},
		{"no spaces", "food>diff", []Category{CategoryFood, CategoryOppositeGender}, false},
		{"unknown name", "food > water", nil, true},
		{"duplicate", "food > empty > food", nil, true},
		{"alias duplicate", "diff > opposite", nil, true},
		{"dangling separator", "food >", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseGenome(t *testing.T) {
	g, err := ParseGenome("food > empty")
	if err != nil {
		t.Fatal(err)
	}
	if g != (Genome{205, 255, 0, 0, 0}) {
		t.Errorf("ParseGenome = %v", g)
	}
}
