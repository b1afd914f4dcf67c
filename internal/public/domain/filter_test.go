package domain

import (
	"math"
	"slices"
	"testing"
)

func TestNewFilterCriteria_DropsInvalidValues(t *testing.T) {
	t.Parallel()

	c := NewFilterCriteria(FilterInput{
		Query:        "  flamenco  ",
		Municipality: "culebra",
		Tags:         []string{"surfing", "jetski", "surfing", " snorkeling "},
		Amenities:    []string{"parking", "helipad", "Salvavidas"},
		Sort:         "popularity",
		Page:         -3,
		Limit:        -1,
	})

	if c.Query() != "flamenco" {
		t.Errorf("Query() = %q", c.Query())
	}
	if c.Municipality() != "" {
		t.Errorf("lowercase municipality should be cleared, got %q", c.Municipality())
	}
	if got := c.Tags(); !slices.Equal(got, []string{"surfing", "snorkeling"}) {
		t.Errorf("Tags() = %v", got)
	}
	if got := c.Amenities(); !slices.Equal(got, []string{"parking"}) {
		t.Errorf("Amenities() = %v", got)
	}
	if !c.Lifeguard() {
		t.Error("lifeguard alias in amenities should set the lifeguard flag")
	}
	if c.Sort() != SortName || c.SortExplicit() {
		t.Errorf("Sort() = %s explicit=%v, want default name", c.Sort(), c.SortExplicit())
	}
	if c.Page() != 1 || c.Limit() != 0 {
		t.Errorf("paging = %d/%d", c.Page(), c.Limit())
	}
}

func TestFilterCriteria_PageIsBounded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    FilterCriteria
		want int
	}{
		{name: "constructor", c: NewFilterCriteria(FilterInput{Page: math.MaxInt}), want: MaxPage},
		{name: "with paging", c: NewFilterCriteria(FilterInput{}).WithPaging(math.MaxInt, 20), want: MaxPage},
		{name: "in range", c: NewFilterCriteria(FilterInput{Page: 7}), want: 7},
		{name: "negative", c: NewFilterCriteria(FilterInput{}).WithPaging(math.MinInt, 20), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.c.Page(); got != tt.want {
				t.Errorf("Page() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterCriteria_Immutable(t *testing.T) {
	t.Parallel()

	c := NewFilterCriteria(FilterInput{Tags: []string{"surfing"}})
	tags := c.Tags()
	tags[0] = "mutated"
	if c.Tags()[0] != "surfing" {
		t.Error("Tags() must return a copy")
	}

	dropped := c.Without(ConstraintTags)
	if len(dropped.Tags()) != 0 || len(c.Tags()) != 1 {
		t.Error("Without must not modify the receiver")
	}
}

func TestFilterCriteria_Matches(t *testing.T) {
	t.Parallel()

	beach := Beach{
		ID:           "1",
		Name:         "Playa Flamenco",
		Municipality: "Culebra",
		Description:  "Crescent of white sand",
		Tags:         []string{"swimming", "snorkeling"},
		Amenities:    []string{"restrooms", "lifeguard"},
		Status:       StatePublished,
	}

	tests := []struct {
		name string
		in   FilterInput
		want bool
	}{
		{"empty criteria", FilterInput{}, true},
		{"query case insensitive", FilterInput{Query: "FLAMENCO"}, true},
		{"query in description", FilterInput{Query: "white sand"}, true},
		{"query miss", FilterInput{Query: "rincon"}, false},
		{"municipality match", FilterInput{Municipality: "Culebra"}, true},
		{"municipality miss", FilterInput{Municipality: "Rincón"}, false},
		{"all tags required", FilterInput{Tags: []string{"snorkeling", "surfing"}}, false},
		{"tag subset", FilterInput{Tags: []string{"snorkeling"}}, true},
		{"lifeguard", FilterInput{Lifeguard: true}, true},
		{"amenity miss", FilterInput{Amenities: []string{"parking"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NewFilterCriteria(tt.in).Matches(beach); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	draft := beach
	draft.Status = StateDraft
	if (FilterCriteria{}).Matches(draft) {
		t.Error("drafts must never match")
	}
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"san juan", Coordinates{Lat: 18.4655, Lng: -66.1057}, true},
		{"vieques", Coordinates{Lat: 18.1263, Lng: -65.4401}, true},
		{"mona island", Coordinates{Lat: 18.0867, Lng: -67.8894}, true},
		{"miami", Coordinates{Lat: 25.7617, Lng: -80.1918}, false},
		{"santo domingo", Coordinates{Lat: 18.4861, Lng: -69.9312}, false},
		{"null island", Coordinates{}, false},
	}
	for _, tt := range tests {
		if got := ServiceArea.Contains(tt.c); got != tt.want {
			t.Errorf("%s: Contains() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
