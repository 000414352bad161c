package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestParseRegion(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
		found    bool
	}{
		{
			name:     "trailing_region_segment",
			raw:      "Abay Avenue 12, Almaty City, Medeu District",
			expected: "Medeu District",
			found:    true,
		},
		{
			name:     "labelled_segment_wins",
			raw:      "Abay Avenue 12, region: Bostandyk, Almaty City",
			expected: "Bostandyk",
			found:    true,
		},
		{
			name:     "district_label",
			raw:      "house 4; district: Auezov",
			expected: "Auezov",
			found:    true,
		},
		{
			name:     "skips_city_and_country_segments",
			raw:      "Turan Avenue 1, Astana City, Kazakhstan Country",
			expected: "",
			found:    false,
		},
		{
			name:     "skips_street_segments",
			raw:      "Main Street, Green Road",
			expected: "",
			found:    false,
		},
		{
			name:     "skips_segments_with_digits",
			raw:      "Building 7, Block 12b",
			expected: "",
			found:    false,
		},
		{
			name:     "slash_separator",
			raw:      "Apt 3 / Almaty Province / Zhetysu",
			expected: "Zhetysu",
			found:    true,
		},
		{
			name:     "newline_separator",
			raw:      "Abay Avenue 12\nTurksib",
			expected: "Turksib",
			found:    true,
		},
		{
			name:     "hyphenated_name",
			raw:      "1 Embankment Road, Saryarqa-West",
			expected: "Saryarqa-West",
			found:    true,
		},
		{
			name:     "too_short_name_rejected",
			raw:      "Abay Avenue 12, Al",
			expected: "",
			found:    false,
		},
		{
			name:     "overlong_segment_rejected",
			raw:      "somewhere, this segment is way too long to plausibly be the name of any region",
			expected: "",
			found:    false,
		},
		{
			name:     "empty_input",
			raw:      "",
			expected: "",
			found:    false,
		},
		{
			name:     "rightmost_plausible_segment_wins",
			raw:      "Koktem, Bostandyk",
			expected: "Bostandyk",
			found:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, ok := services.ParseRegion(tc.raw)

			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, name)
		})
	}
}
