package textproc

import "testing"

func TestMajorityDecimalCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "no numeric tokens",
			text: "Revenue from operations\nProfit before tax\n",
			want: 0,
		},
		{
			name: "uniform two decimals",
			text: "12,345.67\n890.12\n3.45\n",
			want: 2,
		},
		{
			name: "majority wins over minority",
			text: "100.00\n200.00\n300.00\n4,500\n",
			want: 2,
		},
		{
			name: "integers only",
			text: "100\n2,500\n37\n",
			want: 0,
		},
		{
			name: "tie resolves to first seen",
			text: "1.5\n2.55\n3.5\n4.55\n",
			want: 1,
		},
		{
			name: "tie resolves to first seen with integers first",
			text: "100\n2.50\n300\n4.75\n",
			want: 0,
		},
		{
			name: "numbers embedded in label lines are ignored",
			text: "Note 3 revenue grew\n12.34\n",
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MajorityDecimalCount(tt.text)
			if got != tt.want {
				t.Errorf("MajorityDecimalCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestRepairNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		decimals int
		want     string
	}{
		{
			name:     "dot used as thousands separator",
			text:     "Revenue 12.345.67 total",
			decimals: 2,
			want:     "Revenue 12,345.67 total",
		},
		{
			name:     "comma used as decimal separator",
			text:     "1,234,56",
			decimals: 2,
			want:     "1,234.56",
		},
		{
			name:     "fraction zero padded",
			text:     "12,345.6",
			decimals: 2,
			want:     "12,345.60",
		},
		{
			name:     "fraction truncated",
			text:     "12,345.678",
			decimals: 2,
			want:     "12,345.67",
		},
		{
			name:     "zero decimals turns separators into grouping",
			text:     "12.345.678",
			decimals: 0,
			want:     "12,345,678",
		},
		{
			name:     "plain integer untouched",
			text:     "Profit 500",
			decimals: 2,
			want:     "Profit 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairNumber(tt.text, tt.decimals)
			if got != tt.want {
				t.Errorf("RepairNumber(%q, %d) = %q, want %q", tt.text, tt.decimals, got, tt.want)
			}

			// Repair must be idempotent for a fixed decimal count.
			again := RepairNumber(got, tt.decimals)
			if again != got {
				t.Errorf("RepairNumber is not idempotent: %q -> %q", got, again)
			}
		})
	}
}
