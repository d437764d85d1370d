package utils

import "testing"

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "Revenue from operations 5,000.00",
			want: "Revenue from operations 5,000.00",
		},
		{
			name: "emphasis markers around values are removed",
			in:   "**Total income** 9,000.00 and *Profit after tax* 400.00",
			want: "Total income 9,000.00 and Profit after tax 400.00",
		},
		{
			name: "heading hashes are removed",
			in:   "## Statement of Profit and Loss\n\nRevenue from operations 5,000.00",
			want: "Statement of Profit and Loss\nRevenue from operations 5,000.00",
		},
		{
			name: "soft line breaks inside a paragraph survive",
			in:   "Profit after tax\n400.00",
			want: "Profit after tax\n400.00",
		},
		{
			name: "list bullets become bare lines",
			in:   "- Revenue 100.00\n- Expenses 50.00",
			want: "Revenue 100.00\n\nExpenses 50.00",
		},
		{
			name: "inner code fence content is kept verbatim",
			in:   "```\nTotal income 9,000.00\n```",
			want: "Total income 9,000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdown(tt.in); got != tt.want {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
