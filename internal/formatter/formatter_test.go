package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "empty input",
			raw:  "",
			want: []string{},
		},
		{
			name: "only blank lines",
			raw:  "\n  \n\t\n",
			want: []string{},
		},
		{
			name: "no bullets collapse into one point",
			raw:  "Point one.\nPoint two.",
			want: []string{"• Point one. Point two."},
		},
		{
			name: "dash markers normalised and blank lines ignored",
			raw:  "- a\n- b\n\n- c",
			want: []string{"• a", "• b", "• c"},
		},
		{
			name: "star and bullet markers",
			raw:  "* first\n•second\n  •   third",
			want: []string{"• first", "• second", "• third"},
		},
		{
			name: "continuation lines joined with a space",
			raw:  "• Admissions open in June.\n  Applications close in July.\n• Fees are listed online.",
			want: []string{
				"• Admissions open in June. Applications close in July.",
				"• Fees are listed online.",
			},
		},
		{
			name: "preamble becomes the first point",
			raw:  "Here is the answer:\n- one\n- two",
			want: []string{"• Here is the answer:", "• one", "• two"},
		},
		{
			name: "windows line endings",
			raw:  "- a\r\n- b\r\n",
			want: []string{"• a", "• b"},
		},
		{
			name: "marker with nothing after it",
			raw:  "-\nrest of line",
			want: []string{"• rest of line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw))
		})
	}
}

func TestFormat_EveryPointHasBullet(t *testing.T) {
	raw := "intro\n\n- x\n  y\n* z\n•w"

	for _, p := range Format(raw) {
		assert.True(t, strings.HasPrefix(p, Bullet), "point %q", p)
		assert.NotEqual(t, Bullet, p)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Point one.\nPoint two.",
		"- a\n- b\n\n- c",
		"Here is the answer:\n- one\n  continued\n* two\n\n\n• three",
		"•",
		"- \n-\n*",
		"  leading spaces\n\t- tabbed bullet",
		"• already formatted\n• twice",
	}

	for _, in := range inputs {
		first := Format(in)
		second := Format(Join(first))
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "• a\n• b", Join([]string{"• a", "• b"}))
	assert.Equal(t, "", Join(nil))
}
