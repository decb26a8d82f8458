package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerClean(t *testing.T) {
	s := NewSanitizer()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "just a description", "just a description"},
		{"script block removed", `<script>alert("x")</script>keep`, "keep"},
		{"script with attrs", `<script type="text/javascript">x</script>keep`, "keep"},
		{"tags stripped", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"whitespace trimmed", "  padded  ", "padded"},
		{"mixed", "  <script>x</script><p>report</p> text ", "report text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Clean(tc.in))
		})
	}
}
