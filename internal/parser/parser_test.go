package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStripsMarkup(t *testing.T) {
	p := NewHTMLParser()

	html := `<html><head><style>body { color: red; }</style></head>
<body><h1>Welcome</h1><p>Your account is ready.</p>
<script>alert("x")</script>
<div>Thanks, <b>the team</b></div></body></html>`

	text, err := p.Parse(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Welcome")
	assert.Contains(t, text, "Your account is ready.")
	assert.Contains(t, text, "Thanks, the team")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "alert")
}

func TestParseEmpty(t *testing.T) {
	p := NewHTMLParser()
	text, err := p.Parse("")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestParseCollapsesWhitespace(t *testing.T) {
	p := NewHTMLParser()
	text, err := p.Parse("<p>hello     world​</p><p></p><p></p><p>bye</p>")
	require.NoError(t, err)
	assert.Equal(t, "hello world\nbye", text)
}

func TestDetectCodes(t *testing.T) {
	d := NewCodeDetector()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "otp with keyword",
			text: "Your verification code: 482913",
			want: []string{"482913"},
		},
		{
			name: "standalone code on own line",
			text: "Use the number below to sign in\n\n  774201  \n\nIt expires in 10 minutes.",
			want: []string{"774201"},
		},
		{
			name: "alphanumeric reset code",
			text: "Reset code: AB12CD34",
			want: []string{"AB12CD34"},
		},
		{
			name: "no codes",
			text: "Just saying hello, nothing to verify here.",
			want: nil,
		},
		{
			name: "short numbers ignored",
			text: "Order #123 shipped via route 42",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := d.DetectCodes(tt.text)
			var values []string
			for _, c := range codes {
				values = append(values, c.Value)
			}
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestDetectCodesDeduplicates(t *testing.T) {
	d := NewCodeDetector()
	codes := d.DetectCodes("Your code: 556677\nSecurity code 556677 expires soon")
	require.Len(t, codes, 1)
	assert.Equal(t, "556677", codes[0].Value)
}
