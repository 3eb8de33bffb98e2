package vcf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCollectsTelLinesInOrder(t *testing.T) {
	input := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Alice Example",
		"TEL:+15551234567",
		"END:VCARD",
		"BEGIN:VCARD",
		"FN:Bob Example",
		"TEL;TYPE=CELL:+15559876543",
		"TEL;TYPE=HOME,VOICE:+15550001111",
		"END:VCARD",
	}, "\n")

	phones, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"+15551234567", "+15559876543", "+15550001111"}, phones)
}

func TestParseSkipsEmptyAndUnrelatedLines(t *testing.T) {
	input := strings.Join([]string{
		"TEL:",
		"TELEPHONE:+15550000000",
		"  TEL:+15551230000  ",
		"NOTE:TEL:+15559990000",
	}, "\n")

	phones, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"+15551230000"}, phones)
}

func TestParseEmptyFile(t *testing.T) {
	phones, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, phones)
}
