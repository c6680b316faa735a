package brdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCPF(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid with punctuation", "529.982.247-25", true},
		{"valid bare digits", "52998224725", true},
		{"valid repeated block pattern", "111.444.777-35", true},
		{"wrong first check digit", "529.982.247-15", false},
		{"wrong second check digit", "529.982.247-21", false},
		{"all same digits", "111.111.111-11", false},
		{"too short", "5299822472", false},
		{"too long", "529982247250", false},
		{"empty", "", false},
		{"letters only", "abc.def.ghi-jk", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidCPF(tc.input))
		})
	}
}

func TestValidCNPJ(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid with punctuation", "11.222.333/0001-81", true},
		{"valid bare digits", "11222333000181", true},
		{"wrong check digit", "11.222.333/0001-80", false},
		{"all same digits", "11.111.111/1111-11", false},
		{"too short", "1122233300018", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidCNPJ(tc.input))
		})
	}
}

func TestValidCPFCNPJ_PicksByLength(t *testing.T) {
	assert.True(t, ValidCPFCNPJ("529.982.247-25"))
	assert.True(t, ValidCPFCNPJ("11.222.333/0001-81"))
	assert.False(t, ValidCPFCNPJ("12345"))
	assert.False(t, ValidCPFCNPJ(""))
}

func TestFormatCPFCNPJ(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "11.222.333/0001-81", FormatCNPJ("11222333000181"))
	assert.Equal(t, "529.982.247-25", FormatCPFCNPJ("529-982-247.25"))
	assert.Equal(t, "11.222.333/0001-81", FormatCPFCNPJ("11222333000181"))
	// Unrecognized lengths pass through untouched.
	assert.Equal(t, "12345", FormatCPFCNPJ("12345"))
}

func TestValidPhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"mobile formatted", "(11) 98765-4321", true},
		{"mobile bare", "11987654321", true},
		{"landline formatted", "(21) 3456-7890", true},
		{"landline bare", "2134567890", true},
		{"mobile without leading 9", "11887654321", false},
		{"bad area code", "(05) 98765-4321", false},
		{"too short", "987654321", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidPhone(tc.input))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", FormatPhone("11987654321"))
	assert.Equal(t, "(21) 3456-7890", FormatPhone("2134567890"))
	assert.Equal(t, "12345", FormatPhone("12345"))
}

func TestValidOAB(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"uppercase", "SP123456", true},
		{"lowercase normalized", "rj12345", true},
		{"short number", "MG1234", true},
		{"padded", "  SC4321  ", true},
		{"invalid uf", "XX123456", false},
		{"too few digits", "SP123", false},
		{"too many digits", "SP1234567", false},
		{"digits in uf", "1P123456", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidOAB(tc.input))
		})
	}
}

func TestNormalizeOAB(t *testing.T) {
	assert.Equal(t, "SP123456", NormalizeOAB("  sp123456 "))
}
