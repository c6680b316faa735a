// Package brdoc validates and formats Brazilian identifiers: CPF and CNPJ
// registration numbers, phone numbers and OAB bar registrations.
package brdoc

import (
	"fmt"
	"strings"
)

var validUFs = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ValidCPF checks the two CPF check digits. Punctuation is ignored.
func ValidCPF(cpf string) bool {
	d := digitsOnly(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}

	// First check digit: weights 10..2 over the first nine digits.
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * (10 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	if rest != int(d[9]-'0') {
		return false
	}

	// Second check digit: weights 11..2 over the first ten digits.
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(d[i]-'0') * (11 - i)
	}
	rest = (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return rest == int(d[10]-'0')
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidCNPJ checks the two CNPJ check digits. Punctuation is ignored.
func ValidCNPJ(cnpj string) bool {
	d := digitsOnly(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(d[i]-'0') * cnpjWeights1[i]
	}
	digit := 0
	if rest := sum % 11; rest >= 2 {
		digit = 11 - rest
	}
	if digit != int(d[12]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 13; i++ {
		sum += int(d[i]-'0') * cnpjWeights2[i]
	}
	digit = 0
	if rest := sum % 11; rest >= 2 {
		digit = 11 - rest
	}
	return digit == int(d[13]-'0')
}

// ValidCPFCNPJ accepts either an 11-digit CPF or a 14-digit CNPJ.
func ValidCPFCNPJ(value string) bool {
	switch len(digitsOnly(value)) {
	case 11:
		return ValidCPF(value)
	case 14:
		return ValidCNPJ(value)
	}
	return false
}

// FormatCPF renders a CPF as XXX.XXX.XXX-XX. Inputs that are not eleven
// digits are returned unchanged.
func FormatCPF(cpf string) string {
	d := digitsOnly(cpf)
	if len(d) != 11 {
		return cpf
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[:3], d[3:6], d[6:9], d[9:])
}

// FormatCNPJ renders a CNPJ as XX.XXX.XXX/XXXX-XX. Inputs that are not
// fourteen digits are returned unchanged.
func FormatCNPJ(cnpj string) string {
	d := digitsOnly(cnpj)
	if len(d) != 14 {
		return cnpj
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[:2], d[2:5], d[5:8], d[8:12], d[12:])
}

// FormatCPFCNPJ picks the canonical format based on digit count.
func FormatCPFCNPJ(value string) string {
	switch len(digitsOnly(value)) {
	case 11:
		return FormatCPF(value)
	case 14:
		return FormatCNPJ(value)
	}
	return value
}

// ValidPhone accepts Brazilian landline (10 digits) and mobile (11 digits,
// third digit 9) numbers with an area code between 11 and 99.
func ValidPhone(phone string) bool {
	d := digitsOnly(phone)
	if len(d) != 10 && len(d) != 11 {
		return false
	}
	ddd := int(d[0]-'0')*10 + int(d[1]-'0')
	if ddd < 11 {
		return false
	}
	if len(d) == 11 && d[2] != '9' {
		return false
	}
	return true
}

// FormatPhone renders a phone as (XX) XXXXX-XXXX or (XX) XXXX-XXXX.
func FormatPhone(phone string) string {
	d := digitsOnly(phone)
	switch len(d) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	}
	return phone
}

// ValidOAB checks a bar registration of the form UF + 4 to 6 digits
// (e.g. SP123456). Case and surrounding whitespace are ignored.
func ValidOAB(oab string) bool {
	s := strings.ToUpper(strings.TrimSpace(oab))
	if len(s) < 6 || len(s) > 8 {
		return false
	}
	if !validUFs[s[:2]] {
		return false
	}
	for i := 2; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeOAB uppercases and trims a bar registration.
func NormalizeOAB(oab string) string {
	return strings.ToUpper(strings.TrimSpace(oab))
}
