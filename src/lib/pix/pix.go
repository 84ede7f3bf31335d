// Package pix builds and parses static PIX BR Code payloads (EMV merchant
// presented QR, tag-length-value text terminated by a CRC16 checksum).
package pix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	idPayloadFormat  = "00"
	idMerchantAcct   = "26"
	idMerchantGUI    = "00"
	idMerchantKey    = "01"
	idMerchantInfo   = "02"
	idCategoryCode   = "52"
	idCurrency       = "53"
	idAmount         = "54"
	idCountry        = "58"
	idMerchantName   = "59"
	idMerchantCity   = "60"
	idAdditionalData = "62"
	idTxID           = "05"
	idCRC            = "63"

	pixGUI         = "br.gov.bcb.pix"
	currencyBRL    = "986"
	countryBR      = "BR"
	maxNameLength  = 25
	maxCityLength  = 15
	maxTxIDLength  = 25
	maxFieldLength = 99
	defaultTxID    = "***"
)

var (
	ErrMissingKey       = errors.New("pix key is required")
	ErrInvalidPayload   = errors.New("malformed pix payload")
	ErrChecksumMismatch = errors.New("pix payload checksum mismatch")
)

type Payload struct {
	Key          string
	MerchantName string
	MerchantCity string
	Amount       float64
	Info         string
	TxID         string
}

func field(id, value string) (string, error) {
	if len(value) > maxFieldLength {
		return "", fmt.Errorf("%w: field %s is %d bytes long", ErrInvalidPayload, id, len(value))
	}
	return fmt.Sprintf("%s%02d%s", id, len(value), value), nil
}

// Normalize strips diacritics and anything outside printable ASCII.
func Normalize(s string, max int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, out)
	out = strings.TrimSpace(out)
	if max > 0 && len(out) > max {
		out = strings.TrimSpace(out[:max])
	}
	return out
}

func sanitizeTxID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if len(id) > maxTxIDLength {
		id = id[len(id)-maxTxIDLength:]
	}
	if id == "" {
		return defaultTxID
	}
	return id
}

// Encode renders p as a BR Code string. An Amount of zero leaves the value
// open for the payer to fill in.
func Encode(p Payload) (string, error) {
	key := strings.TrimSpace(p.Key)
	if key == "" {
		return "", ErrMissingKey
	}
	name := Normalize(p.MerchantName, maxNameLength)
	city := Normalize(p.MerchantCity, maxCityLength)
	if name == "" || city == "" {
		return "", fmt.Errorf("%w: merchant name and city are required", ErrInvalidPayload)
	}
	if p.Amount < 0 {
		return "", fmt.Errorf("%w: negative amount", ErrInvalidPayload)
	}

	gui, _ := field(idMerchantGUI, pixGUI)
	keyField, err := field(idMerchantKey, key)
	if err != nil {
		return "", err
	}
	account := gui + keyField
	if info := Normalize(p.Info, 0); info != "" {
		room := maxFieldLength - len(account) - 4
		if room > 0 {
			if len(info) > room {
				info = info[:room]
			}
			infoField, _ := field(idMerchantInfo, info)
			account += infoField
		}
	}

	txid, _ := field(idTxID, sanitizeTxID(p.TxID))

	var parts []string
	for _, f := range [][2]string{
		{idPayloadFormat, "01"},
		{idMerchantAcct, account},
		{idCategoryCode, "0000"},
		{idCurrency, currencyBRL},
	} {
		s, err := field(f[0], f[1])
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if p.Amount > 0 {
		amount, _ := field(idAmount, strconv.FormatFloat(p.Amount, 'f', 2, 64))
		parts = append(parts, amount)
	}
	country, _ := field(idCountry, countryBR)
	nameField, _ := field(idMerchantName, name)
	cityField, _ := field(idMerchantCity, city)
	additional, _ := field(idAdditionalData, txid)
	parts = append(parts, country, nameField, cityField, additional)

	body := strings.Join(parts, "") + idCRC + "04"
	return body + CRC16(body), nil
}

// CRC16 computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF) as four
// upper-case hex digits.
func CRC16(data string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

type tlv struct {
	id    string
	value string
}

func parse(s string) ([]tlv, error) {
	var out []tlv
	for pos := 0; pos < len(s); {
		if pos+4 > len(s) {
			return nil, ErrInvalidPayload
		}
		id := s[pos : pos+2]
		n, err := strconv.Atoi(s[pos+2 : pos+4])
		if err != nil || n < 0 || pos+4+n > len(s) {
			return nil, ErrInvalidPayload
		}
		out = append(out, tlv{id: id, value: s[pos+4 : pos+4+n]})
		pos += 4 + n
	}
	return out, nil
}

// Decode parses a BR Code, verifying its checksum.
func Decode(code string) (*Payload, error) {
	code = strings.TrimSpace(code)
	if len(code) < 8 || code[len(code)-8:len(code)-4] != idCRC+"04" {
		return nil, ErrInvalidPayload
	}
	body, sum := code[:len(code)-4], code[len(code)-4:]
	if !strings.EqualFold(CRC16(body), sum) {
		return nil, ErrChecksumMismatch
	}
	fields, err := parse(code)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 || fields[0].id != idPayloadFormat || fields[0].value != "01" {
		return nil, ErrInvalidPayload
	}

	var p Payload
	var gui string
	for _, f := range fields {
		switch f.id {
		case idMerchantAcct:
			sub, err := parse(f.value)
			if err != nil {
				return nil, err
			}
			for _, sf := range sub {
				switch sf.id {
				case idMerchantGUI:
					gui = sf.value
				case idMerchantKey:
					p.Key = sf.value
				case idMerchantInfo:
					p.Info = sf.value
				}
			}
		case idAmount:
			amount, err := strconv.ParseFloat(f.value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad amount %q", ErrInvalidPayload, f.value)
			}
			p.Amount = amount
		case idMerchantName:
			p.MerchantName = f.value
		case idMerchantCity:
			p.MerchantCity = f.value
		case idAdditionalData:
			sub, err := parse(f.value)
			if err != nil {
				return nil, err
			}
			for _, sf := range sub {
				if sf.id == idTxID {
					p.TxID = sf.value
				}
			}
		case idCurrency:
			if f.value != currencyBRL {
				return nil, fmt.Errorf("%w: unexpected currency %s", ErrInvalidPayload, f.value)
			}
		}
	}
	if !strings.EqualFold(gui, pixGUI) || p.Key == "" {
		return nil, fmt.Errorf("%w: missing pix merchant account", ErrInvalidPayload)
	}
	return &p, nil
}
