package auth

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"
)

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    6,
	Algorithm: otp.AlgorithmSHA1,
}

// CreateTotpSeed generates a fresh TOTP secret for MFA enrollment.
func CreateTotpSeed(issuer, accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// CreateTotpToken derives the current 6-digit code from a seed.
func CreateTotpToken(secret string) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC(), totpOpts)
	if err != nil {
		return "", fmt.Errorf("failed to generate totp token: %s", err)
	}
	return code, nil
}

// CreateTotpTokens derives every code the seed will produce over the
// given validity window, starting from the current period.
func CreateTotpTokens(secret string, validity time.Duration) ([]string, error) {
	period := time.Duration(totpOpts.Period) * time.Second
	count := int(validity / period)
	if count < 1 {
		count = 1
	}
	codes := make([]string, 0, count)
	at := time.Now().UTC()
	for range count {
		code, err := totp.GenerateCodeCustom(secret, at, totpOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate totp token: %s", err)
		}
		codes = append(codes, code)
		at = at.Add(period)
	}
	return codes, nil
}

// ValidateTotpToken checks a user-entered code against a seed.
func ValidateTotpToken(secret string, token string) (bool, error) {
	return totp.ValidateCustom(token, secret, time.Now().UTC(), totpOpts)
}

type GetTotpQrCodeOpts struct {
	Issuer    string
	AccountId string
	Secret    string
}

// GetTotpQrCode renders the otpauth enrollment URI as a terminal QR code
// using half-height blocks so authenticator apps can scan it straight off
// the screen.
func GetTotpQrCode(opts GetTotpQrCodeOpts) (string, error) {
	label := url.PathEscape(fmt.Sprintf("%s:%s", opts.Issuer, opts.AccountId))
	q := url.Values{}
	q.Set("secret", strings.ToUpper(opts.Secret)) // most apps expect uppercase
	q.Set("issuer", opts.Issuer)
	q.Set("algorithm", totpOpts.Algorithm.String())
	q.Set("digits", fmt.Sprintf("%d", totpOpts.Digits))
	q.Set("period", fmt.Sprintf("%d", totpOpts.Period))

	qr, err := qrcode.New(fmt.Sprintf("otpauth://totp/%s?%s", label, q.Encode()), qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("failed to create qr code: %s", err)
	}
	var b strings.Builder
	bitmap := qr.Bitmap()
	for y := 0; y < len(bitmap); y += 2 {
		for x := 0; x < len(bitmap[y]); x++ {
			top := bitmap[y][x]
			bottom := false
			if y+1 < len(bitmap) {
				bottom = bitmap[y+1][x]
			}
			switch {
			case top && bottom:
				fmt.Fprintf(&b, "█")
			case top && !bottom:
				fmt.Fprintf(&b, "▀")
			case !top && bottom:
				fmt.Fprintf(&b, "▄")
			default:
				fmt.Fprintf(&b, " ")
			}
		}
		fmt.Fprintf(&b, "\n")
	}
	return b.String(), nil
}
