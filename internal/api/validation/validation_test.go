package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	FirstName string `form:"account_firstname" validate:"required,personname"`
	Email     string `form:"account_email" validate:"required,email"`
	Password  string `form:"account_password" validate:"required,passwordbytes,strongpassword"`
	Price     string `form:"inv_price" validate:"omitempty,nonnegative"`
}

func (f *signupForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

func (f *signupForm) Redact() { f.Password = "" }

func (f *signupForm) Messages() map[string]string {
	return map[string]string{"account_firstname": "Please provide a first name."}
}

func TestValidator_CollectsEveryField(t *testing.T) {
	errs := New().Errors(&signupForm{Email: "nope", Password: "short", Price: "-1"})

	assert.Len(t, errs, 4)
	assert.Equal(t, "Please provide a first name.", errs["account_firstname"])
	assert.Contains(t, errs["account_email"], "valid email")
	assert.Contains(t, errs["account_password"], "at least 12")
	assert.Contains(t, errs["inv_price"], "zero or more")
}

func TestValidator_ValidateImplementsEchoContract(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&signupForm{FirstName: "Ada", Email: "a@b.com", Password: "Abcdefg1!2345"}))

	err := v.Validate(&signupForm{})
	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("account_email"))
}

func TestStrongPassword(t *testing.T) {
	v := New()
	cases := map[string]bool{
		"Abcdefg1!2345":  true,
		"abcdefg1!2345":  false,
		"ABCDEFG1!2345":  false,
		"Abcdefgh!ijkl":  false,
		"Abcdefg12345a":  false,
		"Ab1!":           false,
		"Pässwörd-2024X": true,
	}
	for pw, want := range cases {
		errs := v.Errors(&signupForm{FirstName: "Ada", Email: "a@b.com", Password: pw})
		assert.Equal(t, want, !errs.Has("account_password"), "password %q", pw)
	}
}

func TestPasswordBytes(t *testing.T) {
	v := New()
	base := "Abcdefg1!"

	atLimit := base + strings.Repeat("x", PasswordMaxBytes-len(base))
	errs := v.Errors(&signupForm{FirstName: "Ada", Email: "a@b.com", Password: atLimit})
	assert.False(t, errs.Has("account_password"), "72 bytes must be accepted")

	overLimit := atLimit + "x"
	errs = v.Errors(&signupForm{FirstName: "Ada", Email: "a@b.com", Password: overLimit})
	require.True(t, errs.Has("account_password"))
	assert.Contains(t, errs["account_password"], "at most 72 bytes")

	// 30 runes but 82 bytes: a rune count would let it through.
	multiByte := "Ab1!" + strings.Repeat("€", 26)
	errs = v.Errors(&signupForm{FirstName: "Ada", Email: "a@b.com", Password: multiByte})
	assert.True(t, errs.Has("account_password"))
}

func TestPersonName(t *testing.T) {
	v := New()
	for name, want := range map[string]bool{
		"Ada":          true,
		"Mary-Jane":    true,
		"O'Neil":       true,
		"José":         true,
		"<script>":     false,
		"Robert1":      false,
		"Ada Lovelace": true,
	} {
		errs := v.Errors(&signupForm{FirstName: name, Email: "a@b.com", Password: "Abcdefg1!2345"})
		assert.Equal(t, want, !errs.Has("account_firstname"), "name %q", name)
	}
}

func TestPipeline_NormalizesBeforeRules(t *testing.T) {
	p := NewPipeline(New())
	form := &signupForm{FirstName: "  Ada ", Email: "  A@B.COM ", Password: "Abcdefg1!2345"}

	errs, err := p.Run(context.Background(), form)

	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "Ada", form.FirstName)
	assert.Equal(t, "a@b.com", form.Email)
}

func TestPipeline_StoreChecksOnlyRunForCleanFields(t *testing.T) {
	p := NewPipeline(New())
	calls := 0
	exists := Check{Field: "account_email", Fn: func(context.Context) (string, error) {
		calls++
		return "Email exists. Please log in or use different email", nil
	}}

	errs, err := p.Run(context.Background(), &signupForm{FirstName: "Ada", Email: "bad", Password: "Abcdefg1!2345"}, exists)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Contains(t, errs["account_email"], "valid email")

	errs, err = p.Run(context.Background(), &signupForm{FirstName: "", Email: "a@b.com", Password: "x"}, exists)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, errs, 3, "field and store failures are reported together")
	assert.Equal(t, "Email exists. Please log in or use different email", errs["account_email"])
}

func TestPipeline_StoreErrorAborts(t *testing.T) {
	p := NewPipeline(New())
	boom := errors.New("store down")

	_, err := p.Run(context.Background(),
		&signupForm{FirstName: "Ada", Email: "a@b.com", Password: "Abcdefg1!2345"},
		Check{Field: "account_email", Fn: func(context.Context) (string, error) { return "", boom }},
	)
	assert.ErrorIs(t, err, boom)
}

func TestErrors_FirstMessageWins(t *testing.T) {
	errs := Errors{}
	errs.Add("a", "first")
	errs.Add("a", "second")
	errs.Add("b", "other")

	assert.Equal(t, "first", errs["a"])
	assert.Equal(t, "a: first; b: other", errs.Error())
}
