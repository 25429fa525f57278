package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	// At least 8 characters with 1 letter and 1 digit; the lookaheads
	// need regexp2, stdlib regexp has no support for them.
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
)

var (
	errInvalidPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	passwordRegex      = regexp2.MustCompile(passwordRegexPattern, regexp2.None)
)

type ChildSignupRequest struct {
	Name      string `json:"name"`
	ClassCode string `json:"class_code"`
}

func (req *ChildSignupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.ClassCode, validation.Required, validation.Length(2, 12)),
	)
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ClassCode string `json:"class_code,omitempty"`
}

func (req *SignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Role, validation.Required, validation.In("parent", "pro")),
	)
	if err != nil {
		return err
	}

	ok, err := passwordRegex.MatchString(req.Password)
	if err != nil || !ok {
		return errInvalidPassword
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type ClaimPinRequest struct {
	Pin string `json:"pin"`
}

func (req *ClaimPinRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Pin, validation.Required, validation.Length(4, 4), is.Digit),
	)
}

type ClaimLinkCodeRequest struct {
	LinkCode string `json:"link_code"`
}

func (req *ClaimLinkCodeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.LinkCode, validation.Required, validation.Length(6, 6), is.Digit),
	)
}
