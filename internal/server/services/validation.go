package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/server/auth"
)

// User-facing validation messages.
const (
	MsgInvalidNickname   = "Nickname must be alphanumeric and at least 3 characters long."
	MsgPasswordMismatch  = "Passwords do not match."
	MsgWeakPassword      = "Password must be at least 4 characters and not contain the nickname."
	MsgPasswordTooLong   = "Password must be at most 72 bytes."
	MsgPostFieldsMissing = "Title and content are required."
	MsgTitleTooLong      = "Title must be at most 255 characters."
)

const (
	minPasswordLength = 4
	maxTitleLength    = 255
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)

// validateSignup checks signup input in a fixed order and reports the first
// failing rule.
func validateSignup(nickname, password, confirmation string) error {
	if !nicknamePattern.MatchString(nickname) {
		return common.NewValidationError(MsgInvalidNickname)
	}
	if password != confirmation {
		return common.NewValidationError(MsgPasswordMismatch)
	}
	if utf8.RuneCountInString(password) < minPasswordLength || strings.Contains(password, nickname) {
		return common.NewValidationError(MsgWeakPassword)
	}
	if len(password) > auth.MaxPasswordBytes {
		return common.NewValidationError(MsgPasswordTooLong)
	}
	return nil
}

func validatePost(title, content string) error {
	if title == "" || content == "" {
		return common.NewValidationError(MsgPostFieldsMissing)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return common.NewValidationError(MsgTitleTooLong)
	}
	return nil
}
