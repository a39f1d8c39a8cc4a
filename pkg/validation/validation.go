package validation

import (
	"fmt"
	"net/url"
)

func ValidateNonEmptyString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateRedirectURI checks that the redirect URI is an absolute https URL.
// The provider rejects anything else, so catch it before building a URL.
func ValidateRedirectURI(redirectURI string) error {
	if redirectURI == "" {
		return fmt.Errorf("redirect URI cannot be empty")
	}
	u, err := url.Parse(redirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("redirect URI must use https, got %q", redirectURI)
	}
	if u.Host == "" {
		return fmt.Errorf("redirect URI must include a host, got %q", redirectURI)
	}
	return nil
}

// ValidateCredentials checks that both halves of a client credential pair are present.
func ValidateCredentials(appKey, appSecret string) error {
	if err := ValidateNonEmptyString("app key", appKey); err != nil {
		return err
	}
	return ValidateNonEmptyString("app secret", appSecret)
}
