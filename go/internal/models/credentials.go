package models

import "encoding/base64"

// AdminCredentials is the username/password pair sent with admin requests
// using HTTP Basic authentication.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete reports whether both username and password are present.
func (c AdminCredentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// BasicAuthorization returns the value for an Authorization header.
func (c AdminCredentials) BasicAuthorization() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	return "Basic " + token
}
