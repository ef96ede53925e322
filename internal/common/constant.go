// Package common contains shared constants and sentinel errors used across
// SailBlog components.
package common

// SessionCookieName is the cookie that carries the session token between
// the browser and the HTTP API.
const SessionCookieName = "token"

// ProductionEnvironment is the Environment value that switches on
// production-only behaviour such as Secure cookies.
const ProductionEnvironment = "production"
