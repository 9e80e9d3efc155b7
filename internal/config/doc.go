// Package config loads, normalizes, and validates the gazette TOML
// configuration. Defaults work out of the box against a ./dataset tree with
// the keyless Pollinations backend; the Gemini backend requires an API key.
package config
