// Package pollinations implements the describe and generate capabilities on
// the free Pollinations text and image HTTP endpoints.
package pollinations
