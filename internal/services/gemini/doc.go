// Package gemini implements the describe and generate capabilities on the
// Gemini generateContent and Imagen predict REST endpoints.
package gemini
