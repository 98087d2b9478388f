// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. Invalid input yields an empty string rather than an error.
//
// Normalization includes:
//   - Names and titles: trim, collapse whitespace, drop control characters
//   - Phone numbers: E.164 (+[country][number]), Nigeria as the default region
//   - WhatsApp targets: E.164 digits without the plus sign, as wa.me expects
package sanitizer
