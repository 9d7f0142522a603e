// Package testutil provides builders and scripted backends shared by tests
// across the module: agent profile and proposition fixtures, plus a
// stage-aware backend that emits well-formed reasoning-cycle JSON without a
// live provider.
package testutil
