// Package runtime implements the transition executor: it ties the loaded
// story, the session manager and the choice matcher together and turns each
// tool call into one serialized session update.
package runtime
