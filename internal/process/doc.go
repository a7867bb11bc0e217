// Package process terminates the browser process tree left behind by a
// render when the launcher's own cleanup does not reach child processes.
package process
