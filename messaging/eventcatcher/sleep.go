//go:build !darwin

package eventcatcher

// sleeper never fires outside macOS.
func sleeper(listen chan bool) {}
