package client

import "fmt"

// An Alerter renders the blocking alerts of the application. Every
// backend failure degrades to an alert, nothing is retried automatically.
type Alerter interface {
	Alert(title, message string)
}

// AlertFunc adapts a function to the Alerter interface.
type AlertFunc func(title, message string)

// Alert implements Alerter.
func (f AlertFunc) Alert(title, message string) {
	f(title, message)
}

// StdoutAlerter prints alerts on the terminal, used outside of the TUI.
func StdoutAlerter() Alerter {
	return AlertFunc(func(title, message string) {
		if message == "" {
			fmt.Println(title)
			return
		}
		fmt.Printf("%s: %s\n", title, message)
	})
}
