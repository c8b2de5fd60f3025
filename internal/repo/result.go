// Package repo wraps API operations in the three-state result shape
// the UI consumes: Loading immediately, then exactly one of Success or
// Error. For profile and calendar data a failed fetch falls back to the
// last cached snapshot instead of surfacing the error — stale but
// available beats correct but blank on a phone in a dead zone.
package repo

import "github.com/sirupsen/logrus"

var log = logrus.WithField("component", "repo")

// Kind is the state of a Result.
type Kind int

const (
	Loading Kind = iota
	Success
	Error
)

// Result is one emission of an operation's lifecycle.
type Result[T any] struct {
	Kind Kind

	// Data is set when Kind is Success.
	Data T

	// Message is the user-facing error text when Kind is Error.
	Message string

	// Stale marks a Success served from cache after a failed fetch.
	Stale bool
}

func loading[T any]() Result[T] {
	return Result[T]{Kind: Loading}
}

func success[T any](data T) Result[T] {
	return Result[T]{Kind: Success, Data: data}
}

func stale[T any](data T) Result[T] {
	return Result[T]{Kind: Success, Data: data, Stale: true}
}

func failure[T any](message string) Result[T] {
	return Result[T]{Kind: Error, Message: message}
}

// run emits Loading then the terminal result produced by fn on a
// buffered channel, so slow consumers never block the operation.
func run[T any](fn func() Result[T]) <-chan Result[T] {
	ch := make(chan Result[T], 2)
	go func() {
		defer close(ch)
		ch <- loading[T]()
		ch <- fn()
	}()
	return ch
}

// Await drains a result channel and returns its terminal emission.
func Await[T any](ch <-chan Result[T]) Result[T] {
	var last Result[T]
	for r := range ch {
		last = r
	}
	return last
}
