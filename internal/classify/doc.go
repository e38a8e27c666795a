// Package classify derives session-type labels and subject tags from file
// name and folder text using the registry's independent rule sets.
package classify
