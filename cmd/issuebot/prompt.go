package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNotTerminal = errors.New("input is not a terminal")

// promptSecret asks for a value on out and reads it from in without echo.
func promptSecret(in *os.File, out io.Writer, prompt string) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", errNotTerminal
	}

	fmt.Fprint(out, prompt)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read from terminal: %w", err)
	}
	return strings.TrimSpace(string(value)), nil
}
