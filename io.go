package main

import (
	"bufio"
	"fmt"
	"strings"
)

func printPrompt() {
	fmt.Print("db > ")
}

func readInput(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	// Only the line terminator is stripped. Meta-command dispatch keys off
	// the first byte of the line, so leading whitespace must survive.
	return strings.TrimRight(input, "\r\n"), nil
}
