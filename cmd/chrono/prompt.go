package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PassphraseEnv supplies the age passphrase without prompting.
const PassphraseEnv = "CHRONO_PASSPHRASE"

var errNotTerminal = errors.New("stdin is not a terminal")

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassphrase returns the passphrase from the environment, or prompts for
// it. With confirm set the passphrase must be typed twice.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p, nil
	}
	if !stdinIsTerminal() {
		return "", fmt.Errorf("%w: set %s", errNotTerminal, PassphraseEnv)
	}

	p, err := promptHidden("Passphrase: ")
	if err != nil {
		return "", err
	}
	if !confirm {
		return p, nil
	}
	again, err := promptHidden("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if p != again {
		return "", errors.New("passphrases do not match")
	}
	return p, nil
}

func promptHidden(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// confirmReset asks the user to type "yes". It refuses when stdin is not a
// terminal.
func confirmReset() (bool, error) {
	if !stdinIsTerminal() {
		return false, nil
	}
	fmt.Fprint(os.Stderr, warnStyle.Render("This deletes all commits and snapshots. Type 'yes' to continue: "))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "yes", nil
}
