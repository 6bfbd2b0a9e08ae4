package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token",
	Short: "Hash an admin token read from stdin for ADMIN_TOKEN_HASH",
	Long: `Read one admin token from stdin and print its bcrypt hash.

Example:
  openssl rand -hex 32 | tee token.txt | galerie hash-token`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := hashToken(cmd.InOrStdin())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, hash)
		return err
	},
}

func hashToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if len(token) < 16 {
		return "", errors.New("token must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}
