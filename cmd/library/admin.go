package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/service"
	"github.com/bookshelf/library-system/pkg/logger"
)

type adminOptions struct {
	name     string
	email    string
	password string
}

// newCreateAdminCmd seeds the first administrator. No principal exists yet,
// so it bypasses the admin gate of the HTTP API.
func newCreateAdminCmd() *cobra.Command {
	var opts adminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.password == "" {
				pw, err := readPassword(cmd.OutOrStdout(), cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				opts.password = pw
			}
			return createAdmin(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&opts.email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password; prompted when omitted")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func createAdmin(ctx context.Context, out io.Writer, opts adminOptions) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	users := service.NewUserService(store.Users, logger.Component("users"))
	user, err := users.Bootstrap(ctx, domain.CreateUser{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("a user with email %s already exists", opts.email)
		}
		return err
	}

	fmt.Fprintf(out, "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

// readPassword reads a masked password from a terminal, or a plain line
// when stdin is piped.
func readPassword(out io.Writer, in io.Reader) (string, error) {
	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
