package cli

import (
	"context"
	"fmt"
	"os"

	"profilesync/internal/session"
)

// Register prompts for credentials and creates an account. Depending on
// backend policy the user either lands in a session immediately or is told
// to confirm their email first.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.SignUp(ctx, email, password); err != nil {
		printlnFn(fmt.Sprintf("Registration failed: %v", err))
		return err
	}

	if a.sessions.Current().Status() == session.StatusPendingVerification {
		printlnFn("Registered. Check your inbox and run 'confirm' to verify your email.")
		return nil
	}
	printlnFn("Registered and signed in.")
	return nil
}

// Confirm marks the account's email address as verified. In the local
// backend this stands in for clicking the link in the confirmation mail.
func (a *App) Confirm(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.auth.ConfirmEmail(email); err != nil {
		printlnFn(fmt.Sprintf("Confirmation failed: %v", err))
		return err
	}
	printlnFn("Email confirmed. You can log in now.")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.SignIn(ctx, email, password); err != nil {
		printlnFn(fmt.Sprintf("Login failed: %v", err))
		return err
	}
	printlnFn("Signed in.")
	return nil
}

// Logout signs out; the account controller unmounts via the session gate.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.SignOut(ctx); err != nil {
		printlnFn(fmt.Sprintf("Logout reported: %v", err))
		return err
	}
	printlnFn("Signed out.")
	return nil
}
