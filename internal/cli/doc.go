// Package cli provides the interactive profilesync command-line client.
//
// It wires configuration, the auth backend, the profile store, and the
// avatar transfer into an interactive REPL gated on the authentication
// state. Typical flow: register or log in, edit profile fields, upload an
// avatar by file path, save.
//
// Commands while signed out: register, login, confirm, exit.
// Commands while signed in: show, set, save, avatar, logout, fg, bg, exit.
// fg and bg simulate the app moving to the foreground or background, which
// toggles background token auto-refresh.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
