// contactctl is a small command-line client for the contact-manager API.
//
// Usage:
//
//	contactctl register -username bob -email bob@x.com
//	contactctl login -email bob@x.com
//	contactctl list
//	contactctl create -name Al -email al@x.com -phone 1234567890
//	contactctl get -id <id>
//	contactctl update -id <id> [-name N] [-email E] [-phone P]
//	contactctl delete -id <id>
//
// The API address comes from -addr or CONTACTS_API_URL. Authenticated
// commands take the session token from -token or CONTACTS_TOKEN; login and
// register print the token to export.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/rohitm/contact-manager/internal/client"
	"github.com/rohitm/contact-manager/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "register":
		err = register(ctx, os.Args[2:])
	case "login":
		err = login(ctx, os.Args[2:])
	case "list":
		err = list(ctx, os.Args[2:])
	case "create":
		err = create(ctx, os.Args[2:])
	case "get":
		err = get(ctx, os.Args[2:])
	case "update":
		err = update(ctx, os.Args[2:])
	case "delete":
		err = remove(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: contactctl <register|login|list|create|get|update|delete> [flags]")
}

func newFlagSet(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	addr := fs.String("addr", envOr("CONTACTS_API_URL", "http://localhost:5001"), "API base URL")
	tok := fs.String("token", os.Getenv("CONTACTS_TOKEN"), "session token")
	return fs, addr, tok
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func printSession(s *client.Session) {
	fmt.Printf("logged in as %s <%s>\n", s.Username, s.Email)
	fmt.Printf("export CONTACTS_TOKEN=%s\n", s.Token)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func register(ctx context.Context, args []string) error {
	fs, addr, _ := newFlagSet("register")
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	pw, err := readPassword()
	if err != nil {
		return err
	}
	sess, err := client.New(*addr).Register(ctx, *username, *email, pw)
	if err != nil {
		return err
	}
	printSession(sess)
	return nil
}

func login(ctx context.Context, args []string) error {
	fs, addr, _ := newFlagSet("login")
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	pw, err := readPassword()
	if err != nil {
		return err
	}
	sess, err := client.New(*addr).Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	printSession(sess)
	return nil
}

func list(ctx context.Context, args []string) error {
	fs, addr, tok := newFlagSet("list")
	fs.Parse(args)

	contacts, err := client.New(*addr).ListContacts(ctx, &client.Session{Token: *tok})
	if err != nil {
		return err
	}
	return printJSON(contacts)
}

func create(ctx context.Context, args []string) error {
	fs, addr, tok := newFlagSet("create")
	name := fs.String("name", "", "contact name")
	email := fs.String("email", "", "contact email")
	phone := fs.String("phone", "", "contact phone, 10 digits")
	fs.Parse(args)

	c, err := client.New(*addr).CreateContact(ctx, &client.Session{Token: *tok}, *name, *email, *phone)
	if err != nil {
		return err
	}
	return printJSON(c)
}

func get(ctx context.Context, args []string) error {
	fs, addr, tok := newFlagSet("get")
	id := fs.String("id", "", "contact id")
	fs.Parse(args)

	c, err := client.New(*addr).GetContact(ctx, &client.Session{Token: *tok}, *id)
	if err != nil {
		return err
	}
	return printJSON(c)
}

func update(ctx context.Context, args []string) error {
	fs, addr, tok := newFlagSet("update")
	name := fs.String("name", "", "new name")
	email := fs.String("email", "", "new email")
	phone := fs.String("phone", "", "new phone, 10 digits")
	id := fs.String("id", "", "contact id")
	fs.Parse(args)

	var patch models.ContactPatch
	if *name != "" {
		patch.Name = name
	}
	if *email != "" {
		patch.Email = email
	}
	if *phone != "" {
		patch.Phone = phone
	}

	c, err := client.New(*addr).UpdateContact(ctx, &client.Session{Token: *tok}, *id, patch)
	if err != nil {
		return err
	}
	return printJSON(c)
}

func remove(ctx context.Context, args []string) error {
	fs, addr, tok := newFlagSet("delete")
	id := fs.String("id", "", "contact id")
	fs.Parse(args)

	c, err := client.New(*addr).DeleteContact(ctx, &client.Session{Token: *tok}, *id)
	if err != nil {
		return err
	}
	fmt.Println("deleted:")
	return printJSON(c)
}
