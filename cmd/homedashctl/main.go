package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"homedash/pkg/config"
	"homedash/pkg/db"
	"homedash/pkg/model"
	"homedash/pkg/store"
	"homedash/pkg/version"
)

const usage = `usage: homedashctl [-db driver] <command>

commands:
  user list [search]        list users
  user create <userName>    create an active user (prompts for password)
  user passwd <userName>    set a new password (prompts twice)
  version                   print version
`

func main() {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingSecret) {
		log.Fatalf("config: %v", err)
	}
	driver := flag.String("db", cfg.Database.Driver, "database backend: sqlite|mysql|postgres (env DATABASE_DRIVER)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if args[0] == "version" {
		fmt.Println(version.String())
		return
	}
	cfg.Database.Driver = *driver

	gdb, err := db.Open(cfg.Database, false)
	if err != nil {
		log.Fatalf("unable to connect to the database: %v", err)
	}
	defer db.Close(gdb)

	st := store.NewGormStore(gdb)
	if err := run(context.Background(), args, st, newPrompter(os.Stdin, os.Stderr), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		_ = db.Close(gdb)
		os.Exit(1)
	}
}

// prompter asks for a secret. Terminals get no echo.
type prompter func(label string) (string, error)

func newPrompter(in *os.File, out io.Writer) prompter {
	reader := bufio.NewReader(in)
	return func(label string) (string, error) {
		fmt.Fprint(out, label)
		if term.IsTerminal(int(in.Fd())) {
			b, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(out)
			return string(b), err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

func run(ctx context.Context, args []string, st store.UserStore, prompt prompter, out io.Writer) error {
	if len(args) < 2 || args[0] != "user" {
		return fmt.Errorf("unknown command %q", strings.Join(args, " "))
	}
	switch args[1] {
	case "list":
		search := ""
		if len(args) > 2 {
			search = args[2]
		}
		return listUsers(ctx, st, search, out)
	case "create":
		if len(args) != 3 {
			return errors.New("user create needs a user name")
		}
		pw, err := readNewPassword(prompt)
		if err != nil {
			return err
		}
		u := &model.User{UserName: args[2], Active: true}
		if err := st.CreateUser(ctx, u, pw); err != nil {
			return err
		}
		fmt.Fprintf(out, "created user %s (id %d)\n", u.UserName, u.ID)
		return nil
	case "passwd":
		if len(args) != 3 {
			return errors.New("user passwd needs a user name")
		}
		pw, err := readNewPassword(prompt)
		if err != nil {
			return err
		}
		if err := st.SetPassword(ctx, args[2], pw); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("no user named %q", args[2])
			}
			return err
		}
		fmt.Fprintf(out, "password updated for %s\n", args[2])
		return nil
	default:
		return fmt.Errorf("unknown user command %q", args[1])
	}
}

func readNewPassword(prompt prompter) (string, error) {
	pw, err := prompt("New password: ")
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	again, err := prompt("Repeat password: ")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

func listUsers(ctx context.Context, st store.UserStore, search string, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tNAME\tACTIVE\tCREATED")
	for page := 1; ; page++ {
		users, count, err := st.FindUsers(ctx, store.Filter{Search: search}, store.PageFor(page, 100))
		if err != nil {
			return err
		}
		for _, u := range users {
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.UserName, name, u.Active, u.CreatedAt.Format("2006-01-02"))
		}
		if page >= store.TotalPages(count, 100) {
			break
		}
	}
	return tw.Flush()
}
