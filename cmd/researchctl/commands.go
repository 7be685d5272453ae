package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/ViFerX/research-assistant/internal/domain"
	"github.com/ViFerX/research-assistant/internal/domain/project"
	"github.com/ViFerX/research-assistant/internal/domain/user"
	"github.com/ViFerX/research-assistant/internal/feature"
	"github.com/ViFerX/research-assistant/internal/telemetry"
	"github.com/ViFerX/research-assistant/internal/workspace"
)

func (a *app) runRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "email address (required)")
	name := fs.String("name", "", "display name (required)")
	role := fs.String("role", string(user.RoleStudent), "role: student, researcher or professor")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("--email is required")
	}
	if *name == "" {
		return errors.New("--name is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if pass != confirm {
			return errors.New("passwords do not match")
		}
	}

	u, err := a.client.Register(context.Background(), user.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: pass,
		Role:     user.Role(*role),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Account created: %s (id=%d, role=%s)\n", u.Email, u.ID, u.Role)
	return nil
}

func (a *app) runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("--email is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	resp, err := a.client.Login(context.Background(), user.LoginRequest{Email: *email, Password: pass})
	if err != nil {
		return err
	}
	a.sessions.Login(resp.AccessToken, resp.User)
	saveSessionFile(resp.AccessToken, resp.User)
	fmt.Fprintf(os.Stderr, "Signed in as %s (%s)\n", resp.User.Name, resp.User.Role)
	return nil
}

func (a *app) runLogout() error {
	a.sessions.Logout()
	clearSessionFile()
	fmt.Fprintln(os.Stderr, "Signed out.")
	return nil
}

func (a *app) runMe() error {
	u, err := a.client.Me(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> id=%d role=%s\n", u.Name, u.Email, u.ID, u.Role)
	return nil
}

func (a *app) runProjects(args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		return a.runProjectsList()
	case "create":
		return a.runProjectsCreate(args[1:])
	case "delete":
		return a.runProjectsDelete(args[1:])
	default:
		return fmt.Errorf("unknown projects command: %s", args[0])
	}
}

func (a *app) runProjectsList() error {
	projects, err := a.client.ListProjects(context.Background())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tDOMAIN\tAIM")
	for i := range projects {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			projects[i].ID, projects[i].Title, projects[i].Domain, projects[i].Aim)
	}
	return w.Flush()
}

func (a *app) runProjectsCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "project title (required)")
	domainName := fs.String("domain", "", "research domain (required)")
	aim := fs.String("aim", "", "project aim (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.client.CreateProject(context.Background(), project.CreateRequest{
		Title: *title, Domain: *domainName, Aim: *aim,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Project created: %s (id=%d)\n", p.Title, p.ID)
	return nil
}

func (a *app) runProjectsDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.Int("id", 0, "project ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("--id is required")
	}
	if err := a.client.DeleteProject(context.Background(), *id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Project %d deleted.\n", *id)
	return nil
}

// openWorkspace fetches the project and wires a workspace over the shared
// client.
func (a *app) openWorkspace(ctx context.Context, projectID int) (*workspace.Workspace, error) {
	if projectID == 0 {
		return nil, domain.ErrNoProject
	}
	p, err := a.client.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	table := feature.NewTable(a.client, metrics)
	return workspace.New(*p, a.client, table, metrics), nil
}

func (a *app) runUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	projectID := fs.Int("project", 0, "project ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("at least one file path is required")
	}

	ctx := context.Background()
	ws, err := a.openWorkspace(ctx, *projectID)
	if err != nil {
		return err
	}
	if err := ws.UploadFiles(ctx, paths); err != nil {
		return err
	}

	for _, doc := range ws.Documents() {
		fmt.Printf("uploaded %s (document_id=%d)\n", doc.Filename, doc.DocumentID)
	}
	return nil
}

func (a *app) runFeatures() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FEATURE\tTITLE\tENDPOINT")
	for _, d := range feature.All() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Title, d.Operation)
	}
	return w.Flush()
}

func (a *app) runInvoke(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: invoke <feature> [--project id] key=value ...")
	}
	id := feature.ID(args[0])

	fs := flag.NewFlagSet("invoke", flag.ContinueOnError)
	projectID := fs.Int("project", 0, "project ID (required)")
	timeout := fs.Duration("timeout", 5*time.Minute, "how long to wait for the result")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	form := feature.Form{}
	for _, arg := range fs.Args() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("malformed field %q, expected key=value", arg)
		}
		form[key] = value
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ws, err := a.openWorkspace(ctx, *projectID)
	if err != nil {
		return err
	}
	if err := ws.SelectFeature(id); err != nil {
		return err
	}
	if err := ws.Submit(ctx, id, form); err != nil {
		return err
	}

	for {
		state := ws.ActiveState()
		switch state.Status {
		case feature.StatusSucceeded:
			return printResult(state.Result)
		case feature.StatusFailed:
			return state.Err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("invoke %s: %w", id, ctx.Err())
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (a *app) runJob(args []string) error {
	fs := flag.NewFlagSet("job", flag.ContinueOnError)
	wait := fs.Bool("wait", false, "poll until the job finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: job <id> [--wait]")
	}
	jobID := fs.Arg(0)
	ctx := context.Background()

	job, err := a.poller.Status(ctx, jobID)
	if err != nil {
		return err
	}
	if *wait && !job.Terminal() {
		job, err = a.poller.Wait(ctx, jobID, a.cfg.Jobs.PollInterval)
		if err != nil {
			return err
		}
	}

	fmt.Printf("job %s: %s\n", job.ID, job.Status)
	if len(job.Result) > 0 {
		fmt.Println(string(job.Result))
	}
	if job.Error != "" {
		fmt.Println("error:", job.Error)
	}
	return nil
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// printResult renders a feature result as indented JSON.
func printResult(result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
