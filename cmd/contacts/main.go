package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/bagasta/addressbook/internal/client"
	"github.com/bagasta/addressbook/internal/di"
	"github.com/bagasta/addressbook/internal/model"
	"github.com/bagasta/addressbook/internal/presenter"
	"github.com/bagasta/addressbook/internal/rcfile"
	"github.com/bagasta/addressbook/internal/tui"
)

var version = "dev"

// CLI is the top-level command structure for the contacts front end.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	Server   string           `help:"Server base URL. Overrides the rc file." env:"CONTACTS_SERVER"`
	Emulator bool             `help:"Reach the host through the 10.0.2.2 loopback alias."`
	Port     string           `help:"Server port for local/emulator targets." default:"8080"`

	Register RegisterCmd `cmd:"" help:"Create a new account and print its PIN."`
	Login    LoginCmd    `cmd:"" help:"Exchange a PIN for a token and save it."`
	List     ListCmd     `cmd:"" help:"List all contacts."`
	Show     ShowCmd     `cmd:"" help:"Show one contact."`
	Create   CreateCmd   `cmd:"" help:"Create a contact."`
	Update   UpdateCmd   `cmd:"" help:"Update a contact."`
	Delete   DeleteCmd   `cmd:"" help:"Delete a contact."`
	Browse   BrowseCmd   `cmd:"" help:"Open the interactive contact browser."`
}

// App is the assembled front-end object graph.
type App struct {
	Client *client.Client
	List   *presenter.ContactListPresenter
	Detail *presenter.ContactDetailPresenter
	Edit   *presenter.ContactEditPresenter

	rcPath string
	rc     rcfile.Config
}

const (
	keyAPI    = di.DependencyKey("api")
	keyList   = di.DependencyKey("presenter.list")
	keyDetail = di.DependencyKey("presenter.detail")
	keyEdit   = di.DependencyKey("presenter.edit")
)

// buildApp resolves the platform, constructs the client and wires the
// presenters through the container.
func buildApp(cli *CLI) (*App, error) {
	rcPath, err := rcfile.DefaultPath()
	if err != nil {
		return nil, err
	}
	rc, err := rcfile.Load(rcPath)
	if err != nil {
		return nil, err
	}

	var platform client.Platform
	switch {
	case cli.Server != "":
		platform = client.StaticPlatform{URL: strings.TrimRight(cli.Server, "/")}
	case rc.ServerURL != "":
		platform = client.StaticPlatform{URL: strings.TrimRight(rc.ServerURL, "/")}
	case cli.Emulator:
		platform = client.EmulatorPlatform{Port: cli.Port}
	default:
		platform = client.LocalPlatform{Port: cli.Port}
	}

	api := client.NewClient(platform, nil)
	if rc.Token != "" {
		api.SetToken(rc.Token)
	}

	app := di.Wrap(&App{rcPath: rcPath, rc: rc})
	err = app.Inject(
		di.Provide(keyAPI, api, func(a *App, c *client.Client) { a.Client = c }),
		di.Provide(keyList, presenter.NewContactListPresenter(api),
			func(a *App, p *presenter.ContactListPresenter) { a.List = p }),
		di.Provide(keyDetail, presenter.NewContactDetailPresenter(api),
			func(a *App, p *presenter.ContactDetailPresenter) { a.Detail = p }),
		di.Provide(keyEdit, presenter.NewContactEditPresenter(api),
			func(a *App, p *presenter.ContactEditPresenter) { a.Edit = p }),
	)
	if err != nil {
		return nil, err
	}
	return app.Val, nil
}

type RegisterCmd struct{}

func (c *RegisterCmd) Run(app *App, ctx context.Context) error {
	pin, err := app.Client.GeneratePIN(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Account created. PIN: %s\nSave it: there is no recovery.\n", pin)
	return nil
}

type LoginCmd struct {
	PIN string `arg:"" help:"Account PIN."`
}

func (c *LoginCmd) Run(app *App, ctx context.Context) error {
	token, err := app.Client.Login(ctx, c.PIN)
	if err != nil {
		return err
	}
	app.rc.Token = token
	if err := rcfile.Save(app.rcPath, app.rc); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

// consoleListView collects the list result for one-shot CLI output.
type consoleListView struct {
	contacts []model.Contact
	done     chan error
}

func (v *consoleListView) SetContacts(contacts []model.Contact) {
	v.contacts = contacts
	v.done <- nil
}

func (v *consoleListView) ShowError(err error) { v.done <- err }

type ListCmd struct{}

func (c *ListCmd) Run(app *App, ctx context.Context) error {
	view := &consoleListView{done: make(chan error, 1)}
	app.List.Attach(view)
	defer app.List.Detach()
	app.List.Refresh()

	if err := await(ctx, view.done); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE")
	for _, contact := range view.contacts {
		phone := ""
		if len(contact.Phones) > 0 {
			phone = contact.Phones[0].Number
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", contact.ID, contact.Name.Full(), phone)
	}
	return w.Flush()
}

// consoleDetailView collects detail and delete outcomes.
type consoleDetailView struct {
	contact *model.Contact
	deleted int64
	done    chan error
}

func (v *consoleDetailView) SetContact(contact *model.Contact) {
	v.contact = contact
	v.done <- nil
}

func (v *consoleDetailView) ContactDeleted(id int64) {
	v.deleted = id
	v.done <- nil
}

func (v *consoleDetailView) ShowError(err error) { v.done <- err }

type ShowCmd struct {
	ID int64 `arg:"" help:"Contact id."`
}

func (c *ShowCmd) Run(app *App, ctx context.Context) error {
	view := &consoleDetailView{done: make(chan error, 1)}
	app.Detail.Attach(view)
	defer app.Detail.Detach()
	app.Detail.Load(c.ID)

	if err := await(ctx, view.done); err != nil {
		return err
	}

	printContact(view.contact)
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Contact id."`
}

func (c *DeleteCmd) Run(app *App, ctx context.Context) error {
	view := &consoleDetailView{done: make(chan error, 1)}
	app.Detail.Attach(view)
	defer app.Detail.Detach()
	app.Detail.Delete(c.ID)

	if err := await(ctx, view.done); err != nil {
		return err
	}
	fmt.Printf("Deleted contact %d.\n", view.deleted)
	return nil
}

// consoleEditView collects the save outcome.
type consoleEditView struct {
	saved *model.Contact
	done  chan error
}

func (v *consoleEditView) SaveCompleted(contact *model.Contact) {
	v.saved = contact
	v.done <- nil
}

func (v *consoleEditView) SaveFailed(err error) { v.done <- err }

type CreateCmd struct {
	First   string   `help:"First name."`
	Last    string   `help:"Last name."`
	Phone   []string `help:"Phone as type=number (e.g. mobile=555-0100). Repeatable."`
	Address []string `help:"Address as 'street;city;state;zip'. Repeatable."`
}

func (c *CreateCmd) Run(app *App, ctx context.Context) error {
	contact, err := assembleContact(model.NewContactID, c.First, c.Last, c.Phone, c.Address)
	if err != nil {
		return err
	}
	return save(app, ctx, contact, "Created")
}

type UpdateCmd struct {
	ID      int64    `arg:"" help:"Contact id."`
	First   string   `help:"First name."`
	Last    string   `help:"Last name."`
	Phone   []string `help:"Phone as type=number. Repeatable."`
	Address []string `help:"Address as 'street;city;state;zip'. Repeatable."`
}

func (c *UpdateCmd) Run(app *App, ctx context.Context) error {
	contact, err := assembleContact(c.ID, c.First, c.Last, c.Phone, c.Address)
	if err != nil {
		return err
	}
	return save(app, ctx, contact, "Updated")
}

func save(app *App, ctx context.Context, contact model.Contact, verb string) error {
	view := &consoleEditView{done: make(chan error, 1)}
	app.Edit.Attach(view)
	defer app.Edit.Detach()
	app.Edit.Save(contact)

	if err := await(ctx, view.done); err != nil {
		return err
	}
	fmt.Printf("%s contact %d (%s).\n", verb, view.saved.ID, view.saved.Name.Full())
	return nil
}

type BrowseCmd struct{}

func (c *BrowseCmd) Run(app *App, ctx context.Context) error {
	return tui.Run(app.Client)
}

func assembleContact(id int64, first, last string, phones, addresses []string) (model.Contact, error) {
	contact := model.Contact{
		ID:   id,
		Name: model.Name{FirstName: first, LastName: last},
	}

	for _, raw := range phones {
		typ, number, ok := strings.Cut(raw, "=")
		if !ok {
			return model.Contact{}, fmt.Errorf("invalid phone %q, want type=number", raw)
		}
		contact.Phones = append(contact.Phones, model.Phone{
			Number: strings.TrimSpace(number),
			Type:   model.PhoneType(strings.ToLower(strings.TrimSpace(typ))),
		})
	}

	for _, raw := range addresses {
		parts := strings.Split(raw, ";")
		for len(parts) < 4 {
			parts = append(parts, "")
		}
		contact.Addresses = append(contact.Addresses, model.Address{
			Street: strings.TrimSpace(parts[0]),
			City:   strings.TrimSpace(parts[1]),
			State:  strings.TrimSpace(parts[2]),
			Zip:    strings.TrimSpace(parts[3]),
		})
	}

	return contact, nil
}

func printContact(c *model.Contact) {
	fmt.Printf("#%d %s\n", c.ID, c.Name.Full())
	for _, p := range c.Phones {
		fmt.Printf("  %s: %s\n", p.Type, p.Number)
	}
	for _, a := range c.Addresses {
		parts := []string{a.Street, a.City, a.State, a.Zip}
		line := make([]string, 0, len(parts))
		for _, part := range parts {
			if part != "" {
				line = append(line, part)
			}
		}
		fmt.Printf("  address: %s\n", strings.Join(line, ", "))
	}
}

// await waits for a presenter callback or context cancellation.
func await(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("Address book client."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	app, err := buildApp(&cli)
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(app)
	kctx.FatalIfErrorf(kctx.Run())
}
