package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/luminabooks/bookadmin/internal/auth"
	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/dashboard"
	"github.com/luminabooks/bookadmin/internal/form"
	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConsoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run the dashboard in the terminal",
		Long: `Runs an interactive, line-oriented version of the dashboard.

Log in with any email and password (or the configured administrator), then
type "help" for the list of commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			c := newConsole(a.controller, a.generator, cmd.InOrStdin(), cmd.OutOrStdout())
			if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				c.readPassword = func() (string, error) {
					pw, err := term.ReadPassword(int(f.Fd()))
					fmt.Fprintln(c.out)
					return string(pw), err
				}
			}
			return c.run(cmd.Context())
		},
	}
	return cmd
}

const consoleHelp = `Commands:
  dashboard | books | orders | settings   switch view
  add                                     open the form for a new book
  edit <id>                               open the form on a book
  set <field> <value>                     set title, author, price, stock, category or description
  describe                                generate a description from title, author and category
  save | cancel                           submit or discard the form
  delete <id>                             not supported
  theme                                   toggle dark mode
  reload                                  retry loading the catalog
  logout | quit`

// console is a line-oriented surface over the controller. It renders state
// and forwards commands; it makes no decisions of its own.
type console struct {
	ctrl      *controller.Controller
	describer form.Describer
	in        *bufio.Scanner
	out       io.Writer

	// readPassword reads a password without echo. It defaults to reading a
	// plain line.
	readPassword func() (string, error)

	frm *form.Form
}

func newConsole(ctrl *controller.Controller, describer form.Describer, in io.Reader, out io.Writer) *console {
	c := &console{
		ctrl:      ctrl,
		describer: describer,
		in:        bufio.NewScanner(in),
		out:       out,
	}
	c.readPassword = func() (string, error) {
		line, ok := c.readLine()
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
	return c
}

func (c *console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *console) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		st := c.ctrl.State()
		if st.Screen() == controller.ScreenLogin {
			if err := c.login(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				fmt.Fprintf(c.out, "Login failed: %v\n", err)
			}
			continue
		}

		c.render(st)
		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok {
			return nil
		}
		if quit := c.exec(ctx, line); quit {
			return nil
		}
	}
}

func (c *console) login(ctx context.Context) error {
	fmt.Fprintln(c.out, "Lumina Books Admin: please sign in")
	fmt.Fprint(c.out, "Email: ")
	email, ok := c.readLine()
	if !ok {
		return io.EOF
	}
	fmt.Fprint(c.out, "Password: ")
	password, err := c.readPassword()
	if err != nil {
		return err
	}
	_, err = c.ctrl.Login(ctx, auth.Credentials{Email: email, Password: password})
	return err
}

// exec runs one command line and reports whether the console should exit
func (c *console) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var st controller.State
	var err error
	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
		return false
	case "quit", "exit":
		return true
	case "dashboard", "books", "orders", "settings":
		st, err = c.ctrl.Navigate(models.View(cmd))
	case "add":
		st, err = c.ctrl.BeginAddBook()
	case "edit":
		st, err = c.edit(args)
	case "set":
		err = c.set(args)
	case "describe":
		err = c.describe(ctx)
	case "save":
		st, err = c.save(ctx)
	case "cancel":
		st, err = c.ctrl.CancelForm()
	case "delete":
		err = errors.New("deleting books is not supported")
	case "theme":
		st, err = c.ctrl.ToggleTheme()
	case "reload":
		st, err = c.ctrl.LoadInitialData(ctx)
	case "logout":
		st, err = c.ctrl.Logout()
	default:
		err = fmt.Errorf("unknown command %q, type help", cmd)
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}

	// A rejected save keeps the local form; a failed store write reopens it
	// from the controller's draft.
	resync := err == nil || errors.Is(err, controller.ErrSaveFailed)
	switch cmd {
	case "add", "edit", "dashboard", "books", "orders", "settings", "cancel", "logout", "save":
		if resync {
			c.syncForm(st)
		}
	}
	return false
}

// syncForm rebuilds the local form from the controller's view of it
func (c *console) syncForm(st controller.State) {
	if st.ActiveView != models.ViewAddBook {
		c.frm = nil
		return
	}
	if st.Draft != nil {
		c.frm = form.Resume(st.EditingBook, *st.Draft)
		return
	}
	c.frm = form.New(st.EditingBook)
}

func (c *console) edit(args []string) (controller.State, error) {
	if len(args) != 1 {
		return controller.State{}, errors.New("usage: edit <id>")
	}
	current := c.ctrl.State()
	book, ok := current.Book(args[0])
	if !ok {
		return current, fmt.Errorf("no book with id %s", args[0])
	}
	return c.ctrl.BeginEditBook(book)
}

func (c *console) set(args []string) error {
	if c.frm == nil {
		return controller.ErrFormNotOpen
	}
	if len(args) < 2 {
		return errors.New("usage: set <field> <value>")
	}
	value := strings.Join(args[1:], " ")
	switch strings.ToLower(args[0]) {
	case "title":
		c.frm.Title = value
	case "author":
		c.frm.Author = value
	case "description":
		c.frm.Description = value
	case "price":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("price must be a number: %w", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("price must be a finite number, got %q", value)
		}
		c.frm.Price = v
	case "stock":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("stock must be a whole number: %w", err)
		}
		c.frm.Stock = v
	case "category":
		cat, ok := parseCategory(value)
		if !ok {
			return fmt.Errorf("unknown category %q", value)
		}
		c.frm.Category = cat
	default:
		return fmt.Errorf("unknown field %q", args[0])
	}
	return nil
}

func parseCategory(s string) (models.Category, bool) {
	for _, cat := range models.Categories {
		if strings.EqualFold(string(cat), s) {
			return cat, true
		}
	}
	return "", false
}

func (c *console) describe(ctx context.Context) error {
	if c.frm == nil {
		return controller.ErrFormNotOpen
	}
	fmt.Fprintln(c.out, "Generating description...")
	return c.frm.GenerateDescription(ctx, c.describer)
}

func (c *console) save(ctx context.Context) (controller.State, error) {
	if c.frm == nil {
		return c.ctrl.State(), controller.ErrFormNotOpen
	}
	return c.ctrl.SaveBook(ctx, c.frm.Book())
}

func (c *console) render(st controller.State) {
	mode := "light"
	if st.DarkMode {
		mode = "dark"
	}
	var nav []string
	for _, v := range models.Views {
		label := v.Label()
		if v == st.ActiveView {
			label = "[" + label + "]"
		}
		nav = append(nav, label)
	}
	fmt.Fprintf(c.out, "\n%s   (%s mode)\n", strings.Join(nav, "  "), mode)

	switch st.Screen() {
	case controller.ScreenLogin:
		fmt.Fprintln(c.out, "Signed out.")
	case controller.ScreenLoading:
		fmt.Fprintln(c.out, "Loading catalog...")
	case controller.ScreenLoadFailed:
		fmt.Fprintln(c.out, st.LoadError)
		fmt.Fprintln(c.out, `Type "reload" to try again.`)
	case controller.ScreenDashboard:
		c.renderDashboard(dashboard.Build(st.Orders))
	case controller.ScreenBooks:
		c.renderBooks(st.Books)
	case controller.ScreenAddBook:
		c.renderForm(st)
	case controller.ScreenOrders:
		c.renderOrders(st.Orders)
	case controller.ScreenSettings:
		fmt.Fprintf(c.out, "Account: %s <%s>\nDark mode: %t\n", st.Account.Name, st.Account.Email, st.DarkMode)
	}
}

func (c *console) renderDashboard(o dashboard.Overview) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, s := range o.Stats {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\n", s.Title, s.Value, s.Trend, s.Change)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Month\tSales\tRevenue")
	for _, p := range o.Sales {
		fmt.Fprintf(tw, "%s\t%d\t%.0f\n", p.Name, p.Sales, p.Revenue)
	}
	tw.Flush()
	fmt.Fprintln(c.out, "\nRecent orders")
	c.renderOrders(o.RecentOrders)
}

func (c *console) renderBooks(books []models.Book) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTitle\tAuthor\tCategory\tPrice\tStock")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\t%d\n", b.ID, b.Title, b.Author, b.Category, b.Price, b.Stock)
	}
	tw.Flush()
}

func (c *console) renderOrders(orders []models.Order) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Order\tCustomer\tBook\tAmount\tStatus\tDate")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\t%s\t%s\n", o.ID, o.CustomerName, o.BookTitle, o.Amount, o.Status, o.Date)
	}
	tw.Flush()
}

func (c *console) renderForm(st controller.State) {
	if c.frm == nil {
		c.syncForm(st)
	}
	f := c.frm
	fmt.Fprintln(c.out, f.Heading())
	if st.FormError != "" {
		fmt.Fprintln(c.out, "!", st.FormError)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "title\t%s\n", f.Title)
	fmt.Fprintf(tw, "author\t%s\n", f.Author)
	fmt.Fprintf(tw, "price\t%.2f\n", f.Price)
	fmt.Fprintf(tw, "stock\t%d\n", f.Stock)
	fmt.Fprintf(tw, "category\t%s\n", f.Category)
	fmt.Fprintf(tw, "description\t%s\n", f.Description)
	tw.Flush()
}
