// Package console is the interactive menu over the order service.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/floormaster/internal/domain/money"
	"github.com/xenking/floormaster/internal/domain/order"
	"github.com/xenking/floormaster/internal/domain/product"
	"github.com/xenking/floormaster/internal/domain/tax"
)

// DateLayout is the layout users type dates in.
const DateLayout = "01/02/2006"

const menu = `
* * * * * * * * * * * * * * * * * * * * * * * * * * * *
* <<Flooring Program>>
* 1. Display Orders
* 2. Add an Order
* 3. Edit an Order
* 4. Remove an Order
* 5. Export All Data
* 6. Save Orders
* 7. Quit
* * * * * * * * * * * * * * * * * * * * * * * * * * * *`

// Exporter writes a snapshot of all orders somewhere and reports how many
// orders it wrote.
type Exporter func(ctx context.Context, snap order.Snapshot) (int, error)

// Console reads commands from in and writes results to out.
type Console struct {
	svc    *order.Service
	export Exporter
	in     *bufio.Scanner
	out    io.Writer
	now    func() time.Time
}

// New creates a Console.
func New(svc *order.Service, export Exporter, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc:    svc,
		export: export,
		in:     bufio.NewScanner(in),
		out:    out,
		now:    time.Now,
	}
}

// Run shows the menu until the user quits or input ends. Command failures
// are reported to the user and do not stop the loop.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println(menu)
		choice, err := c.prompt("Please select from the above choices")
		if err != nil {
			return ignoreEOF(err)
		}

		var cmdErr error
		switch choice {
		case "1":
			cmdErr = c.displayOrders()
		case "2":
			cmdErr = c.addOrder(ctx)
		case "3":
			cmdErr = c.editOrder(ctx)
		case "4":
			cmdErr = c.removeOrder(ctx)
		case "5":
			cmdErr = c.exportData(ctx)
		case "6":
			cmdErr = c.saveOrders(ctx)
		case "7":
			c.println("Good Bye!")
			return nil
		default:
			c.println("Unknown command.")
		}
		if errors.Is(cmdErr, io.EOF) {
			return nil
		}
		if cmdErr != nil {
			c.printf("ERROR: %v\n", cmdErr)
		}
	}
}

func (c *Console) displayOrders() error {
	date, err := c.promptDate("Enter order date (MM/DD/YYYY)")
	if err != nil {
		return err
	}
	orders := c.svc.OrdersForDate(date)
	if len(orders) == 0 {
		c.printf("No orders for %s.\n", date.Format(DateLayout))
		return nil
	}
	c.printOrders(orders)
	return nil
}

func (c *Console) addOrder(ctx context.Context) error {
	today := order.DateOf(c.now())
	date, err := c.promptDate("Enter order date after " + today.Format(DateLayout) + " (MM/DD/YYYY)")
	if err != nil {
		return err
	}
	name, err := c.prompt("Customer name")
	if err != nil {
		return err
	}
	state, err := c.promptChoice("State", stateNames(c.svc.Taxes()))
	if err != nil {
		return err
	}
	productType, err := c.promptChoice("Product type", productTypes(c.svc.Products()))
	if err != nil {
		return err
	}
	area, err := c.promptAmount("Area in sq ft (min " + money.Format(order.MinArea) + ")")
	if err != nil {
		return err
	}

	draft := c.withReference(order.Order{
		Date:         date,
		CustomerName: name,
		State:        state,
		ProductType:  productType,
		Area:         area,
	})
	priced, err := c.svc.CalculateOrderCosts(draft, today)
	if err != nil {
		return err
	}

	c.printOrders([]order.Order{priced})
	ok, err := c.confirm("Place this order?")
	if err != nil || !ok {
		return err
	}

	priced.Number = c.svc.GetNextOrderNumber()
	if err := c.svc.AddOrder(ctx, priced); err != nil {
		return err
	}
	c.printf("Order %d placed.\n", priced.Number)
	return nil
}

func (c *Console) editOrder(ctx context.Context) error {
	current, err := c.selectOrder()
	if err != nil {
		return err
	}

	edited := current
	if edited.CustomerName, err = c.promptDefault("Customer name", current.CustomerName); err != nil {
		return err
	}
	if edited.State, err = c.promptDefault("State", current.State); err != nil {
		return err
	}
	if edited.ProductType, err = c.promptDefault("Product type", current.ProductType); err != nil {
		return err
	}
	areaText, err := c.promptDefault("Area", money.Format(current.Area))
	if err != nil {
		return err
	}
	if edited.Area, err = money.Parse(areaText); err != nil {
		return &order.InvalidInputError{Field: "area", Reason: "not a number"}
	}

	if edited.PricedInputsChanged(current) {
		edited = c.withReference(edited)
		if edited, err = c.svc.CalculateOrderCosts(edited, order.Date{}); err != nil {
			return err
		}
	}

	c.printOrders([]order.Order{edited})
	ok, err := c.confirm("Save these changes?")
	if err != nil || !ok {
		return err
	}
	if err := c.svc.EditOrder(ctx, edited); err != nil {
		return err
	}
	c.printf("Order %d updated.\n", edited.Number)
	return nil
}

func (c *Console) removeOrder(ctx context.Context) error {
	current, err := c.selectOrder()
	if err != nil {
		return err
	}
	c.printOrders([]order.Order{current})
	ok, err := c.confirm("Remove this order?")
	if err != nil || !ok {
		return err
	}
	if _, removed := c.svc.RemoveOrder(ctx, current.Key()); !removed {
		return &order.NoSuchOrderError{Key: current.Key()}
	}
	c.printf("Order %d removed.\n", current.Number)
	return nil
}

func (c *Console) exportData(ctx context.Context) error {
	if c.export == nil {
		c.println("Export is not configured.")
		return nil
	}
	n, err := c.export(ctx, c.svc.AllOrders())
	if err != nil {
		return err
	}
	c.printf("Exported %d orders.\n", n)
	return nil
}

func (c *Console) saveOrders(ctx context.Context) error {
	if err := c.svc.SaveOrders(ctx); err != nil {
		return err
	}
	c.println("Orders saved.")
	return nil
}

func (c *Console) selectOrder() (order.Order, error) {
	date, err := c.promptDate("Enter order date (MM/DD/YYYY)")
	if err != nil {
		return order.Order{}, err
	}
	text, err := c.prompt("Order number")
	if err != nil {
		return order.Order{}, err
	}
	number, err := strconv.Atoi(text)
	if err != nil {
		return order.Order{}, &order.InvalidInputError{Field: "order number", Reason: "not a number"}
	}
	key := order.Key{Date: date, Number: number}
	o, ok := c.svc.GetOrder(key)
	if !ok {
		return order.Order{}, &order.NoSuchOrderError{Key: key}
	}
	return o, nil
}

// withReference copies the catalog tax rate and product pricing into o.
// Unknown states or products are left for the validator to report.
func (c *Console) withReference(o order.Order) order.Order {
	if rates := tax.Match(c.svc.Taxes(), o.State); len(rates) == 1 {
		o.TaxRate = rates[0].Rate
	}
	if products := product.Match(c.svc.Products(), o.ProductType); len(products) == 1 {
		o.CostPerSquareFoot = products[0].CostPerSquareFoot
		o.LaborCostPerSquareFoot = products[0].LaborCostPerSquareFoot
	}
	return o
}

func (c *Console) prompt(label string) (string, error) {
	c.printf("%s: ", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", errors.Wrap(err, "read input")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) promptDefault(label, current string) (string, error) {
	v, err := c.prompt(fmt.Sprintf("%s (%s)", label, current))
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (c *Console) promptChoice(label string, options []string) (string, error) {
	return c.prompt(fmt.Sprintf("%s [%s]", label, strings.Join(options, ", ")))
}

func (c *Console) promptDate(label string) (order.Date, error) {
	text, err := c.prompt(label)
	if err != nil {
		return order.Date{}, err
	}
	date, err := order.ParseDate(DateLayout, text)
	if err != nil {
		return order.Date{}, &order.InvalidInputError{Field: "order date", Reason: "expected MM/DD/YYYY"}
	}
	return date, nil
}

func (c *Console) promptAmount(label string) (decimal.Decimal, error) {
	text, err := c.prompt(label)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := money.Parse(text)
	if err != nil {
		return decimal.Zero, &order.InvalidInputError{Field: "area", Reason: "not a number"}
	}
	return v, nil
}

func (c *Console) confirm(label string) (bool, error) {
	v, err := c.prompt(label + " (Y/N)")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "y"), nil
}

func (c *Console) printOrders(orders []order.Order) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tDate\tCustomer\tState\tProduct\tArea\tMaterial\tLabor\tTax\tTotal")
	for _, o := range orders {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Number,
			o.Date.Format(DateLayout),
			o.CustomerName,
			o.State,
			o.ProductType,
			money.Format(o.Area),
			money.Format(o.MaterialCost),
			money.Format(o.LaborCost),
			money.Format(o.Tax),
			money.Format(o.Total),
		)
	}
	_ = w.Flush()
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func stateNames(rates []tax.Rate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.State
	}
	return out
}

func productTypes(products []product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Type
	}
	return out
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
