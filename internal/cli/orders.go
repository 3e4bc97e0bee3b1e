package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"larder-cli/internal/model"
	"larder-cli/internal/mutate"
	"larder-cli/internal/orderflow"
	"larder-cli/internal/store"

	"github.com/spf13/cobra"
)

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order commands",
	}
	cmd.AddCommand(newOrdersCreateCmd(app))
	cmd.AddCommand(newOrdersListCmd(app))
	cmd.AddCommand(newOrdersShowCmd(app))
	cmd.AddCommand(newOrdersSetStatusCmd(app))
	return cmd
}

// parseOrderLine parses "prod-abc:2" into an order line, capturing the
// product's current price.
func parseOrderLine(db *store.DB, s string) (model.OrderLine, error) {
	id, qtyStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return model.OrderLine{}, fmt.Errorf("bad --line %q (want product-id:qty)", s)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
	if err != nil || qty <= 0 {
		return model.OrderLine{}, fmt.Errorf("bad quantity in --line %q", s)
	}
	p, found := db.FindProduct(strings.TrimSpace(id))
	if !found {
		return model.OrderLine{}, errNotFound("product", id)
	}
	if p.Archived {
		return model.OrderLine{}, fmt.Errorf("product is archived: %s", p.ID)
	}
	return model.OrderLine{ProductID: p.ID, Quantity: qty, PriceCents: p.PriceCents}, nil
}

func newOrdersCreateCmd(app *App) *cobra.Command {
	var customer string
	var note string
	var lineSpecs []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		Example: strings.TrimSpace(`
  larder orders create --customer "Riley" --line prod-abc:2 --line prod-def:1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(lineSpecs) == 0 {
				return writeErr(cmd, errors.New("missing --line (at least one product-id:qty)"))
			}

			lines := make([]model.OrderLine, 0, len(lineSpecs))
			for _, spec := range lineSpecs {
				line, err := parseOrderLine(db, spec)
				if err != nil {
					return writeErr(cmd, err)
				}
				lines = append(lines, line)
			}

			o, err := db.NewOrder(customer, lines)
			if err != nil {
				return writeErr(cmd, err)
			}
			o.Note = strings.TrimSpace(note)
			db.Orders = append(db.Orders, o)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "order.create", o.ID, map[string]any{"customer": o.Customer, "totalCents": o.TotalCents()})
			return writeOut(cmd, app, map[string]any{"data": o})
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	cmd.Flags().StringSliceVar(&lineSpecs, "line", nil, "Order line as product-id:qty (repeatable)")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func newOrdersListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if status == "" {
				return writeOut(cmd, app, map[string]any{"data": db.Orders})
			}
			want := model.OrderStatus(status)
			if !orderflow.ValidStatus(want) {
				return writeErr(cmd, fmt.Errorf("unknown status %q", status))
			}
			out := make([]model.Order, 0, len(db.Orders))
			for _, o := range db.Orders {
				if o.Status == want {
					out = append(out, o)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending|paid|packed|delivered|cancelled)")
	return cmd
}

func newOrdersShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			o, ok := db.FindOrder(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("order", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"order":      o,
					"totalCents": o.TotalCents(),
					"next":       orderflow.NextStatuses(o.Status),
				},
			})
		},
	}
	return cmd
}

func newOrdersSetStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Move an order through the fulfillment flow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetOrderStatus(db, actorID, args[0], model.OrderStatus(args[1]))
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "order.set_status", res.Order.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Order})
		},
	}
	return cmd
}
