package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"larder-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the storefront preview over HTTP",
		Long: strings.TrimSpace(`
Serve the customer-facing storefront preview from a local HTTP server.

The page live-updates while the store changes underneath it (edits from the
TUI or another larder process show up without a manual refresh).
`),
		Example: strings.TrimSpace(`
  # Serve the current workspace on localhost
  larder web --addr 127.0.0.1:7337

  # Serve a specific workspace
  larder --workspace market web --addr :7337
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadDB(app); err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:      listenAddr,
				Dir:       app.Dir,
				Workspace: strings.TrimSpace(app.Workspace),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer srv.Close()

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"workspace": strings.TrimSpace(app.Workspace),
					"dir":       app.Dir,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Larder storefront at %s (workspace=%s)\n", url, strings.TrimSpace(app.Workspace))

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7337", "Bind address (host:port or :port)")
	return cmd
}
