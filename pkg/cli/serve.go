package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/server"
	"github.com/m-mizutani/ofrenda/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg  config
		addr string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("OFRENDA_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, storageFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the memorial HTTP service",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.New(cfg.logLevel, logging.ParseFormat(cfg.logFormat), os.Stdout)
			logging.SetDefault(logger)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			gateway, err := cfg.newGateway(ctx)
			if err != nil {
				return err
			}

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			chatOpts, err := cfg.chatOptions()
			if err != nil {
				return err
			}

			handler := server.New(server.NewInput{
				Repo:        repo,
				Gateway:     gateway,
				Storage:     storage,
				ChatOptions: chatOpts,
			})

			httpServer := &http.Server{
				Addr:    addr,
				Handler: handler,
				BaseContext: func(_ net.Listener) context.Context {
					return logging.With(context.Background(), logger)
				},
			}

			go func() {
				<-ctx.Done()
				_ = httpServer.Shutdown(context.Background())
			}()

			logger.Info("starting server", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return goerr.Wrap(err, "server failed")
			}

			return nil
		},
	}
}
