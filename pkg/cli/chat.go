package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/usecase/chat"
	"github.com/m-mizutani/ofrenda/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// chatCommand lets a creator preview a memorial conversation in the
// terminal, using the same session core the web surface runs.
func chatCommand() *cli.Command {
	var (
		cfg        config
		memorialID model.MemorialID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "memorial-id",
			Aliases:     []string{"id"},
			Usage:       "Memorial ID to chat with",
			Sources:     cli.EnvVars("OFRENDA_MEMORIAL_ID"),
			Destination: (*string)(&memorialID),
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Preview a memorial conversation in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.New(cfg.logLevel, logging.FormatConsole, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			gateway, err := cfg.newGateway(ctx)
			if err != nil {
				return err
			}

			chatOpts, err := cfg.chatOptions()
			if err != nil {
				return err
			}

			m, err := repo.GetMemorial(ctx, memorialID)
			if err != nil {
				return goerr.Wrap(err, "failed to get memorial")
			}

			registry := chat.RegistryFunc(func(ctx context.Context) ([]*model.ConditionalResponse, error) {
				return repo.ListResponses(ctx, memorialID)
			})

			session := chat.New(chat.NewInput{
				Memorial: m,
				Gateway:  gateway,
				Registry: registry,
			}, chatOpts...)

			out := c.Root().Writer

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Writer = os.Stderr

			sp.Start()
			welcome, err := session.Start(ctx)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to start conversation")
			}
			fmt.Fprintf(out, "%s: %s\n", m.Name, welcome.Text)

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open prompt")
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt || err == io.EOF {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				sp.Start()
				reply, err := session.Submit(ctx, line)
				sp.Stop()

				switch {
				case errors.Is(err, chat.ErrEmptyMessage):
					continue
				case err != nil:
					return goerr.Wrap(err, "failed to send message")
				}

				fmt.Fprintf(out, "%s: %s\n", m.Name, reply.Text)
			}

			fmt.Fprintf(out, "\nConversation ended\n")
			return nil
		},
	}
}
