package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	gamestrategy "github.com/meghna-1234/game-strategy-ai"
	"github.com/meghna-1234/game-strategy-ai/core"
)

const chatHelp = `Describe your game situation on one line to get a strategy.
Commands:
  /feedback N     rate the last strategy from 1 (useless) to 5 (won me the game)
  /state k=v ...  record game state (e.g. /state move=12 phase=middlegame)
  /style S        change the preferred style (Balanced, Aggressive, Defensive, Surprise, Economic)
  /risk R         change the risk level (Safe, Moderate, High Risk, All In)
  /detail D       change the detail level (Quick, Standard, Detailed, Comprehensive)
  /tactic T       set the primary tactic you plan to use
  /help           show this help
  /quit           end the session`

type chatOptions struct {
	userID   string
	gameType string
	request  gamestrategy.AdviceRequest
}

func newChatCmd(wire wireFunc) *cobra.Command {
	opts := chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive advice session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wire(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return runChat(cmd.Context(), a.coach, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.userID, "user", "", "player id")
	cmd.Flags().StringVar(&opts.gameType, "game", "", "game being played (chess, poker, go, ...)")
	cmd.Flags().StringVar(&opts.request.Style, "style", "Balanced", "preferred strategy style")
	cmd.Flags().StringVar(&opts.request.Risk, "risk", "Moderate", "risk tolerance")
	cmd.Flags().StringVar(&opts.request.Detail, "detail", "Standard", "detail level")
	cmd.Flags().StringVar(&opts.request.Tactic, "tactic", "", "primary tactic you plan to use")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

type chatLoop struct {
	coach     *gamestrategy.Coach
	opts      chatOptions
	out       io.Writer
	sessionID string
	last      *core.Strategy
}

func runChat(ctx context.Context, coach *gamestrategy.Coach, opts chatOptions, in io.Reader, out io.Writer) error {
	loop := &chatLoop{coach: coach, opts: opts, out: out}
	loop.sessionID = coach.StartSession(opts.userID, opts.gameType)

	interactive := isTerminal(in)
	if interactive {
		fmt.Fprintf(out, "Session started for %s playing %s. Type /help for commands.\n", opts.userID, opts.gameType)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := loop.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := coach.EndSession(ctx, loop.sessionID); err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}
	fmt.Fprintln(out, "Session ended. Your results were saved.")
	return nil
}

func (l *chatLoop) handle(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, "/") {
		return false, l.advise(ctx, line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(l.out, chatHelp)
	case "/feedback":
		return false, l.feedback(ctx, arg)
	case "/state":
		return false, l.state(arg)
	case "/style":
		l.opts.request.Style = arg
		fmt.Fprintf(l.out, "style set to %q\n", arg)
	case "/risk":
		l.opts.request.Risk = arg
		fmt.Fprintf(l.out, "risk set to %q\n", arg)
	case "/detail":
		l.opts.request.Detail = arg
		fmt.Fprintf(l.out, "detail set to %q\n", arg)
	case "/tactic":
		l.opts.request.Tactic = arg
		fmt.Fprintf(l.out, "tactic set to %q\n", arg)
	default:
		fmt.Fprintf(l.out, "unknown command %s (try /help)\n", cmd)
	}
	return false, nil
}

func (l *chatLoop) advise(ctx context.Context, situation string) error {
	req := l.opts.request
	req.Situation = situation

	var adv gamestrategy.Advice
	err := l.withSession(func() (err error) {
		adv, err = l.coach.Advise(ctx, l.sessionID, req)
		return err
	})
	if err != nil {
		return err
	}

	strategy := adv.Strategy
	l.last = &strategy
	fmt.Fprintf(l.out, "%s\n\n[%s via %s]\n", adv.Text, adv.Source, adv.Provider)
	return nil
}

func (l *chatLoop) feedback(ctx context.Context, arg string) error {
	if l.last == nil {
		fmt.Fprintln(l.out, "no strategy to rate yet")
		return nil
	}
	rating, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(l.out, "usage: /feedback N (1-5)")
		return nil
	}
	err = l.withSession(func() error {
		return l.coach.Feedback(ctx, l.sessionID, *l.last, rating)
	})
	if err != nil {
		if errors.Is(err, gamestrategy.ErrInvalidRating) {
			fmt.Fprintln(l.out, "rating must be between 1 and 5")
			return nil
		}
		return err
	}
	fmt.Fprintf(l.out, "Thanks for your feedback! Rating: %d/5\n", rating)
	return nil
}

func (l *chatLoop) state(arg string) error {
	delta := map[string]any{}
	for _, pair := range strings.Fields(arg) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			fmt.Fprintf(l.out, "ignoring %q (want key=value)\n", pair)
			continue
		}
		delta[k] = v
	}
	if len(delta) == 0 {
		fmt.Fprintln(l.out, "usage: /state key=value ...")
		return nil
	}
	if err := l.withSession(func() error { return l.coach.UpdateState(l.sessionID, delta) }); err != nil {
		return err
	}
	fmt.Fprintf(l.out, "state updated (%d keys)\n", len(delta))
	return nil
}

// withSession runs op once, and again on a fresh session if the current one
// has expired. Memory is keyed by player and game, so nothing learned is lost.
func (l *chatLoop) withSession(op func() error) error {
	err := op()
	if !errors.Is(err, core.ErrSessionNotFound) {
		return err
	}
	fmt.Fprintln(l.out, "Session expired or not found. Starting new session...")
	l.sessionID = l.coach.StartSession(l.opts.userID, l.opts.gameType)
	return op()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
